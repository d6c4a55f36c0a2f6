// Package wizard models the comic upload flow as a linear state machine:
//
//	cover -> pages -> details -> review -> submitting -> done | failed
//
// Steps cover..review can be walked forward and backward; each forward
// transition is guarded. Once submitting is entered the wizard can only
// finish.
package wizard

import (
	"fmt"
	"io"
	"strings"

	"comicshare/internal/apperr"
	"comicshare/internal/ordering"
)

type State string

const (
	StateCover      State = "cover"
	StatePages      State = "pages"
	StateDetails    State = "details"
	StateReview     State = "review"
	StateSubmitting State = "submitting"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// DefaultMaxPages caps the number of pages in one upload. Smaller limits may
// be configured, larger ones may not.
const DefaultMaxPages = 100

// ErrInvalidTransition is returned when an action is not allowed in the
// wizard's current state.
var ErrInvalidTransition = apperr.Conflict("invalid wizard transition")

// steps lists the editable states in order.
var steps = []State{StateCover, StatePages, StateDetails, StateReview}

// GuardError reports why the wizard could not leave a step.
type GuardError struct {
	Step   State
	Reason string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("%s step: %s", e.Step, e.Reason)
}

func (e *GuardError) Unwrap() error { return apperr.ErrValidation }

// File is an uploaded image waiting to be stored.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

type Details struct {
	Title       string
	Artist      string
	Description string
	Tags        []string
}

type Wizard struct {
	state    State
	maxPages int
	cover    *File
	pages    []File
	details  Details
	err      error
}

// New returns a wizard at the cover step. maxPages outside 1..DefaultMaxPages
// selects DefaultMaxPages.
func New(maxPages int) *Wizard {
	if maxPages <= 0 || maxPages > DefaultMaxPages {
		maxPages = DefaultMaxPages
	}
	return &Wizard{state: StateCover, maxPages: maxPages}
}

func (w *Wizard) State() State     { return w.state }
func (w *Wizard) Cover() *File     { return w.cover }
func (w *Wizard) Details() Details { return w.details }
func (w *Wizard) Err() error       { return w.err }
func (w *Wizard) MaxPages() int    { return w.maxPages }
func (w *Wizard) PageCount() int   { return len(w.pages) }

// Pages returns the pages in page-number order.
func (w *Wizard) Pages() []File {
	out := make([]File, len(w.pages))
	copy(out, w.pages)
	return out
}

func (w *Wizard) expect(state State, action string) error {
	if w.state != state {
		return fmt.Errorf("%s in state %s: %w", action, w.state, ErrInvalidTransition)
	}
	return nil
}

func (w *Wizard) SetCover(f File) error {
	if err := w.expect(StateCover, "set cover"); err != nil {
		return err
	}
	w.cover = &f
	return nil
}

func (w *Wizard) AddPages(files ...File) error {
	if err := w.expect(StatePages, "add pages"); err != nil {
		return err
	}
	w.pages = append(w.pages, files...)
	return nil
}

func (w *Wizard) RemovePage(index int) error {
	if err := w.expect(StatePages, "remove page"); err != nil {
		return err
	}
	if index < 0 || index >= len(w.pages) {
		return fmt.Errorf("remove page %d of %d: %w", index, len(w.pages), ordering.ErrIndexOutOfRange)
	}
	w.pages = append(w.pages[:index], w.pages[index+1:]...)
	return nil
}

func (w *Wizard) MovePage(from, to int) error {
	if err := w.expect(StatePages, "move page"); err != nil {
		return err
	}
	moved, err := ordering.Move(w.pages, from, to)
	if err != nil {
		return err
	}
	w.pages = moved
	return nil
}

func (w *Wizard) SetDetails(d Details) error {
	if err := w.expect(StateDetails, "set details"); err != nil {
		return err
	}
	d.Title = strings.TrimSpace(d.Title)
	d.Artist = strings.TrimSpace(d.Artist)
	d.Description = strings.TrimSpace(d.Description)
	d.Tags = normalizeTags(d.Tags)
	w.details = d
	return nil
}

// guard checks the condition for leaving state forward.
func (w *Wizard) guard(state State) error {
	switch state {
	case StateCover:
		if w.cover == nil {
			return &GuardError{Step: StateCover, Reason: "a cover image is required"}
		}
	case StatePages:
		if len(w.pages) == 0 {
			return &GuardError{Step: StatePages, Reason: "at least one page is required"}
		}
		if len(w.pages) > w.maxPages {
			return &GuardError{Step: StatePages, Reason: fmt.Sprintf("at most %d pages are allowed, got %d", w.maxPages, len(w.pages))}
		}
	case StateDetails:
		if w.details.Title == "" {
			return &GuardError{Step: StateDetails, Reason: "title is required"}
		}
		if w.details.Artist == "" {
			return &GuardError{Step: StateDetails, Reason: "artist is required"}
		}
	}
	return nil
}

func stepIndex(state State) int {
	for i, s := range steps {
		if s == state {
			return i
		}
	}
	return -1
}

// Next advances one step if the current step's guard passes.
func (w *Wizard) Next() error {
	i := stepIndex(w.state)
	if i < 0 || i == len(steps)-1 {
		return fmt.Errorf("next from %s: %w", w.state, ErrInvalidTransition)
	}
	if err := w.guard(w.state); err != nil {
		return err
	}
	w.state = steps[i+1]
	return nil
}

// Back returns to the previous step. It is not available once submitting.
func (w *Wizard) Back() error {
	i := stepIndex(w.state)
	if i <= 0 {
		return fmt.Errorf("back from %s: %w", w.state, ErrInvalidTransition)
	}
	w.state = steps[i-1]
	return nil
}

// Submit moves from review to submitting after re-checking every guard.
func (w *Wizard) Submit() error {
	if err := w.expect(StateReview, "submit"); err != nil {
		return err
	}
	for _, s := range steps[:len(steps)-1] {
		if err := w.guard(s); err != nil {
			return err
		}
	}
	w.state = StateSubmitting
	return nil
}

// Finish ends a submission: nil moves to done, anything else to failed.
func (w *Wizard) Finish(err error) error {
	if e := w.expect(StateSubmitting, "finish"); e != nil {
		return e
	}
	if err != nil {
		w.state = StateFailed
		w.err = err
		return nil
	}
	w.state = StateDone
	return nil
}

// Fill sets every step's input and advances as far as the guards allow,
// stopping at review. It returns the first guard error, leaving the wizard
// on the step that failed.
func (w *Wizard) Fill(cover *File, pages []File, d Details) error {
	if cover != nil {
		if err := w.SetCover(*cover); err != nil {
			return err
		}
	}
	if err := w.Next(); err != nil {
		return err
	}
	if err := w.AddPages(pages...); err != nil {
		return err
	}
	if err := w.Next(); err != nil {
		return err
	}
	if err := w.SetDetails(d); err != nil {
		return err
	}
	return w.Next()
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
