// Package ordering implements move-one-item reordering for small persisted
// collections such as bookmark folders and comic pages.
package ordering

import (
	"fmt"

	"comicshare/internal/apperr"
)

// Position bases used by the persisted fields.
const (
	DisplayOrderBase = 0 // display_order columns
	PageNumberBase   = 1 // page_number columns
)

// ErrIndexOutOfRange is returned when a move names an index outside the list.
var ErrIndexOutOfRange = apperr.Validation("reorder index out of range")

// Assignment pairs an item with a position, either the one it is stored
// with or the one it must be stored with.
type Assignment struct {
	ID       string `db:"id"`
	Position int    `db:"position"`
}

// IDs returns the ids of list in order.
func IDs(list []Assignment) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}

// Move returns a copy of items with the element at from removed and
// reinserted at to. The input slice is left untouched.
func Move[T any](items []T, from, to int) ([]T, error) {
	n := len(items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, fmt.Errorf("move %d -> %d in list of %d: %w", from, to, n, ErrIndexOutOfRange)
	}

	out := make([]T, 0, n)
	moved := items[from]
	for i, item := range items {
		if i == from {
			continue
		}
		if len(out) == to {
			out = append(out, moved)
		}
		out = append(out, item)
	}
	if len(out) < n {
		out = append(out, moved)
	}
	return out, nil
}

// Positions assigns position i+base to the item at index i.
func Positions(ids []string, base int) []Assignment {
	out := make([]Assignment, len(ids))
	for i, id := range ids {
		out[i] = Assignment{ID: id, Position: i + base}
	}
	return out
}

// Changed returns the assignments of after whose position differs from the
// position stored for the same id. Stored positions may have gaps or
// duplicates, so they are compared as values, never as list indices. Ids
// absent from stored are always included.
func Changed(stored []Assignment, after []string, base int) []Assignment {
	prev := make(map[string]int, len(stored))
	for _, a := range stored {
		prev[a.ID] = a.Position
	}

	var out []Assignment
	for i, id := range after {
		if old, ok := prev[id]; ok && old == i+base {
			continue
		}
		out = append(out, Assignment{ID: id, Position: i + base})
	}
	return out
}

// SameOrder reports whether a and b list the same ids in the same order.
func SameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
