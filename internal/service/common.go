package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"comicshare/internal/apperr"
	"comicshare/internal/auth"
	"comicshare/internal/models"
	"comicshare/internal/ordering"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination is a 1-based page window as sent by clients.
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

func (p Pagination) Limit() int  { return p.normalize().PageSize }
func (p Pagination) Offset() int { n := p.normalize(); return (n.Page - 1) * n.PageSize }

// ReorderRequest moves the item at From to To. When Expected is set it must
// equal the stored order, otherwise the caller is working from a stale view.
type ReorderRequest struct {
	From     int      `json:"from" validate:"min=0"`
	To       int      `json:"to" validate:"min=0"`
	Expected []string `json:"expected,omitempty"`
}

var errStaleOrder = apperr.Conflict("the list was changed elsewhere, reload and try again")

// reorder must run inside a transaction: lock returns the current order with
// the stored positions and holds the rows until commit, set persists one
// position.
func reorder(
	ctx context.Context,
	req ReorderRequest,
	base int,
	lock func(ctx context.Context) ([]ordering.Assignment, error),
	set func(ctx context.Context, id string, position int) error,
) ([]string, error) {
	stored, err := lock(ctx)
	if err != nil {
		return nil, err
	}
	before := ordering.IDs(stored)

	if req.Expected != nil && !ordering.SameOrder(req.Expected, before) {
		return nil, errStaleOrder
	}

	after, err := ordering.Move(before, req.From, req.To)
	if err != nil {
		return nil, err
	}

	for _, a := range ordering.Changed(stored, after, base) {
		if err := set(ctx, a.ID, a.Position); err != nil {
			return nil, fmt.Errorf("persist position of %s: %w", a.ID, err)
		}
	}
	return after, nil
}

func requireAdmin(s *auth.Session) error {
	if s == nil {
		return apperr.New(apperr.ErrUnauthorized, "authentication required")
	}
	if !s.IsAdmin() {
		return apperr.Forbidden("administrator role required")
	}
	return nil
}

func requireSession(s *auth.Session) error {
	if s == nil {
		return apperr.New(apperr.ErrUnauthorized, "authentication required")
	}
	return nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases s and collapses every run of other characters to "-".
func slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func validStatus(status string) bool {
	switch status {
	case models.StatusDraft, models.StatusPublished, models.StatusArchived:
		return true
	}
	return false
}
