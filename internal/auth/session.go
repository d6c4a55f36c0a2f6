// Package auth holds the per-request session built from a verified access token.
package auth

import (
	"context"

	"comicshare/internal/apperr"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Session identifies the caller of a request. It is created by the auth
// middleware after token verification and handed to services explicitly.
type Session struct {
	UserID string
	Email  string
	Role   string
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// CanManage reports whether the session may modify a resource owned by ownerID.
func (s *Session) CanManage(ownerID string) bool {
	return s != nil && (s.UserID == ownerID || s.IsAdmin())
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session stored by the auth middleware, or nil for
// anonymous requests.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

// Require is FromContext for routes that must be authenticated.
func Require(ctx context.Context) (*Session, error) {
	s := FromContext(ctx)
	if s == nil {
		return nil, apperr.New(apperr.ErrUnauthorized, "authentication required")
	}
	return s, nil
}
