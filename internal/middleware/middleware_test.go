package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"comicshare/internal/apperr"
	"comicshare/internal/auth"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubVerifier map[string]*auth.Session

func (s stubVerifier) SessionFromToken(_ context.Context, token string) (*auth.Session, error) {
	if token == "unverifiable" {
		return nil, errors.New("connection refused")
	}
	if session, ok := s[token]; ok {
		return session, nil
	}
	return nil, apperr.New(apperr.ErrUnauthorized, "token is expired")
}

// echoSession responds 200 with the caller's user id, or "anonymous".
var echoSession = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if s := auth.FromContext(r.Context()); s != nil {
		_, _ = w.Write([]byte(s.UserID))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
})

func TestAuth(t *testing.T) {
	verifier := stubVerifier{"good": {UserID: "u1", Role: auth.RoleUser}}
	handler := Auth(verifier)(echoSession)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"no header", "", http.StatusOK, "anonymous"},
		{"valid token", "Bearer good", http.StatusOK, "u1"},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, "invalid authorization header"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "invalid authorization header"},
		{"expired token", "Bearer stale", http.StatusUnauthorized, "invalid or expired token"},
		{"verifier unavailable", "Bearer unverifiable", http.StatusServiceUnavailable, "could not verify session"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/comics", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
		})
	}
}

func TestRequireAuthAndRole(t *testing.T) {
	user := &auth.Session{UserID: "u1", Role: auth.RoleUser}
	admin := &auth.Session{UserID: "a1", Role: auth.RoleAdmin}

	tests := []struct {
		name       string
		handler    http.Handler
		session    *auth.Session
		wantStatus int
	}{
		{"auth anonymous", RequireAuth(echoSession), nil, http.StatusUnauthorized},
		{"auth user", RequireAuth(echoSession), user, http.StatusOK},
		{"role anonymous", RequireRole(auth.RoleAdmin)(echoSession), nil, http.StatusUnauthorized},
		{"role user", RequireRole(auth.RoleAdmin)(echoSession), user, http.StatusForbidden},
		{"role admin", RequireRole(auth.RoleAdmin)(echoSession), admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/comics", nil)
			if tt.session != nil {
				req = req.WithContext(auth.WithSession(req.Context(), tt.session))
			}
			rr := httptest.NewRecorder()

			tt.handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	handler := CORS("https://comics.example")(echoSession)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/comics", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://comics.example", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rr.Body.String())

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/comics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "anonymous", rr.Body.String())
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var seenID string
	handler := Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/comments", nil))

	require.NotEmpty(t, seenID)
	assert.Equal(t, seenID, rr.Header().Get("X-Request-ID"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, seenID, fields["request_id"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "/api/comments", fields["path"])
}

func TestRecover(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	handler := Recover(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("nil map write")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "internal server error")
	assert.Equal(t, 1, logs.FilterMessage("handler panic").Len())
}

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	Chain(echoSession, tag("inner"), tag("outer")).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
}
