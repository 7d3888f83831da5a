package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hartetoti/backend/internal/ctxkeys"
	"github.com/hartetoti/backend/internal/logger"
	"github.com/hartetoti/backend/internal/model"
	"github.com/hartetoti/backend/internal/render"
	"github.com/hartetoti/backend/internal/service"
)

// SessionCookieName is the cookie login sets.
const SessionCookieName = "token"

// Authenticator resolves a session token to a live user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// RequireAuth rejects requests without a valid session and puts the user in
// the request context otherwise. The cookie wins over a Bearer header.
func RequireAuth(authenticator Authenticator) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				render.Error(w, http.StatusUnauthorized, service.ErrNotAuthorized.Message)
				return
			}

			user, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				if serviceErr, ok := service.AsError(err); ok {
					render.Error(w, http.StatusUnauthorized, serviceErr.Message)
					return
				}
				logger.Error("authenticate failed", err, "path", r.URL.Path)
				render.InternalError(w)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := service.RequireAdmin(ctxkeys.User(r.Context()))
		if err != nil {
			render.Error(w, http.StatusForbidden, service.ErrNotAdmin.Message)
			return
		}
		next(w, r)
	}
}

func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
