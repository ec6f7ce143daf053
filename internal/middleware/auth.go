package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/medbook/medbook-go/internal/model"
	"github.com/medbook/medbook-go/internal/service"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "token"

const msgNotAuthorized = "not authorized to access this route"

type contextKey string

const userKey contextKey = "user"

// TokenVerifier resolves a session token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserLookup loads the identity behind a verified token.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// Authenticate returns middleware that requires a valid session token, taken
// from a Bearer Authorization header or the session cookie, and stores the
// resolved user in the request context.
func Authenticate(tokens TokenVerifier, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, msgNotAuthorized)
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, msgNotAuthorized)
				return
			}

			// A valid token is not enough: the account may have been removed
			// after the token was issued.
			user, err := users.GetUser(r.Context(), userID)
			if err != nil {
				if errors.Is(err, service.ErrUserNotFound) {
					writeJSONError(w, http.StatusUnauthorized, msgNotAuthorized)
					return
				}
				slog.ErrorContext(r.Context(), "loading authenticated user", "user_id", userID, "error", err)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireRoles returns middleware that admits only users whose role is in
// allowed. It must run after Authenticate.
func RequireRoles(allowed model.RoleSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, msgNotAuthorized)
				return
			}
			if !allowed.Contains(user.Role) {
				writeJSONError(w, http.StatusForbidden, "user role "+string(user.Role)+" is not authorized to access this route")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// tokenFromRequest prefers the Authorization header. A header without the
// Bearer prefix is ignored rather than rejected.
func tokenFromRequest(r *http.Request) string {
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}

	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}
