package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/medbook/medbook-go/internal/middleware"
	"github.com/medbook/medbook-go/internal/model"
)

const logoutCookieTTL = 10 * time.Second

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Session builds the response for a successful registration or login. Both
// flows go through Respond so the cookie and body are identical.
type Session struct {
	tokens    TokenIssuer
	cookieTTL time.Duration
	secure    bool
	now       func() time.Time
}

// NewSession creates a Session. secure marks cookies Secure and should be
// set only in production.
func NewSession(tokens TokenIssuer, cookieTTL time.Duration, secure bool) *Session {
	return &Session{tokens: tokens, cookieTTL: cookieTTL, secure: secure, now: time.Now}
}

// Respond issues a token for user, sets the session cookie and writes the
// session body with the given status.
func (s *Session) Respond(w http.ResponseWriter, r *http.Request, user *model.User, status int) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "issuing session token", "user_id", user.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  s.now().Add(s.cookieTTL),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, status, model.SessionResponse{
		Success: true,
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Token:   token,
	})
}

// Clear overwrites the session cookie with a placeholder that expires in a
// few seconds. The token itself stays valid until its own expiry.
func (s *Session) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "none",
		Path:     "/",
		Expires:  s.now().Add(logoutCookieTTL),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, dataResponse(struct{}{}))
}
