package handler

import (
	"net/http"

	"github.com/medbook/medbook-go/internal/middleware"
	"github.com/medbook/medbook-go/internal/model"
	"github.com/medbook/medbook-go/internal/service"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service *service.AuthService
	session *Session
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, session *Session) *AuthHandler {
	return &AuthHandler{service: svc, session: session}
}

// HandleRegister handles POST /api/v1/auth/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.session.Respond(w, r, user, http.StatusOK)
}

// HandleLogin handles POST /api/v1/auth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.session.Respond(w, r, user, http.StatusOK)
}

// HandleMe handles GET /api/v1/auth/me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("not authorized to access this route"))
		return
	}

	writeJSON(w, http.StatusOK, dataResponse(user))
}

// HandleLogout handles GET /api/v1/auth/logout requests.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.session.Clear(w)
}
