package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medbook/medbook-go/internal/service"
)

// UserHandler serves account lookups for administrators.
type UserHandler struct {
	service *service.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.AuthService) *UserHandler {
	return &UserHandler{service: svc}
}

// HandleGetUser handles GET /api/v1/admin/users/{id} requests.
func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse(user))
}
