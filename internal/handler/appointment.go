package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medbook/medbook-go/internal/middleware"
	"github.com/medbook/medbook-go/internal/model"
	"github.com/medbook/medbook-go/internal/service"
)

// AppointmentHandler handles HTTP requests for appointments.
type AppointmentHandler struct {
	service *service.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(svc *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: svc}
}

// HandleList handles GET /api/v1/appointments requests.
func (h *AppointmentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("not authorized to access this route"))
		return
	}

	appts, err := h.service.List(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(appts),
		"data":    appts,
	})
}

// HandleGet handles GET /api/v1/appointments/{id} requests.
func (h *AppointmentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	appt, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse(appt))
}

// HandleCreate handles POST /api/v1/appointments requests.
func (h *AppointmentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("not authorized to access this route"))
		return
	}

	var req model.AppointmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	appt, err := h.service.Create(r.Context(), user, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dataResponse(appt))
}

// HandleUpdate handles PUT /api/v1/appointments/{id} requests.
func (h *AppointmentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("not authorized to access this route"))
		return
	}

	var req model.AppointmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	appt, err := h.service.Update(r.Context(), user, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse(appt))
}

// HandleDelete handles DELETE /api/v1/appointments/{id} requests.
func (h *AppointmentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("not authorized to access this route"))
		return
	}

	if err := h.service.Delete(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse(struct{}{}))
}
