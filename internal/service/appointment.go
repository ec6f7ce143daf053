package service

import (
	"context"
	"errors"
	"strings"

	"github.com/medbook/medbook-go/internal/model"
	"github.com/medbook/medbook-go/internal/repository"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrForbidden           = errors.New("not authorized to modify this appointment")
)

// AppointmentStore persists appointments.
type AppointmentStore interface {
	Create(ctx context.Context, appt *model.Appointment) error
	GetByID(ctx context.Context, id string) (*model.Appointment, error)
	List(ctx context.Context, userID string) ([]model.Appointment, error)
	Update(ctx context.Context, appt *model.Appointment) error
	Delete(ctx context.Context, id string) error
}

// AppointmentService handles appointment business logic.
type AppointmentService struct {
	store AppointmentStore
}

// NewAppointmentService creates a new AppointmentService.
func NewAppointmentService(store AppointmentStore) *AppointmentService {
	return &AppointmentService{store: store}
}

// List returns every appointment for elevated roles and the caller's own
// appointments otherwise.
func (s *AppointmentService) List(ctx context.Context, identity *model.User) ([]model.Appointment, error) {
	scope := identity.ID
	if identity.Role.Elevated() {
		scope = ""
	}
	return s.store.List(ctx, scope)
}

func (s *AppointmentService) Get(ctx context.Context, id string) (*model.Appointment, error) {
	appt, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrAppointmentNotFound) {
		return nil, ErrAppointmentNotFound
	}
	return appt, err
}

// Create books an appointment owned by identity.
func (s *AppointmentService) Create(ctx context.Context, identity *model.User, req model.AppointmentRequest) (*model.Appointment, error) {
	req.Hospital = strings.TrimSpace(req.Hospital)
	if req.ApptDate == nil || req.ApptDate.IsZero() {
		return nil, &ValidationError{Field: "apptDate", Message: "apptDate is required"}
	}
	if req.Hospital == "" {
		return nil, &ValidationError{Field: "hospital", Message: "hospital is required"}
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	appt := &model.Appointment{
		ApptDate: req.ApptDate.UTC(),
		User:     identity.ID,
		Hospital: req.Hospital,
	}
	if err := s.store.Create(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Update changes the date or hospital of an appointment. Only the creator or
// an elevated role may do so.
func (s *AppointmentService) Update(ctx context.Context, identity *model.User, id string, req model.AppointmentRequest) (*model.Appointment, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	appt, err := s.authorize(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if req.ApptDate != nil && !req.ApptDate.IsZero() {
		appt.ApptDate = req.ApptDate.UTC()
	}
	if h := strings.TrimSpace(req.Hospital); h != "" {
		appt.Hospital = h
	}

	if err := s.store.Update(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return appt, nil
}

// Delete removes an appointment. Only the creator or an elevated role may do
// so.
func (s *AppointmentService) Delete(ctx context.Context, identity *model.User, id string) error {
	if _, err := s.authorize(ctx, identity, id); err != nil {
		return err
	}

	err := s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrAppointmentNotFound) {
		return ErrAppointmentNotFound
	}
	return err
}

func (s *AppointmentService) authorize(ctx context.Context, identity *model.User, id string) (*model.Appointment, error) {
	appt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanModifyAppointment(identity, appt.User) {
		return nil, ErrForbidden
	}
	return appt, nil
}
