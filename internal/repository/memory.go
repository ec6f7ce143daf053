package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/medbook/medbook-go/internal/model"
)

// MemoryUserRepository keeps users in process memory. It backs
// STORE_DRIVER=memory for local development and the HTTP tests.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]model.User
	byEmail map[string]string
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]model.User),
		byEmail: make(map[string]string),
	}
}

// Create stores user under a new ID unless its email is taken.
func (r *MemoryUserRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return ErrDuplicateEmail
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

// GetByEmail retrieves a user by email, including the password hash.
func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := r.byID[id]
	return &user, nil
}

// GetByID retrieves a user by ID without the password hash.
func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	user.PasswordHash = ""
	return &user, nil
}

// Delete removes a user. Only tests and local tooling use it.
func (r *MemoryUserRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.byID[id]; ok {
		delete(r.byEmail, user.Email)
		delete(r.byID, id)
	}
}

// MemoryAppointmentRepository keeps appointments in process memory.
type MemoryAppointmentRepository struct {
	mu    sync.RWMutex
	appts map[string]model.Appointment
}

// NewMemoryAppointmentRepository creates an empty MemoryAppointmentRepository.
func NewMemoryAppointmentRepository() *MemoryAppointmentRepository {
	return &MemoryAppointmentRepository{appts: make(map[string]model.Appointment)}
}

// Create stores appt under a new ID.
func (r *MemoryAppointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt.ID = uuid.NewString()
	appt.CreatedAt = time.Now().UTC()
	r.appts[appt.ID] = *appt
	return nil
}

// GetByID retrieves a single appointment.
func (r *MemoryAppointmentRepository) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appt, ok := r.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return &appt, nil
}

// List returns appointments by date, limited to userID unless it is empty.
func (r *MemoryAppointmentRepository) List(ctx context.Context, userID string) ([]model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appts := []model.Appointment{}
	for _, a := range r.appts {
		if userID == "" || a.User == userID {
			appts = append(appts, a)
		}
	}
	sort.Slice(appts, func(i, j int) bool { return appts[i].ApptDate.Before(appts[j].ApptDate) })
	return appts, nil
}

// Update replaces the stored date and hospital of appt.
func (r *MemoryAppointmentRepository) Update(ctx context.Context, appt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.appts[appt.ID]
	if !ok {
		return ErrAppointmentNotFound
	}
	existing.ApptDate = appt.ApptDate
	existing.Hospital = appt.Hospital
	r.appts[appt.ID] = existing
	return nil
}

// Delete removes an appointment.
func (r *MemoryAppointmentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appts[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(r.appts, id)
	return nil
}
