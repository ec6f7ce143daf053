package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/medbook/medbook-go/internal/model"
)

// AppointmentRepository handles appointment persistence in MySQL.
type AppointmentRepository struct {
	db      *sql.DB
	timeout time.Duration
}

// NewAppointmentRepository creates a new AppointmentRepository.
func NewAppointmentRepository(db *sql.DB, timeout time.Duration) *AppointmentRepository {
	return &AppointmentRepository{db: db, timeout: timeout}
}

const appointmentColumns = `id, appt_date, user_id, hospital, created_at`

// Create inserts a new appointment, assigning its ID and creation time.
func (r *AppointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	id := uuid.NewString()
	createdAt := time.Now().UTC().Truncate(time.Second)

	query := `INSERT INTO appointments (` + appointmentColumns + `) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, id, appt.ApptDate, appt.User, appt.Hospital, createdAt); err != nil {
		return err
	}

	appt.ID, appt.CreatedAt = id, createdAt
	return nil
}

// GetByID retrieves a single appointment.
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = ?`

	appt := &model.Appointment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&appt.ID, &appt.ApptDate, &appt.User, &appt.Hospital, &appt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return appt, nil
}

// List retrieves appointments ordered by date. An empty userID lists every
// appointment.
func (r *AppointmentRepository) List(ctx context.Context, userID string) ([]model.Appointment, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY appt_date ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appts := []model.Appointment{}
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.ApptDate, &a.User, &a.Hospital, &a.CreatedAt); err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}

	return appts, rows.Err()
}

// Update overwrites the mutable fields of an existing appointment.
func (r *AppointmentRepository) Update(ctx context.Context, appt *model.Appointment) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `UPDATE appointments SET appt_date = ?, hospital = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, appt.ApptDate, appt.Hospital, appt.ID)
	if err != nil {
		return err
	}

	// MySQL reports zero affected rows when the values are unchanged, so a
	// miss is confirmed with a lookup.
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		if _, err := r.GetByID(ctx, appt.ID); err != nil {
			return err
		}
	}

	return nil
}

// Delete removes an appointment.
func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}
