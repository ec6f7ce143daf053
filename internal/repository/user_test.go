package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/medbook/medbook-go/internal/model"
)

func TestNewUserRepository(t *testing.T) {
	repo := NewUserRepository(nil, time.Second)
	if repo == nil {
		t.Fatal("expected non-nil UserRepository")
	}
	if repo.db != nil {
		t.Fatal("expected nil db when constructed with nil")
	}
}

func TestIsDuplicateEntryError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrUserNotFound, false},
		{"duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x.com' for key 'uq_users_email'"}, true},
		{"wrapped duplicate", fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062}), true},
		{"other mysql error", &mysql.MySQLError{Number: 1045}, false},
	}

	for _, tt := range tests {
		if got := isDuplicateEntryError(tt.err); got != tt.want {
			t.Errorf("%s: isDuplicateEntryError() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := withTimeout(context.Background(), 0)
	defer cancel()
	if _, ok := ctx.Deadline(); ok {
		t.Error("zero timeout should not set a deadline")
	}

	ctx, cancel = withTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("positive timeout should set a deadline")
	}
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &model.User{Name: "A", Email: "a@x.com", Role: model.RoleUser, PasswordHash: "hash"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Fatal("Create() did not assign an ID")
	}

	dup := &model.User{Name: "B", Email: "a@x.com", PasswordHash: "hash"}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("Create() duplicate error = %v, want ErrDuplicateEmail", err)
	}

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetByEmail() unexpected error: %v", err)
	}
	if byEmail.PasswordHash != "hash" {
		t.Error("GetByEmail() should include the password hash")
	}

	byID, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() unexpected error: %v", err)
	}
	if byID.PasswordHash != "" {
		t.Error("GetByID() should not include the password hash")
	}

	repo.Delete(user.ID)
	if _, err := repo.GetByID(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("GetByID() after delete error = %v, want ErrUserNotFound", err)
	}
}

func TestMemoryAppointmentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAppointmentRepository()
	day := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)

	late := &model.Appointment{ApptDate: day.Add(48 * time.Hour), User: "u-1", Hospital: "h-1"}
	early := &model.Appointment{ApptDate: day, User: "u-1", Hospital: "h-2"}
	other := &model.Appointment{ApptDate: day.Add(time.Hour), User: "u-2", Hospital: "h-1"}
	for _, a := range []*model.Appointment{late, early, other} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}
	}

	own, err := repo.List(ctx, "u-1")
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(own) != 2 || own[0].ID != early.ID {
		t.Fatalf("List(u-1) = %+v, want two appointments starting with the earliest", own)
	}

	all, err := repo.List(ctx, "")
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List(\"\") returned %d appointments, want 3", len(all))
	}

	if err := repo.Delete(ctx, other.ID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if err := repo.Delete(ctx, other.ID); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("second Delete() error = %v, want ErrAppointmentNotFound", err)
	}
	if err := repo.Update(ctx, &model.Appointment{ID: "missing"}); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("Update() error = %v, want ErrAppointmentNotFound", err)
	}
}
