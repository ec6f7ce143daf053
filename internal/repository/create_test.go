package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/medbook/medbook-go/internal/model"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Nothing listens on port 1, so every insert below fails.
const unreachableDSN = "medbook:secret@tcp(127.0.0.1:1)/medbook?parseTime=true&timeout=1s"

func TestSQLCreateFailureLeavesRecordUnassigned(t *testing.T) {
	db, err := sql.Open("mysql", unreachableDSN)
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer db.Close()

	user := &model.User{Name: "A", Email: "a@x.com", Role: model.RoleUser, PasswordHash: "hash"}
	if err := NewUserRepository(db, time.Second).Create(context.Background(), user); err == nil {
		t.Fatal("expected insert error")
	}
	if user.ID != "" || !user.CreatedAt.IsZero() {
		t.Errorf("user after failed insert = {ID:%q CreatedAt:%s}, want zero", user.ID, user.CreatedAt)
	}

	appt := &model.Appointment{ApptDate: time.Now(), User: "u-1", Hospital: "h-1"}
	if err := NewAppointmentRepository(db, time.Second).Create(context.Background(), appt); err == nil {
		t.Fatal("expected insert error")
	}
	if appt.ID != "" || !appt.CreatedAt.IsZero() {
		t.Errorf("appointment after failed insert = {ID:%q CreatedAt:%s}, want zero", appt.ID, appt.CreatedAt)
	}
}

func TestMongoCreateFailureLeavesRecordUnassigned(t *testing.T) {
	client, err := mongo.Connect(options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	if err != nil {
		t.Fatalf("mongo.Connect() error = %v", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database("medbook_test")

	user := &model.User{Name: "A", Email: "a@x.com", Role: model.RoleUser, PasswordHash: "hash"}
	if err := NewMongoUserRepository(db, 200*time.Millisecond).Create(context.Background(), user); err == nil {
		t.Fatal("expected insert error")
	}
	if user.ID != "" || !user.CreatedAt.IsZero() {
		t.Errorf("user after failed insert = {ID:%q CreatedAt:%s}, want zero", user.ID, user.CreatedAt)
	}

	appt := &model.Appointment{ApptDate: time.Now(), User: "u-1", Hospital: "h-1"}
	if err := NewMongoAppointmentRepository(db, 200*time.Millisecond).Create(context.Background(), appt); err == nil {
		t.Fatal("expected insert error")
	}
	if appt.ID != "" {
		t.Errorf("appointment ID after failed insert = %q, want empty", appt.ID)
	}
}

func TestMemoryDuplicateLeavesRecordUnassigned(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, &model.User{Email: "a@x.com"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dup := &model.User{Email: "a@x.com"}
	if err := repo.Create(ctx, dup); err != ErrDuplicateEmail {
		t.Fatalf("Create() error = %v, want ErrDuplicateEmail", err)
	}
	if dup.ID != "" {
		t.Errorf("duplicate ID = %q, want empty", dup.ID)
	}
}
