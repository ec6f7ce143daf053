package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/medbook/medbook-go/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoAppointmentRepository handles appointment persistence in MongoDB.
type MongoAppointmentRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoAppointmentRepository creates a new MongoAppointmentRepository.
func NewMongoAppointmentRepository(db *mongo.Database, timeout time.Duration) *MongoAppointmentRepository {
	return &MongoAppointmentRepository{coll: db.Collection(appointmentsCollection), timeout: timeout}
}

func (r *MongoAppointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	doc := *appt
	doc.ID = uuid.NewString()
	doc.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.coll.InsertOne(ctx, &doc); err != nil {
		return err
	}

	appt.ID, appt.CreatedAt = doc.ID, doc.CreatedAt
	return nil
}

func (r *MongoAppointmentRepository) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	appt := &model.Appointment{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return appt, nil
}

// List returns appointments sorted by date. An empty userID lists every
// appointment.
func (r *MongoAppointmentRepository) List(ctx context.Context, userID string) ([]model.Appointment, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{}
	if userID != "" {
		filter["user"] = userID
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "apptDate", Value: 1}}))
	if err != nil {
		return nil, err
	}

	appts := []model.Appointment{}
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *MongoAppointmentRepository) Update(ctx context.Context, appt *model.Appointment) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"apptDate": appt.ApptDate, "hospital": appt.Hospital}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": appt.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *MongoAppointmentRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}
