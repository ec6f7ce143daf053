package model

import "time"

// Appointment is a booking made by a user at a hospital.
type Appointment struct {
	ID        string    `json:"_id" bson:"_id"`
	ApptDate  time.Time `json:"apptDate" bson:"apptDate"`
	User      string    `json:"user" bson:"user"`
	Hospital  string    `json:"hospital" bson:"hospital"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// AppointmentRequest is the body of create and update requests. Update
// treats zero fields as unchanged.
type AppointmentRequest struct {
	ApptDate *time.Time `json:"apptDate"`
	Hospital string     `json:"hospital" validate:"omitempty,max=64"`
}
