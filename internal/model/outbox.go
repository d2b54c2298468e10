package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusProcessed OutboxStatus = "processed"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// OutboxEvent is a lifecycle event staged for delivery. Rows are written
// by the scheduling services and drained by the outbox processor.
type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	RetryAt      *time.Time      `db:"retry_at" json:"retry_at,omitempty"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// Event types emitted by the scheduling core.
const (
	EventAppointmentCreated       = "appointment.created"
	EventAppointmentStatusChanged = "appointment.status_changed"
)

// AppointmentCreatedPayload is the body of an appointment.created event.
type AppointmentCreatedPayload struct {
	Appointment *Appointment `json:"appointment"`
}

// AppointmentStatusChangedPayload carries both sides of a transition so
// consumers never have to re-read the appointment to know what happened.
type AppointmentStatusChangedPayload struct {
	Appointment *Appointment      `json:"appointment"`
	OldStatus   AppointmentStatus `json:"old_status"`
	NewStatus   AppointmentStatus `json:"new_status"`
	Actor       string            `json:"actor,omitempty"`
}
