package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// Active reports whether the status occupies its slot. Cancelled and
// no-show appointments free the slot for rebooking.
func (s AppointmentStatus) Active() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether any further transition is allowed from s.
func (s AppointmentStatus) Terminal() bool {
	switch s {
	case AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// Appointment is a booked slot. Appointments are never deleted; the
// status field is the only thing that changes after creation.
type Appointment struct {
	ID               uuid.UUID         `db:"id" json:"id"`
	DoctorID         uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	PatientID        uuid.UUID         `db:"patient_id" json:"patient_id"`
	Date             time.Time         `db:"date" json:"date"`
	StartTime        TimeOfDay         `db:"start_time" json:"start_time"`
	EndTime          TimeOfDay         `db:"end_time" json:"end_time"`
	Status           AppointmentStatus `db:"status" json:"status"`
	Teleconsultation bool              `db:"teleconsultation" json:"teleconsultation"`
	Reason           string            `db:"reason" json:"reason,omitempty"`
	CreatedAt        time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time         `db:"updated_at" json:"updated_at"`
}

// BookingRequest is the typed input to the booking coordinator.
type BookingRequest struct {
	DoctorID         uuid.UUID `json:"doctor_id" binding:"required"`
	PatientID        uuid.UUID `json:"patient_id" binding:"required"`
	Date             string    `json:"date" binding:"required,dateonly"`
	StartTime        string    `json:"start_time" binding:"required,timeofday"`
	Reason           string    `json:"reason" binding:"max=1000"`
	Teleconsultation bool      `json:"teleconsultation"`
}

// TransitionRequest asks the lifecycle to move an appointment to a new status.
type TransitionRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=pending confirmed completed cancelled no_show"`
}

// AppointmentFilters narrows appointment listings.
type AppointmentFilters struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}
