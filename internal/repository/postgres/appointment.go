package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/clinicore/scheduling-api/internal/model"
	"github.com/clinicore/scheduling-api/internal/repository"
	"github.com/clinicore/scheduling-api/pkg/errors"
)

// uniqueViolation is the Postgres error code raised by the partial unique
// index on (doctor_id, date, start_time) for active statuses. That index
// is the system's single enforcement point against double-booking.
const uniqueViolation = "23505"

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

func (r *appointmentRepository) Insert(ctx context.Context, appt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, doctor_id, patient_id, date, start_time, end_time,
			status, teleconsultation, reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		appt.ID,
		appt.DoctorID,
		appt.PatientID,
		model.DateOf(appt.Date),
		appt.StartTime,
		appt.EndTime,
		appt.Status,
		appt.Teleconsultation,
		appt.Reason,
		appt.CreatedAt,
		appt.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return errors.NewConflict("slot already booked", err)
		}
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, doctor_id, patient_id, date, start_time, end_time,
		       status, teleconsultation, reason, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appt model.Appointment
	err := r.db.GetContext(ctx, &appt, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appt, nil
}

func (r *appointmentRepository) ListForDay(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT id, doctor_id, patient_id, date, start_time, end_time,
		       status, teleconsultation, reason, created_at, updated_at
		FROM appointments
		WHERE doctor_id = $1 AND date = $2
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, doctorID, model.DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, doctor_id, patient_id, date, start_time, end_time,
		       status, teleconsultation, reason, created_at, updated_at
		FROM appointments
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters.DoctorID != uuid.Nil {
		query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
		args = append(args, filters.DoctorID)
		argCount++
	}
	if filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND date >= $%d", argCount)
		args = append(args, model.DateOf(filters.StartDate))
		argCount++
	}
	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND date <= $%d", argCount)
		args = append(args, model.DateOf(filters.EndDate))
		argCount++
	}

	query += " ORDER BY date ASC, start_time ASC"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// UpdateStatus applies a transition only if the stored status still equals
// from, so two racing transitions cannot both win.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (*model.Appointment, error) {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING id, doctor_id, patient_id, date, start_time, end_time,
		          status, teleconsultation, reason, created_at, updated_at
	`
	var appt model.Appointment
	err := r.db.GetContext(ctx, &appt, query, to, time.Now(), id, from)
	if err == sql.ErrNoRows {
		// Either the appointment is gone or somebody changed it first.
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, errors.NewConflict("appointment status changed concurrently", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	return &appt, nil
}
