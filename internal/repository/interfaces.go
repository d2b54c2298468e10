package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/scheduling-api/internal/model"
)

type (
	// ScheduleRepository holds each doctor's recurring weekly template,
	// breaks and vacations. Pure data access; validation happens above.
	ScheduleRepository interface {
		GetSchedule(ctx context.Context, doctorID uuid.UUID) (*model.WeeklySchedule, error)
		UpsertSchedule(ctx context.Context, schedule *model.WeeklySchedule) error
		ListBreaks(ctx context.Context, doctorID uuid.UUID) ([]*model.Break, error)
		ReplaceBreaks(ctx context.Context, doctorID uuid.UUID, breaks []*model.Break) error
		ListVacations(ctx context.Context, doctorID uuid.UUID) ([]*model.Vacation, error)
		ReplaceVacations(ctx context.Context, doctorID uuid.UUID, vacations []*model.Vacation) error
	}

	// AppointmentRepository holds booked appointments. Insert is the single
	// enforcement point against double-booking: it must fail with
	// errors.Conflict when an active appointment already occupies the same
	// (doctor, date, start time), atomically with respect to concurrent
	// inserts.
	AppointmentRepository interface {
		Insert(ctx context.Context, appt *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		ListForDay(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.Appointment, error)
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		// UpdateStatus is a compare-and-swap: it only applies when the stored
		// status still equals from, and returns errors.Conflict otherwise.
		UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (*model.Appointment, error)
	}

	// OutboxRepository stages lifecycle events for the dispatcher.
	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryAt *time.Time) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
