package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/scheduling-api/internal/model"
	"github.com/clinicore/scheduling-api/internal/repository"
	"github.com/clinicore/scheduling-api/pkg/errors"
)

type slotKey struct {
	doctorID uuid.UUID
	date     string
	start    model.TimeOfDay
}

// AppointmentRepository is an in-memory AppointmentRepository. The mutex
// around the active-slot index gives Insert the same atomicity the
// Postgres partial unique index provides.
type AppointmentRepository struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*model.Appointment
	activeSlots  map[slotKey]uuid.UUID
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{
		appointments: make(map[uuid.UUID]*model.Appointment),
		activeSlots:  make(map[slotKey]uuid.UUID),
	}
}

var _ repository.AppointmentRepository = (*AppointmentRepository)(nil)

func keyOf(appt *model.Appointment) slotKey {
	return slotKey{
		doctorID: appt.DoctorID,
		date:     model.FormatDate(appt.Date),
		start:    appt.StartTime,
	}
}

func (r *AppointmentRepository) Insert(ctx context.Context, appt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *appt
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	copied.Date = model.DateOf(copied.Date)
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt

	key := keyOf(&copied)
	if copied.Status.Active() {
		if _, taken := r.activeSlots[key]; taken {
			return errors.NewConflict("slot already booked", nil)
		}
		r.activeSlots[key] = copied.ID
	}
	r.appointments[copied.ID] = &copied

	*appt = copied
	return nil
}

func (r *AppointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, errors.NewNotFound("appointment", nil)
	}
	copied := *appt
	return &copied, nil
}

func (r *AppointmentRepository) ListForDay(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := model.DateOf(date)
	var out []*model.Appointment
	for _, appt := range r.appointments {
		if appt.DoctorID == doctorID && appt.Date.Equal(day) {
			copied := *appt
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *AppointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Appointment
	for _, appt := range r.appointments {
		if filters.DoctorID != uuid.Nil && appt.DoctorID != filters.DoctorID {
			continue
		}
		if filters.PatientID != uuid.Nil && appt.PatientID != filters.PatientID {
			continue
		}
		if filters.Status != "" && appt.Status != filters.Status {
			continue
		}
		if !filters.StartDate.IsZero() && appt.Date.Before(model.DateOf(filters.StartDate)) {
			continue
		}
		if !filters.EndDate.IsZero() && appt.Date.After(model.DateOf(filters.EndDate)) {
			continue
		}
		copied := *appt
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, errors.NewNotFound("appointment", nil)
	}
	if appt.Status != from {
		return nil, errors.NewConflict("appointment status changed concurrently", nil)
	}

	key := keyOf(appt)
	wasActive := appt.Status.Active()
	appt.Status = to
	appt.UpdatedAt = time.Now()

	// A cancel or no-show frees the slot for rebooking.
	if wasActive && !to.Active() {
		delete(r.activeSlots, key)
	}

	copied := *appt
	return &copied, nil
}
