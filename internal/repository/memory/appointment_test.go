package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/scheduling-api/internal/model"
	"github.com/clinicore/scheduling-api/pkg/errors"
)

func newAppointment(doctorID uuid.UUID, start model.TimeOfDay, status model.AppointmentStatus) *model.Appointment {
	return &model.Appointment{
		DoctorID:  doctorID,
		PatientID: uuid.New(),
		Date:      time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime: start,
		EndTime:   start.Add(30),
		Status:    status,
	}
}

func TestInsertRejectsActiveDuplicate(t *testing.T) {
	repo := NewAppointmentRepository()
	doctorID := uuid.New()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newAppointment(doctorID, 9*60, model.AppointmentStatusPending)))

	err := repo.Insert(ctx, newAppointment(doctorID, 9*60, model.AppointmentStatusPending))
	assert.ErrorIs(t, err, errors.Conflict)

	// Same slot, different doctor: no conflict.
	assert.NoError(t, repo.Insert(ctx, newAppointment(uuid.New(), 9*60, model.AppointmentStatusPending)))
}

func TestInsertCancelledDoesNotHoldSlot(t *testing.T) {
	repo := NewAppointmentRepository()
	doctorID := uuid.New()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newAppointment(doctorID, 9*60, model.AppointmentStatusCancelled)))
	assert.NoError(t, repo.Insert(ctx, newAppointment(doctorID, 9*60, model.AppointmentStatusPending)))
}

func TestUpdateStatusCompareAndSwap(t *testing.T) {
	repo := NewAppointmentRepository()
	ctx := context.Background()

	appt := newAppointment(uuid.New(), 10*60, model.AppointmentStatusPending)
	require.NoError(t, repo.Insert(ctx, appt))

	updated, err := repo.UpdateStatus(ctx, appt.ID, model.AppointmentStatusPending, model.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, updated.Status)

	// The expected status no longer matches; the swap loses.
	_, err = repo.UpdateStatus(ctx, appt.ID, model.AppointmentStatusPending, model.AppointmentStatusCancelled)
	assert.ErrorIs(t, err, errors.Conflict)

	stored, err := repo.Get(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, stored.Status)
}

func TestCancellationFreesSlot(t *testing.T) {
	repo := NewAppointmentRepository()
	doctorID := uuid.New()
	ctx := context.Background()

	appt := newAppointment(doctorID, 11*60, model.AppointmentStatusPending)
	require.NoError(t, repo.Insert(ctx, appt))

	_, err := repo.UpdateStatus(ctx, appt.ID, model.AppointmentStatusPending, model.AppointmentStatusCancelled)
	require.NoError(t, err)

	assert.NoError(t, repo.Insert(ctx, newAppointment(doctorID, 11*60, model.AppointmentStatusPending)))
}

func TestListFilters(t *testing.T) {
	repo := NewAppointmentRepository()
	ctx := context.Background()

	doctorA := uuid.New()
	doctorB := uuid.New()
	patient := uuid.New()

	a1 := newAppointment(doctorA, 9*60, model.AppointmentStatusPending)
	a1.PatientID = patient
	require.NoError(t, repo.Insert(ctx, a1))
	require.NoError(t, repo.Insert(ctx, newAppointment(doctorA, 10*60, model.AppointmentStatusConfirmed)))
	require.NoError(t, repo.Insert(ctx, newAppointment(doctorB, 9*60, model.AppointmentStatusPending)))

	byDoctor, err := repo.List(ctx, &model.AppointmentFilters{DoctorID: doctorA})
	require.NoError(t, err)
	assert.Len(t, byDoctor, 2)

	byPatient, err := repo.List(ctx, &model.AppointmentFilters{PatientID: patient})
	require.NoError(t, err)
	require.Len(t, byPatient, 1)
	assert.Equal(t, a1.ID, byPatient[0].ID)

	byStatus, err := repo.List(ctx, &model.AppointmentFilters{
		DoctorID: doctorA,
		Status:   model.AppointmentStatusConfirmed,
	})
	require.NoError(t, err)
	assert.Len(t, byStatus, 1)
}
