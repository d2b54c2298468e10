package lifecycle

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/scheduling-api/internal/model"
	"github.com/clinicore/scheduling-api/internal/repository/memory"
	"github.com/clinicore/scheduling-api/internal/service/event"
	"github.com/clinicore/scheduling-api/pkg/errors"
	"github.com/clinicore/scheduling-api/pkg/logger"
)

type fixture struct {
	appointments *memory.AppointmentRepository
	outbox       *memory.OutboxRepository
	svc          *Service
}

func newFixture(t *testing.T, allowWalkin bool) *fixture {
	t.Helper()

	appointments := memory.NewAppointmentRepository()
	outbox := memory.NewOutboxRepository()
	lg := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})

	return &fixture{
		appointments: appointments,
		outbox:       outbox,
		svc:          NewService(appointments, event.NewService(outbox), allowWalkin, lg),
	}
}

func (f *fixture) seed(t *testing.T, status model.AppointmentStatus) *model.Appointment {
	t.Helper()

	appt := &model.Appointment{
		DoctorID:  uuid.New(),
		PatientID: uuid.New(),
		Date:      time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime: 10 * 60,
		EndTime:   10*60 + 30,
		Status:    status,
	}
	require.NoError(t, f.appointments.Insert(context.Background(), appt))
	return appt
}

func TestTransitionAllowed(t *testing.T) {
	tests := []struct {
		from, to model.AppointmentStatus
	}{
		{model.AppointmentStatusPending, model.AppointmentStatusConfirmed},
		{model.AppointmentStatusPending, model.AppointmentStatusCancelled},
		{model.AppointmentStatusConfirmed, model.AppointmentStatusCompleted},
		{model.AppointmentStatusConfirmed, model.AppointmentStatusCancelled},
		{model.AppointmentStatusConfirmed, model.AppointmentStatusNoShow},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			f := newFixture(t, false)
			appt := f.seed(t, tt.from)

			updated, err := f.svc.Transition(context.Background(), appt.ID, tt.to, "front-desk")
			require.NoError(t, err)
			assert.Equal(t, tt.to, updated.Status)
		})
	}
}

func TestTransitionRejected(t *testing.T) {
	tests := []struct {
		from, to model.AppointmentStatus
	}{
		{model.AppointmentStatusPending, model.AppointmentStatusCompleted},
		{model.AppointmentStatusPending, model.AppointmentStatusNoShow},
		{model.AppointmentStatusCompleted, model.AppointmentStatusPending},
		{model.AppointmentStatusCompleted, model.AppointmentStatusConfirmed},
		{model.AppointmentStatusCancelled, model.AppointmentStatusConfirmed},
		{model.AppointmentStatusNoShow, model.AppointmentStatusPending},
		{model.AppointmentStatusConfirmed, model.AppointmentStatusPending},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			f := newFixture(t, false)
			appt := f.seed(t, tt.from)

			_, err := f.svc.Transition(context.Background(), appt.ID, tt.to, "front-desk")
			assert.ErrorIs(t, err, errors.InvalidTransition)

			// A rejected transition leaves the record untouched.
			stored, err := f.appointments.Get(context.Background(), appt.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.from, stored.Status)
		})
	}
}

func TestTransitionCompletedIsTerminal(t *testing.T) {
	f := newFixture(t, false)
	appt := f.seed(t, model.AppointmentStatusConfirmed)
	ctx := context.Background()

	updated, err := f.svc.Transition(ctx, appt.ID, model.AppointmentStatusCompleted, "doctor")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)

	_, err = f.svc.Transition(ctx, appt.ID, model.AppointmentStatusConfirmed, "doctor")
	assert.ErrorIs(t, err, errors.InvalidTransition)
}

func TestTransitionWalkinMode(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, true)
	appt := f.seed(t, model.AppointmentStatusPending)
	updated, err := f.svc.Transition(ctx, appt.ID, model.AppointmentStatusCompleted, "doctor")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)

	appt = f.seed(t, model.AppointmentStatusPending)
	updated, err = f.svc.Transition(ctx, appt.ID, model.AppointmentStatusNoShow, "front-desk")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusNoShow, updated.Status)

	// Walk-in mode never opens terminal states back up.
	_, err = f.svc.Transition(ctx, updated.ID, model.AppointmentStatusPending, "front-desk")
	assert.ErrorIs(t, err, errors.InvalidTransition)
}

func TestTransitionUnknownStatus(t *testing.T) {
	f := newFixture(t, false)
	appt := f.seed(t, model.AppointmentStatusPending)

	_, err := f.svc.Transition(context.Background(), appt.ID, "rescheduled", "front-desk")
	assert.ErrorIs(t, err, errors.Validation)
}

func TestTransitionUnknownAppointment(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.Transition(context.Background(), uuid.New(), model.AppointmentStatusConfirmed, "front-desk")
	assert.ErrorIs(t, err, errors.NotFound)
}

func TestTransitionStagesEvent(t *testing.T) {
	f := newFixture(t, false)
	appt := f.seed(t, model.AppointmentStatusPending)
	ctx := context.Background()

	_, err := f.svc.Transition(ctx, appt.ID, model.AppointmentStatusConfirmed, "front-desk")
	require.NoError(t, err)

	events, err := f.outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventAppointmentStatusChanged, events[0].EventType)
}
