package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicore/scheduling-api/internal/model"
	"github.com/clinicore/scheduling-api/internal/repository"
	"github.com/clinicore/scheduling-api/pkg/errors"
	"github.com/clinicore/scheduling-api/pkg/logger"
)

// EventEmitter publishes lifecycle events to the outbox.
type EventEmitter interface {
	EmitStatusChanged(ctx context.Context, appt *model.Appointment, old, new model.AppointmentStatus, actor string) error
}

// transitions is the allowed single-step state machine. Completed,
// cancelled and no-show are terminal.
var transitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusPending: {
		model.AppointmentStatusConfirmed,
		model.AppointmentStatusCancelled,
	},
	model.AppointmentStatusConfirmed: {
		model.AppointmentStatusCompleted,
		model.AppointmentStatusCancelled,
		model.AppointmentStatusNoShow,
	},
}

// walkinTransitions additionally lets a pending appointment complete or
// no-show directly, for deployments that take walk-ins without a
// confirmation step.
var walkinTransitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusPending: {
		model.AppointmentStatusCompleted,
		model.AppointmentStatusNoShow,
	},
}

// Service governs status transitions of existing appointments. Nothing
// else mutates an appointment after creation.
type Service struct {
	appointments repository.AppointmentRepository
	events       EventEmitter
	allowWalkin  bool
	logger       *logger.Logger
}

func NewService(appointments repository.AppointmentRepository, events EventEmitter, allowWalkin bool, lg *logger.Logger) *Service {
	return &Service{
		appointments: appointments,
		events:       events,
		allowWalkin:  allowWalkin,
		logger:       lg,
	}
}

// Transition moves an appointment to target if the state machine allows
// it. The underlying status update is a compare-and-swap, so a concurrent
// transition on the same appointment loses with a conflict instead of
// silently overwriting.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, target model.AppointmentStatus, actor string) (*model.Appointment, error) {
	if !target.Valid() {
		return nil, errors.NewValidation(fmt.Sprintf("unknown appointment status %q", target), nil)
	}

	appt, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.allowed(appt.Status, target) {
		return nil, errors.NewInvalidTransition(
			fmt.Sprintf("cannot transition appointment from %s to %s", appt.Status, target))
	}

	updated, err := s.appointments.UpdateStatus(ctx, id, appt.Status, target)
	if err != nil {
		return nil, err
	}

	if err := s.events.EmitStatusChanged(ctx, updated, appt.Status, target, actor); err != nil {
		s.logger.Error(err, "failed to emit appointment.status_changed event",
			"appointment_id", id.String())
	}

	return updated, nil
}

func (s *Service) allowed(from, to model.AppointmentStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	if s.allowWalkin {
		for _, t := range walkinTransitions[from] {
			if t == to {
				return true
			}
		}
	}
	return false
}
