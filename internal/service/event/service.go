package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clinicore/scheduling-api/internal/model"
	"github.com/clinicore/scheduling-api/internal/repository"
)

// Service stages lifecycle events in the outbox. The scheduling core
// never talks to the notification dispatcher directly; the outbox
// processor delivers staged events to the broker.
type Service struct {
	outbox repository.OutboxRepository
}

func NewService(outbox repository.OutboxRepository) *Service {
	return &Service{outbox: outbox}
}

func (s *Service) EmitAppointmentCreated(ctx context.Context, appt *model.Appointment) error {
	return s.emit(ctx, model.EventAppointmentCreated, model.AppointmentCreatedPayload{
		Appointment: appt,
	})
}

func (s *Service) EmitStatusChanged(ctx context.Context, appt *model.Appointment, old, new model.AppointmentStatus, actor string) error {
	return s.emit(ctx, model.EventAppointmentStatusChanged, model.AppointmentStatusChangedPayload{
		Appointment: appt,
		OldStatus:   old,
		NewStatus:   new,
		Actor:       actor,
	})
}

func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return s.outbox.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   data,
	})
}
