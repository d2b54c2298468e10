package worker

import (
	"context"
	"encoding/json"

	"github.com/clinicore/scheduling-api/internal/email"
	"github.com/clinicore/scheduling-api/internal/model"
	"github.com/clinicore/scheduling-api/pkg/logger"
	"github.com/clinicore/scheduling-api/pkg/messaging"
)

// Notifier is the reference notification dispatcher: it consumes
// lifecycle events from the broker and sends email. Other dispatchers
// (push, SMS) can subscribe to the same channels independently.
type Notifier struct {
	broker messaging.Broker
	email  email.Service
	logger *logger.Logger
}

func NewNotifier(broker messaging.Broker, emailSvc email.Service, lg *logger.Logger) *Notifier {
	return &Notifier{
		broker: broker,
		email:  emailSvc,
		logger: lg,
	}
}

func (n *Notifier) Start(ctx context.Context) error {
	created, err := n.broker.Subscribe(ctx, model.EventAppointmentCreated)
	if err != nil {
		return err
	}
	changed, err := n.broker.Subscribe(ctx, model.EventAppointmentStatusChanged)
	if err != nil {
		return err
	}

	n.logger.Info("starting notification dispatcher")

	for {
		select {
		case <-ctx.Done():
			n.logger.Info("shutting down notification dispatcher")
			return nil
		case msg, ok := <-created:
			if !ok {
				return nil
			}
			n.handleCreated(ctx, msg)
		case msg, ok := <-changed:
			if !ok {
				return nil
			}
			n.handleStatusChanged(ctx, msg)
		}
	}
}

func (n *Notifier) handleCreated(ctx context.Context, raw []byte) {
	var payload model.AppointmentCreatedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		n.logger.Error(err, "failed to decode appointment.created payload")
		return
	}
	if payload.Appointment == nil {
		return
	}
	if err := n.email.SendAppointmentCreated(ctx, payload.Appointment); err != nil {
		n.logger.Error(err, "failed to send created notification",
			"appointment_id", payload.Appointment.ID.String())
	}
}

func (n *Notifier) handleStatusChanged(ctx context.Context, raw []byte) {
	var payload model.AppointmentStatusChangedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		n.logger.Error(err, "failed to decode appointment.status_changed payload")
		return
	}
	if payload.Appointment == nil {
		return
	}
	if err := n.email.SendStatusChanged(ctx, &payload); err != nil {
		n.logger.Error(err, "failed to send status notification",
			"appointment_id", payload.Appointment.ID.String())
	}
}
