package booking

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/clinicore/scheduling-api/internal/model"
	"github.com/clinicore/scheduling-api/internal/repository"
	"github.com/clinicore/scheduling-api/pkg/errors"
	"github.com/clinicore/scheduling-api/pkg/logger"
	"github.com/clinicore/scheduling-api/pkg/metrics"
)

// AvailabilityEngine recomputes the bookable slots for a day.
type AvailabilityEngine interface {
	DayAvailability(ctx context.Context, doctorID uuid.UUID, date time.Time) (*model.DayAvailability, error)
}

// EventEmitter publishes lifecycle events to the outbox.
type EventEmitter interface {
	EmitAppointmentCreated(ctx context.Context, appt *model.Appointment) error
}

// Service turns a validated slot selection into a durable appointment.
// The flow is optimistic check, pessimistic commit: availability is
// recomputed fresh for every request, but only the storage layer's atomic
// insert actually guards against a competing booking.
type Service struct {
	engine        AvailabilityEngine
	appointments  repository.AppointmentRepository
	events        EventEmitter
	initialStatus model.AppointmentStatus
	logger        *logger.Logger
	metrics       *metrics.Metrics
}

func NewService(
	engine AvailabilityEngine,
	appointments repository.AppointmentRepository,
	events EventEmitter,
	initialStatus model.AppointmentStatus,
	lg *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		engine:        engine,
		appointments:  appointments,
		events:        events,
		initialStatus: initialStatus,
		logger:        lg,
		metrics:       m,
	}
}

// Book validates the requested slot against freshly computed availability
// and creates the appointment. A client-cached slot list is never trusted;
// schedules and bookings can change between the availability query and the
// booking request.
func (s *Service) Book(ctx context.Context, req *model.BookingRequest) (*model.Appointment, error) {
	if s.metrics != nil {
		timer := prometheus.NewTimer(s.metrics.BookingLatency)
		defer timer.ObserveDuration()
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		return nil, errors.NewValidation("invalid date", err)
	}
	start, err := model.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, errors.NewValidation("invalid start time", err)
	}
	if req.DoctorID == uuid.Nil {
		return nil, errors.NewValidation("doctor id is required", nil)
	}
	if req.PatientID == uuid.Nil {
		return nil, errors.NewValidation("patient id is required", nil)
	}

	avail, err := s.engine.DayAvailability(ctx, req.DoctorID, date)
	if err != nil {
		s.countBooking("error")
		return nil, err
	}
	if !avail.Available {
		s.countBooking("unavailable")
		return nil, errors.NewSlotUnavailable(unavailableMessage(avail))
	}

	slot, ok := findSlot(avail.Slots, start)
	if !ok {
		s.countBooking("unavailable")
		return nil, errors.NewSlotUnavailable("requested slot is not available, please pick another time")
	}

	appt := &model.Appointment{
		DoctorID:         req.DoctorID,
		PatientID:        req.PatientID,
		Date:             model.DateOf(date),
		StartTime:        slot.Start,
		EndTime:          slot.End,
		Status:           s.initialStatus,
		Teleconsultation: req.Teleconsultation,
		Reason:           req.Reason,
	}

	if err := s.appointments.Insert(ctx, appt); err != nil {
		if stderrors.Is(err, errors.Conflict) {
			// A competing booking won the race between the availability
			// check and this insert. The caller should re-query and let
			// the user pick again; no automatic retry.
			if s.metrics != nil {
				s.metrics.BookingSlotConflict.Inc()
			}
			s.countBooking("conflict")
			return nil, errors.NewSlotUnavailable("slot was just booked by someone else, please pick another time")
		}
		s.countBooking("error")
		return nil, fmt.Errorf("failed to insert appointment: %w", err)
	}

	if err := s.events.EmitAppointmentCreated(ctx, appt); err != nil {
		// The booking is durable; a failed event write only delays
		// notifications.
		s.logger.Error(err, "failed to emit appointment.created event",
			"appointment_id", appt.ID.String())
	}

	s.countBooking("success")
	return appt, nil
}

func (s *Service) countBooking(result string) {
	if s.metrics != nil {
		s.metrics.BookingAttempts.WithLabelValues(result).Inc()
	}
}

func findSlot(slots []model.Slot, start model.TimeOfDay) (model.Slot, bool) {
	for _, slot := range slots {
		if slot.Start == start {
			return slot, true
		}
	}
	return model.Slot{}, false
}

func unavailableMessage(avail *model.DayAvailability) string {
	if avail.Reason != "" {
		return avail.Reason
	}
	return "no slots available on the requested date"
}
