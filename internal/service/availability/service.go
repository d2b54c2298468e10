package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/scheduling-api/internal/model"
	"github.com/clinicore/scheduling-api/internal/repository"
	"github.com/clinicore/scheduling-api/internal/service/schedule"
)

// ScheduleSource supplies a doctor's template, breaks and vacations.
// Implemented by the schedule service.
type ScheduleSource interface {
	GetSchedule(ctx context.Context, doctorID uuid.UUID) (*schedule.DoctorSchedule, error)
}

// Service computes the ordered set of bookable slot start times for a
// (doctor, date) pair. Pure computation once the schedule and the day's
// appointments are loaded.
type Service struct {
	schedules    ScheduleSource
	appointments repository.AppointmentRepository
	now          func() time.Time
}

func NewService(schedules ScheduleSource, appointments repository.AppointmentRepository) *Service {
	return &Service{
		schedules:    schedules,
		appointments: appointments,
		now:          time.Now,
	}
}

// WithClock overrides the time source. Tests pin "now" with it.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// DayAvailability resolves the doctor's bookable slots on date.
func (s *Service) DayAvailability(ctx context.Context, doctorID uuid.UUID, date time.Time) (*model.DayAvailability, error) {
	sched, err := s.schedules.GetSchedule(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	result := &model.DayAvailability{
		DoctorID: doctorID,
		Date:     model.DateOf(date),
		Slots:    []model.Slot{},
	}

	day := sched.Template.Day(date.Weekday())
	if !day.Working {
		result.Reason = "doctor does not work on " + date.Weekday().String()
		return result, nil
	}

	for _, v := range sched.Vacations {
		if v.Covers(date) {
			result.Reason = vacationReason(v)
			return result, nil
		}
	}

	booked, err := s.appointments.ListForDay(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked appointments: %w", err)
	}

	occupied := make(map[model.TimeOfDay]bool, len(booked))
	for _, appt := range booked {
		if appt.Status.Active() {
			occupied[appt.StartTime] = true
		}
	}

	duration := sched.Template.SlotDurationMinutes
	cutoff, hasCutoff := s.pastCutoff(date)

	for start := day.Start; start.Add(duration) <= day.End; start = start.Add(duration) {
		end := start.Add(duration)

		if overlapsBreak(sched.Breaks, date.Weekday(), start, end) {
			continue
		}
		if occupied[start] {
			continue
		}
		if hasCutoff && start < cutoff {
			continue
		}

		result.Slots = append(result.Slots, model.Slot{Start: start, End: end})
	}

	result.Available = true
	return result, nil
}

// pastCutoff returns the earliest bookable start time when date is today.
// Slots that have already begun cannot be booked.
func (s *Service) pastCutoff(date time.Time) (model.TimeOfDay, bool) {
	now := s.now()
	if !model.DateOf(now).Equal(model.DateOf(date)) {
		return 0, false
	}
	cutoff := model.TimeOfDay(now.Hour()*60 + now.Minute())
	if now.Second() > 0 || now.Nanosecond() > 0 {
		cutoff++
	}
	return cutoff, true
}

func overlapsBreak(breaks []*model.Break, weekday time.Weekday, start, end model.TimeOfDay) bool {
	for _, b := range breaks {
		if b.Weekday != weekday {
			continue
		}
		// Half-open intervals: a slot ending exactly when the break
		// starts is still available.
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func vacationReason(v *model.Vacation) string {
	if v.Reason != "" {
		return v.Reason
	}
	return "doctor is on vacation"
}
