package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/scheduling-api/pkg/errors"
)

// DaySchedule is one weekday's entry in a doctor's recurring template.
type DaySchedule struct {
	Working bool      `json:"working"`
	Start   TimeOfDay `json:"start"`
	End     TimeOfDay `json:"end"`
}

// WeeklySchedule is a doctor's recurring weekly template. Days is indexed
// by time.Weekday (Sunday = 0).
type WeeklySchedule struct {
	DoctorID            uuid.UUID      `json:"doctor_id"`
	Days                [7]DaySchedule `json:"days"`
	SlotDurationMinutes int            `json:"slot_duration_minutes"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// Day returns the template entry for a weekday.
func (s *WeeklySchedule) Day(w time.Weekday) DaySchedule {
	return s.Days[w]
}

// Validate checks that start < end on working days and that the slot
// duration is positive.
func (s *WeeklySchedule) Validate() error {
	if s.SlotDurationMinutes <= 0 {
		return errors.NewValidation("slot duration must be positive", nil)
	}
	for w, day := range s.Days {
		if !day.Working {
			continue
		}
		if day.Start >= day.End {
			return errors.NewValidation(
				"start time must be before end time on "+time.Weekday(w).String(), nil)
		}
	}
	return nil
}

// Break is a recurring weekly exclusion window, e.g. lunch. A break
// outside working hours is legal and simply never intersects a slot.
type Break struct {
	ID       uuid.UUID    `db:"id" json:"id"`
	DoctorID uuid.UUID    `db:"doctor_id" json:"doctor_id"`
	Weekday  time.Weekday `db:"weekday" json:"weekday"`
	Start    TimeOfDay    `db:"start_time" json:"start"`
	End      TimeOfDay    `db:"end_time" json:"end"`
	Reason   string       `db:"reason" json:"reason,omitempty"`
}

func (b *Break) Validate() error {
	if b.Weekday < time.Sunday || b.Weekday > time.Saturday {
		return errors.NewValidation("break weekday out of range", nil)
	}
	if b.Start >= b.End {
		return errors.NewValidation("break start must be before break end", nil)
	}
	return nil
}

// Overlaps reports whether the half-open interval [start, end) intersects
// the break. A slot ending exactly when the break starts does not overlap.
func (b *Break) Overlaps(start, end TimeOfDay) bool {
	return start < b.End && end > b.Start
}

// Vacation is a concrete whole-day date range, inclusive on both ends.
type Vacation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Reason    string    `db:"reason" json:"reason,omitempty"`
}

func (v *Vacation) Validate() error {
	if DateOf(v.EndDate).Before(DateOf(v.StartDate)) {
		return errors.NewValidation("vacation end date before start date", nil)
	}
	return nil
}

// Covers reports whether date falls inside the vacation range.
func (v *Vacation) Covers(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(DateOf(v.StartDate)) && !d.After(DateOf(v.EndDate))
}

// Slot is a bookable time interval of the doctor's configured duration.
type Slot struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// DayAvailability is the result of an availability query for one
// (doctor, date) pair.
type DayAvailability struct {
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      time.Time `json:"-"`
	Available bool      `json:"available"`
	Reason    string    `json:"reason,omitempty"`
	Slots     []Slot    `json:"slots"`
}
