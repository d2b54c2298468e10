package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/scheduling-api/internal/model"
	"github.com/clinicore/scheduling-api/internal/repository/memory"
	scheduleService "github.com/clinicore/scheduling-api/internal/service/schedule"
)

// testDate is an arbitrary fixed day; the schedule is keyed off its
// weekday so the tests never depend on the wall clock.
var testDate = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

type fixture struct {
	doctorID     uuid.UUID
	schedules    *scheduleService.Service
	appointments *memory.AppointmentRepository
	engine       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	scheduleRepo := memory.NewScheduleRepository()
	appointmentRepo := memory.NewAppointmentRepository()
	scheduleSvc := scheduleService.NewService(scheduleRepo)

	f := &fixture{
		doctorID:     uuid.New(),
		schedules:    scheduleSvc,
		appointments: appointmentRepo,
		engine:       NewService(scheduleSvc, appointmentRepo),
	}

	// Working 09:00-12:00 on the test weekday, 30 minute slots.
	sched := &model.WeeklySchedule{DoctorID: f.doctorID, SlotDurationMinutes: 30}
	sched.Days[testDate.Weekday()] = model.DaySchedule{Working: true, Start: 9 * 60, End: 12 * 60}
	require.NoError(t, scheduleSvc.UpsertSchedule(context.Background(), sched))

	return f
}

func starts(slots []model.Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Start.String()
	}
	return out
}

func TestDayAvailabilityFullGrid(t *testing.T) {
	f := newFixture(t)

	avail, err := f.engine.DayAvailability(context.Background(), f.doctorID, testDate)
	require.NoError(t, err)

	assert.True(t, avail.Available)
	assert.Equal(t,
		[]string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"},
		starts(avail.Slots))

	// No slot may spill past closing time.
	for _, slot := range avail.Slots {
		assert.LessOrEqual(t, slot.End.Minutes(), 12*60)
	}
}

func TestDayAvailabilityNonWorkingDay(t *testing.T) {
	f := newFixture(t)

	offDay := testDate.AddDate(0, 0, 1)
	avail, err := f.engine.DayAvailability(context.Background(), f.doctorID, offDay)
	require.NoError(t, err)

	assert.False(t, avail.Available)
	assert.Empty(t, avail.Slots)
	assert.Contains(t, avail.Reason, offDay.Weekday().String())
}

func TestDayAvailabilityBreakExclusion(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.schedules.ReplaceBreaks(context.Background(), f.doctorID, []*model.Break{
		{Weekday: testDate.Weekday(), Start: 10 * 60, End: 10*60 + 30},
	}))

	avail, err := f.engine.DayAvailability(context.Background(), f.doctorID, testDate)
	require.NoError(t, err)

	// 10:00 overlaps the break; 09:30 ends exactly when the break starts
	// and 10:30 starts exactly when it ends, so both stay.
	assert.Equal(t,
		[]string{"09:00", "09:30", "10:30", "11:00", "11:30"},
		starts(avail.Slots))
}

func TestDayAvailabilityBreakOutsideWorkingHours(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.schedules.ReplaceBreaks(context.Background(), f.doctorID, []*model.Break{
		{Weekday: testDate.Weekday(), Start: 14 * 60, End: 15 * 60},
	}))

	avail, err := f.engine.DayAvailability(context.Background(), f.doctorID, testDate)
	require.NoError(t, err)
	assert.Len(t, avail.Slots, 6, "a break outside working hours has no effect")
}

func TestDayAvailabilityVacation(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.schedules.ReplaceVacations(context.Background(), f.doctorID, []*model.Vacation{
		{
			StartDate: testDate.AddDate(0, 0, -2),
			EndDate:   testDate.AddDate(0, 0, 3),
			Reason:    "annual leave",
		},
	}))

	avail, err := f.engine.DayAvailability(context.Background(), f.doctorID, testDate)
	require.NoError(t, err)

	assert.False(t, avail.Available)
	assert.Empty(t, avail.Slots)
	assert.Equal(t, "annual leave", avail.Reason)
}

func TestDayAvailabilityVacationBoundaries(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.schedules.ReplaceVacations(context.Background(), f.doctorID, []*model.Vacation{
		{StartDate: testDate, EndDate: testDate},
	}))

	// The single vacation day itself is blocked, inclusive.
	avail, err := f.engine.DayAvailability(context.Background(), f.doctorID, testDate)
	require.NoError(t, err)
	assert.False(t, avail.Available)

	// One week later, same weekday, no vacation.
	nextWeek := testDate.AddDate(0, 0, 7)
	avail, err = f.engine.DayAvailability(context.Background(), f.doctorID, nextWeek)
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Len(t, avail.Slots, 6)
}

func TestDayAvailabilityOccupiedSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	book := func(start model.TimeOfDay, status model.AppointmentStatus) *model.Appointment {
		appt := &model.Appointment{
			DoctorID:  f.doctorID,
			PatientID: uuid.New(),
			Date:      testDate,
			StartTime: start,
			EndTime:   start.Add(30),
			Status:    status,
		}
		require.NoError(t, f.appointments.Insert(ctx, appt))
		return appt
	}

	book(10*60+30, model.AppointmentStatusPending)
	book(11*60, model.AppointmentStatusConfirmed)

	avail, err := f.engine.DayAvailability(ctx, f.doctorID, testDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "11:30"}, starts(avail.Slots))
}

func TestDayAvailabilityCancelledSlotIsFree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := &model.Appointment{
		DoctorID:  f.doctorID,
		PatientID: uuid.New(),
		Date:      testDate,
		StartTime: 10 * 60,
		EndTime:   10*60 + 30,
		Status:    model.AppointmentStatusPending,
	}
	require.NoError(t, f.appointments.Insert(ctx, appt))

	avail, err := f.engine.DayAvailability(ctx, f.doctorID, testDate)
	require.NoError(t, err)
	assert.NotContains(t, starts(avail.Slots), "10:00")

	_, err = f.appointments.UpdateStatus(ctx, appt.ID, model.AppointmentStatusPending, model.AppointmentStatusCancelled)
	require.NoError(t, err)

	avail, err = f.engine.DayAvailability(ctx, f.doctorID, testDate)
	require.NoError(t, err)
	assert.Contains(t, starts(avail.Slots), "10:00", "cancelled slot becomes bookable again")
}

func TestDayAvailabilityPastSlotsToday(t *testing.T) {
	f := newFixture(t)

	// 10:15 on the test date: 09:00-10:00 have already begun.
	f.engine.WithClock(func() time.Time {
		return time.Date(testDate.Year(), testDate.Month(), testDate.Day(), 10, 15, 0, 0, time.UTC)
	})

	avail, err := f.engine.DayAvailability(context.Background(), f.doctorID, testDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:30", "11:00", "11:30"}, starts(avail.Slots))
}

func TestDayAvailabilityFutureDateIgnoresClock(t *testing.T) {
	f := newFixture(t)

	f.engine.WithClock(func() time.Time {
		return testDate.AddDate(0, 0, -7).Add(23 * time.Hour)
	})

	avail, err := f.engine.DayAvailability(context.Background(), f.doctorID, testDate)
	require.NoError(t, err)
	assert.Len(t, avail.Slots, 6, "past-slot filtering only applies to today")
}

func TestDayAvailabilityPartialTrailingPeriodDropped(t *testing.T) {
	f := newFixture(t)

	// 09:00-10:45 with 30 minute slots: 10:30 would run past closing.
	sched := &model.WeeklySchedule{DoctorID: f.doctorID, SlotDurationMinutes: 30}
	sched.Days[testDate.Weekday()] = model.DaySchedule{Working: true, Start: 9 * 60, End: 10*60 + 45}
	require.NoError(t, f.schedules.UpsertSchedule(context.Background(), sched))

	avail, err := f.engine.DayAvailability(context.Background(), f.doctorID, testDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, starts(avail.Slots))
}

func TestDayAvailabilityIdempotentRequery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.schedules.ReplaceBreaks(ctx, f.doctorID, []*model.Break{
		{Weekday: testDate.Weekday(), Start: 11 * 60, End: 11*60 + 30},
	}))

	first, err := f.engine.DayAvailability(ctx, f.doctorID, testDate)
	require.NoError(t, err)
	second, err := f.engine.DayAvailability(ctx, f.doctorID, testDate)
	require.NoError(t, err)

	assert.Equal(t, first.Slots, second.Slots)
}

func TestDayAvailabilityUnknownDoctor(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.DayAvailability(context.Background(), uuid.New(), testDate)
	assert.Error(t, err)
}
