package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/scheduling-api/internal/model"
	"github.com/clinicore/scheduling-api/internal/repository/memory"
	"github.com/clinicore/scheduling-api/pkg/errors"
)

func validSchedule(doctorID uuid.UUID) *model.WeeklySchedule {
	sched := &model.WeeklySchedule{DoctorID: doctorID, SlotDurationMinutes: 30}
	sched.Days[time.Monday] = model.DaySchedule{Working: true, Start: 9 * 60, End: 17 * 60}
	sched.Days[time.Wednesday] = model.DaySchedule{Working: true, Start: 13 * 60, End: 18 * 60}
	return sched
}

func TestGetScheduleUnknownDoctor(t *testing.T) {
	svc := NewService(memory.NewScheduleRepository())

	_, err := svc.GetSchedule(context.Background(), uuid.New())
	assert.ErrorIs(t, err, errors.NotFound)
}

func TestUpsertScheduleRoundTrip(t *testing.T) {
	svc := NewService(memory.NewScheduleRepository())
	doctorID := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.UpsertSchedule(ctx, validSchedule(doctorID)))

	got, err := svc.GetSchedule(ctx, doctorID)
	require.NoError(t, err)
	assert.True(t, got.Template.Days[time.Monday].Working)
	assert.False(t, got.Template.Days[time.Tuesday].Working)
	assert.Equal(t, 30, got.Template.SlotDurationMinutes)
	assert.Empty(t, got.Breaks)
	assert.Empty(t, got.Vacations)
}

func TestUpsertScheduleValidation(t *testing.T) {
	svc := NewService(memory.NewScheduleRepository())
	ctx := context.Background()

	inverted := validSchedule(uuid.New())
	inverted.Days[time.Monday] = model.DaySchedule{Working: true, Start: 17 * 60, End: 9 * 60}
	assert.ErrorIs(t, svc.UpsertSchedule(ctx, inverted), errors.Validation)

	zeroDuration := validSchedule(uuid.New())
	zeroDuration.SlotDurationMinutes = 0
	assert.ErrorIs(t, svc.UpsertSchedule(ctx, zeroDuration), errors.Validation)
}

func TestReplaceBreaksValidation(t *testing.T) {
	svc := NewService(memory.NewScheduleRepository())
	doctorID := uuid.New()
	ctx := context.Background()

	err := svc.ReplaceBreaks(ctx, doctorID, []*model.Break{
		{Weekday: time.Monday, Start: 13 * 60, End: 12 * 60},
	})
	assert.ErrorIs(t, err, errors.Validation)
}

func TestReplaceVacationsValidation(t *testing.T) {
	svc := NewService(memory.NewScheduleRepository())
	doctorID := uuid.New()
	ctx := context.Background()

	err := svc.ReplaceVacations(ctx, doctorID, []*model.Vacation{
		{
			StartDate: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		},
	})
	assert.ErrorIs(t, err, errors.Validation)
}

func TestWritesInvalidateCache(t *testing.T) {
	repo := memory.NewScheduleRepository()
	svc := NewService(repo)
	doctorID := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.UpsertSchedule(ctx, validSchedule(doctorID)))

	first, err := svc.GetSchedule(ctx, doctorID)
	require.NoError(t, err)
	require.Empty(t, first.Breaks)

	// A write behind the service's back is served stale from the cache.
	require.NoError(t, repo.ReplaceBreaks(ctx, doctorID, []*model.Break{
		{Weekday: time.Monday, Start: 12 * 60, End: 13 * 60},
	}))
	stale, err := svc.GetSchedule(ctx, doctorID)
	require.NoError(t, err)
	assert.Empty(t, stale.Breaks)

	// A write through the service invalidates and the next read is fresh.
	require.NoError(t, svc.ReplaceBreaks(ctx, doctorID, []*model.Break{
		{Weekday: time.Monday, Start: 12 * 60, End: 13 * 60},
	}))
	fresh, err := svc.GetSchedule(ctx, doctorID)
	require.NoError(t, err)
	require.Len(t, fresh.Breaks, 1)
	assert.Equal(t, model.TimeOfDay(12*60), fresh.Breaks[0].Start)
}
