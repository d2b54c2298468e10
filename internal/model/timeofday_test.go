package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{"09:00", TimeOfDay(9 * 60), false},
		{"00:00", TimeOfDay(0), false},
		{"23:59", TimeOfDay(23*60 + 59), false},
		{" 10:30 ", TimeOfDay(10*60 + 30), false},
		{"9:00", TimeOfDay(9 * 60), false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"garbage", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestTimeOfDayRoundTrip(t *testing.T) {
	tod, err := ParseTimeOfDay("14:30")
	require.NoError(t, err)
	assert.Equal(t, "14:30", tod.String())

	data, err := json.Marshal(tod)
	require.NoError(t, err)
	assert.Equal(t, `"14:30"`, string(data))

	var parsed TimeOfDay
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, tod, parsed)
}

func TestTimeOfDayScan(t *testing.T) {
	var tod TimeOfDay
	require.NoError(t, tod.Scan("09:30:00"))
	assert.Equal(t, "09:30", tod.String())

	require.NoError(t, tod.Scan([]byte("16:45:00")))
	assert.Equal(t, "16:45", tod.String())

	require.NoError(t, tod.Scan(time.Date(0, 1, 1, 11, 15, 0, 0, time.UTC)))
	assert.Equal(t, "11:15", tod.String())

	assert.Error(t, tod.Scan(42))
}

func TestTimeOfDayAt(t *testing.T) {
	tod, _ := ParseTimeOfDay("09:30")
	date := time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC)
	at := tod.At(date)
	assert.Equal(t, time.Date(2026, 6, 12, 9, 30, 0, 0, time.UTC), at)
}

func TestWeeklyScheduleValidate(t *testing.T) {
	valid := WeeklySchedule{SlotDurationMinutes: 30}
	valid.Days[time.Monday] = DaySchedule{Working: true, Start: 9 * 60, End: 12 * 60}
	assert.NoError(t, valid.Validate())

	badOrder := valid
	badOrder.Days[time.Monday] = DaySchedule{Working: true, Start: 12 * 60, End: 9 * 60}
	assert.Error(t, badOrder.Validate())

	// A non-working day with inverted times is not an error; the entry is
	// simply ignored.
	offDay := valid
	offDay.Days[time.Tuesday] = DaySchedule{Working: false, Start: 12 * 60, End: 9 * 60}
	assert.NoError(t, offDay.Validate())

	badDuration := valid
	badDuration.SlotDurationMinutes = 0
	assert.Error(t, badDuration.Validate())

	negativeDuration := valid
	negativeDuration.SlotDurationMinutes = -15
	assert.Error(t, negativeDuration.Validate())
}

func TestBreakOverlaps(t *testing.T) {
	br := Break{Weekday: time.Monday, Start: 10 * 60, End: 10*60 + 30}

	// Strict half-open semantics: abutting intervals do not overlap.
	assert.False(t, br.Overlaps(9*60+30, 10*60), "slot ending when break starts")
	assert.False(t, br.Overlaps(10*60+30, 11*60), "slot starting when break ends")

	assert.True(t, br.Overlaps(10*60, 10*60+30))
	assert.True(t, br.Overlaps(9*60+45, 10*60+15))
	assert.True(t, br.Overlaps(10*60+15, 10*60+45))
	assert.True(t, br.Overlaps(9*60, 12*60), "slot containing the break")
}

func TestVacationCovers(t *testing.T) {
	v := Vacation{
		StartDate: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, v.Covers(time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)), "start date inclusive")
	assert.True(t, v.Covers(time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC)))
	assert.True(t, v.Covers(time.Date(2026, 6, 15, 23, 0, 0, 0, time.UTC)), "end date inclusive")
	assert.False(t, v.Covers(time.Date(2026, 6, 9, 0, 0, 0, 0, time.UTC)))
	assert.False(t, v.Covers(time.Date(2026, 6, 16, 0, 0, 0, 0, time.UTC)))
}

func TestAppointmentStatusActive(t *testing.T) {
	assert.True(t, AppointmentStatusPending.Active())
	assert.True(t, AppointmentStatusConfirmed.Active())
	assert.True(t, AppointmentStatusCompleted.Active())
	assert.False(t, AppointmentStatusCancelled.Active())
	assert.False(t, AppointmentStatusNoShow.Active())
}
