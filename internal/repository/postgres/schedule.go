package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicore/scheduling-api/internal/model"
	"github.com/clinicore/scheduling-api/internal/repository"
	"github.com/clinicore/scheduling-api/pkg/errors"
)

type scheduleRepository struct {
	BaseRepository
}

func NewScheduleRepository(base BaseRepository) repository.ScheduleRepository {
	return &scheduleRepository{base}
}

type scheduleDayRow struct {
	DoctorID  uuid.UUID       `db:"doctor_id"`
	Weekday   int             `db:"weekday"`
	Working   bool            `db:"working"`
	StartTime model.TimeOfDay `db:"start_time"`
	EndTime   model.TimeOfDay `db:"end_time"`
}

func (r *scheduleRepository) GetSchedule(ctx context.Context, doctorID uuid.UUID) (*model.WeeklySchedule, error) {
	var head struct {
		SlotDurationMinutes int       `db:"slot_duration_minutes"`
		UpdatedAt           time.Time `db:"updated_at"`
	}
	err := r.db.GetContext(ctx, &head, `
		SELECT slot_duration_minutes, updated_at
		FROM doctor_schedules
		WHERE doctor_id = $1
	`, doctorID)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("schedule", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	var days []scheduleDayRow
	err = r.db.SelectContext(ctx, &days, `
		SELECT doctor_id, weekday, working, start_time, end_time
		FROM doctor_schedule_days
		WHERE doctor_id = $1
		ORDER BY weekday ASC
	`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule days: %w", err)
	}

	schedule := &model.WeeklySchedule{
		DoctorID:            doctorID,
		SlotDurationMinutes: head.SlotDurationMinutes,
		UpdatedAt:           head.UpdatedAt,
	}
	for _, d := range days {
		if d.Weekday < 0 || d.Weekday > 6 {
			return nil, fmt.Errorf("schedule day weekday out of range: %d", d.Weekday)
		}
		schedule.Days[d.Weekday] = model.DaySchedule{
			Working: d.Working,
			Start:   d.StartTime,
			End:     d.EndTime,
		}
	}
	return schedule, nil
}

func (r *scheduleRepository) UpsertSchedule(ctx context.Context, schedule *model.WeeklySchedule) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		schedule.UpdatedAt = time.Now()

		_, err := tx.ExecContext(ctx, `
			INSERT INTO doctor_schedules (doctor_id, slot_duration_minutes, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (doctor_id) DO UPDATE
			SET slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			    updated_at = EXCLUDED.updated_at
		`, schedule.DoctorID, schedule.SlotDurationMinutes, schedule.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert schedule: %w", err)
		}

		// Full replacement keeps the template internally consistent; partial
		// patches could leave a day half-edited.
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM doctor_schedule_days WHERE doctor_id = $1
		`, schedule.DoctorID); err != nil {
			return fmt.Errorf("failed to clear schedule days: %w", err)
		}

		for weekday, day := range schedule.Days {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO doctor_schedule_days (doctor_id, weekday, working, start_time, end_time)
				VALUES ($1, $2, $3, $4, $5)
			`, schedule.DoctorID, weekday, day.Working, day.Start, day.End)
			if err != nil {
				return fmt.Errorf("failed to insert schedule day: %w", err)
			}
		}
		return nil
	})
}

func (r *scheduleRepository) ListBreaks(ctx context.Context, doctorID uuid.UUID) ([]*model.Break, error) {
	var breaks []*model.Break
	err := r.db.SelectContext(ctx, &breaks, `
		SELECT id, doctor_id, weekday, start_time, end_time, reason
		FROM doctor_breaks
		WHERE doctor_id = $1
		ORDER BY weekday ASC, start_time ASC
	`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list breaks: %w", err)
	}
	return breaks, nil
}

func (r *scheduleRepository) ReplaceBreaks(ctx context.Context, doctorID uuid.UUID, breaks []*model.Break) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM doctor_breaks WHERE doctor_id = $1
		`, doctorID); err != nil {
			return fmt.Errorf("failed to clear breaks: %w", err)
		}
		for _, b := range breaks {
			if b.ID == uuid.Nil {
				b.ID = uuid.New()
			}
			b.DoctorID = doctorID
			_, err := tx.ExecContext(ctx, `
				INSERT INTO doctor_breaks (id, doctor_id, weekday, start_time, end_time, reason)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, b.ID, b.DoctorID, int(b.Weekday), b.Start, b.End, b.Reason)
			if err != nil {
				return fmt.Errorf("failed to insert break: %w", err)
			}
		}
		return nil
	})
}

func (r *scheduleRepository) ListVacations(ctx context.Context, doctorID uuid.UUID) ([]*model.Vacation, error) {
	var vacations []*model.Vacation
	err := r.db.SelectContext(ctx, &vacations, `
		SELECT id, doctor_id, start_date, end_date, reason
		FROM doctor_vacations
		WHERE doctor_id = $1
		ORDER BY start_date ASC
	`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vacations: %w", err)
	}
	return vacations, nil
}

func (r *scheduleRepository) ReplaceVacations(ctx context.Context, doctorID uuid.UUID, vacations []*model.Vacation) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM doctor_vacations WHERE doctor_id = $1
		`, doctorID); err != nil {
			return fmt.Errorf("failed to clear vacations: %w", err)
		}
		for _, v := range vacations {
			if v.ID == uuid.Nil {
				v.ID = uuid.New()
			}
			v.DoctorID = doctorID
			_, err := tx.ExecContext(ctx, `
				INSERT INTO doctor_vacations (id, doctor_id, start_date, end_date, reason)
				VALUES ($1, $2, $3, $4, $5)
			`, v.ID, v.DoctorID, model.DateOf(v.StartDate), model.DateOf(v.EndDate), v.Reason)
			if err != nil {
				return fmt.Errorf("failed to insert vacation: %w", err)
			}
		}
		return nil
	})
}
