package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/scheduling-api/internal/model"
	"github.com/clinicore/scheduling-api/internal/repository"
	"github.com/clinicore/scheduling-api/pkg/errors"
)

// ScheduleRepository is an in-memory ScheduleRepository used for tests and
// for running the API without Postgres.
type ScheduleRepository struct {
	mu        sync.RWMutex
	schedules map[uuid.UUID]*model.WeeklySchedule
	breaks    map[uuid.UUID][]*model.Break
	vacations map[uuid.UUID][]*model.Vacation
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{
		schedules: make(map[uuid.UUID]*model.WeeklySchedule),
		breaks:    make(map[uuid.UUID][]*model.Break),
		vacations: make(map[uuid.UUID][]*model.Vacation),
	}
}

var _ repository.ScheduleRepository = (*ScheduleRepository)(nil)

func (r *ScheduleRepository) GetSchedule(ctx context.Context, doctorID uuid.UUID) (*model.WeeklySchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schedule, ok := r.schedules[doctorID]
	if !ok {
		return nil, errors.NewNotFound("schedule", nil)
	}
	copied := *schedule
	return &copied, nil
}

func (r *ScheduleRepository) UpsertSchedule(ctx context.Context, schedule *model.WeeklySchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *schedule
	copied.UpdatedAt = time.Now()
	r.schedules[schedule.DoctorID] = &copied
	return nil
}

func (r *ScheduleRepository) ListBreaks(ctx context.Context, doctorID uuid.UUID) ([]*model.Break, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Break, 0, len(r.breaks[doctorID]))
	for _, b := range r.breaks[doctorID] {
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (r *ScheduleRepository) ReplaceBreaks(ctx context.Context, doctorID uuid.UUID, breaks []*model.Break) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	replaced := make([]*model.Break, 0, len(breaks))
	for _, b := range breaks {
		copied := *b
		if copied.ID == uuid.Nil {
			copied.ID = uuid.New()
		}
		copied.DoctorID = doctorID
		replaced = append(replaced, &copied)
	}
	r.breaks[doctorID] = replaced
	return nil
}

func (r *ScheduleRepository) ListVacations(ctx context.Context, doctorID uuid.UUID) ([]*model.Vacation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Vacation, 0, len(r.vacations[doctorID]))
	for _, v := range r.vacations[doctorID] {
		copied := *v
		out = append(out, &copied)
	}
	return out, nil
}

func (r *ScheduleRepository) ReplaceVacations(ctx context.Context, doctorID uuid.UUID, vacations []*model.Vacation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	replaced := make([]*model.Vacation, 0, len(vacations))
	for _, v := range vacations {
		copied := *v
		if copied.ID == uuid.Nil {
			copied.ID = uuid.New()
		}
		copied.DoctorID = doctorID
		copied.StartDate = model.DateOf(copied.StartDate)
		copied.EndDate = model.DateOf(copied.EndDate)
		replaced = append(replaced, &copied)
	}
	r.vacations[doctorID] = replaced
	return nil
}
