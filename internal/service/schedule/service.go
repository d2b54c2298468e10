package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicore/scheduling-api/internal/model"
	"github.com/clinicore/scheduling-api/internal/repository"
)

// Schedule data is read on every availability query but edited rarely, so
// reads go through a short-TTL cache that writes invalidate.
const (
	cacheTTL     = 30 * time.Second
	cacheCleanup = 5 * time.Minute
)

// DoctorSchedule bundles everything the availability engine needs for one
// doctor.
type DoctorSchedule struct {
	Template  *model.WeeklySchedule
	Breaks    []*model.Break
	Vacations []*model.Vacation
}

type Service struct {
	repo  repository.ScheduleRepository
	cache *gocache.Cache
}

func NewService(repo repository.ScheduleRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, cacheCleanup),
	}
}

// GetSchedule returns the doctor's template, breaks and vacations.
func (s *Service) GetSchedule(ctx context.Context, doctorID uuid.UUID) (*DoctorSchedule, error) {
	key := doctorID.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*DoctorSchedule), nil
	}

	template, err := s.repo.GetSchedule(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	breaks, err := s.repo.ListBreaks(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list breaks: %w", err)
	}
	vacations, err := s.repo.ListVacations(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vacations: %w", err)
	}

	bundle := &DoctorSchedule{
		Template:  template,
		Breaks:    breaks,
		Vacations: vacations,
	}
	s.cache.Set(key, bundle, cacheTTL)
	return bundle, nil
}

// UpsertSchedule validates and stores a full weekly template. Edits are
// last-writer-wins; schedule changes are rare and low-contention.
func (s *Service) UpsertSchedule(ctx context.Context, schedule *model.WeeklySchedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}
	if err := s.repo.UpsertSchedule(ctx, schedule); err != nil {
		return fmt.Errorf("failed to upsert schedule: %w", err)
	}
	s.cache.Delete(schedule.DoctorID.String())
	return nil
}

// ReplaceBreaks validates and stores the doctor's full break list.
func (s *Service) ReplaceBreaks(ctx context.Context, doctorID uuid.UUID, breaks []*model.Break) error {
	for _, b := range breaks {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	if err := s.repo.ReplaceBreaks(ctx, doctorID, breaks); err != nil {
		return fmt.Errorf("failed to replace breaks: %w", err)
	}
	s.cache.Delete(doctorID.String())
	return nil
}

// ReplaceVacations validates and stores the doctor's full vacation list.
func (s *Service) ReplaceVacations(ctx context.Context, doctorID uuid.UUID, vacations []*model.Vacation) error {
	for _, v := range vacations {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if err := s.repo.ReplaceVacations(ctx, doctorID, vacations); err != nil {
		return fmt.Errorf("failed to replace vacations: %w", err)
	}
	s.cache.Delete(doctorID.String())
	return nil
}
