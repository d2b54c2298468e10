package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/scheduling-api/internal/model"
	"github.com/clinicore/scheduling-api/internal/repository"
)

// OutboxRepository is an in-memory OutboxRepository.
type OutboxRepository struct {
	mu     sync.Mutex
	events map[uuid.UUID]*model.OutboxEvent
}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{events: make(map[uuid.UUID]*model.OutboxEvent)}
}

var _ repository.OutboxRepository = (*OutboxRepository)(nil)

func (r *OutboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.Payload == nil {
		return fmt.Errorf("event payload cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	event.ID = uuid.New()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt

	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var out []*model.OutboxEvent
	for _, ev := range r.events {
		if ev.Status == model.OutboxStatusProcessed {
			continue
		}
		if ev.RetryAt != nil && ev.RetryAt.After(now) {
			continue
		}
		copied := *ev
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *OutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev, ok := r.events[id]
	if !ok {
		return fmt.Errorf("outbox event %s not found", id)
	}
	now := time.Now()
	ev.Status = model.OutboxStatusProcessed
	ev.ProcessedAt = &now
	ev.UpdatedAt = now
	return nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev, ok := r.events[id]
	if !ok {
		return fmt.Errorf("outbox event %s not found", id)
	}
	ev.Status = model.OutboxStatusFailed
	ev.ErrorMessage = &errMsg
	ev.RetryCount++
	ev.RetryAt = retryAt
	ev.UpdatedAt = time.Now()
	return nil
}

func (r *OutboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, ev := range r.events {
		if ev.Status == model.OutboxStatusProcessed && ev.ProcessedAt != nil && ev.ProcessedAt.Before(before) {
			delete(r.events, id)
			deleted++
		}
	}
	return deleted, nil
}
