package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"

	"goal-roadmap/internal/domain"
)

// MemoryRoadmapRepository guarda roadmaps en memoria; sirve para herramientas locales y tests.
type MemoryRoadmapRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Roadmap
}

func NewMemoryRoadmapRepository() *MemoryRoadmapRepository {
	return &MemoryRoadmapRepository{items: make(map[string]domain.Roadmap)}
}

func (r *MemoryRoadmapRepository) Create(_ context.Context, roadmap domain.Roadmap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[roadmap.ID] = roadmap
	return nil
}

func (r *MemoryRoadmapRepository) GetByID(_ context.Context, id string) (domain.Roadmap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.items[id]
	if !ok {
		return domain.Roadmap{}, pgx.ErrNoRows
	}
	return rm, nil
}

func (r *MemoryRoadmapRepository) ListByUser(_ context.Context, userID string, limit int) ([]domain.Roadmap, error) {
	if limit <= 0 {
		limit = 20
	}
	r.mu.RLock()
	var out []domain.Roadmap
	for _, rm := range r.items {
		if rm.UserID == userID {
			out = append(out, rm)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
