package screening

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates the requested analysis does not exist.
var ErrNotFound = errors.New("screening: analysis not found")

// AnalysisRepository stores completed analyses. Records are written once and
// never updated; the stored form is the exact record handed to the caller.
type AnalysisRepository interface {
	Create(ctx context.Context, a *Analysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*Analysis, error)
	List(ctx context.Context, limit, offset int) ([]*Analysis, int, error)
}

// MemoryRepository is an in-process AnalysisRepository used when no
// database is configured and in tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	analyses map[uuid.UUID]*Analysis
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{analyses: make(map[uuid.UUID]*Analysis)}
}

func (r *MemoryRepository) Create(ctx context.Context, a *Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	stored := *a
	r.analyses[a.ID] = &stored
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.analyses[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *MemoryRepository) List(ctx context.Context, limit, offset int) ([]*Analysis, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Analysis, 0, len(r.analyses))
	for _, a := range r.analyses {
		copied := *a
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}
