package leads

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Repository is the append-only lead record store.
type Repository interface {
	Create(ctx context.Context, lead *Lead) (*Lead, error)
}

// InMemoryRepository keeps leads in process memory.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	leads  map[string]Lead
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]Lead),
	}
}

// Create stores a copy of lead under the next sequential id.
func (r *InMemoryRepository) Create(ctx context.Context, lead *Lead) (*Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *lead
	stored.ID = strconv.FormatInt(r.nextID, 10)
	if stored.SubmittedAt.IsZero() {
		stored.SubmittedAt = time.Now().UTC()
	}
	r.leads[stored.ID] = stored

	out := stored
	return &out, nil
}

// Len returns the number of stored leads.
func (r *InMemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.leads)
}
