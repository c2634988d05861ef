package entries

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/gallery/internal/common"
	"github.com/dmitrijs2005/gallery/internal/server/models"
)

// MemoryRepository keeps entries in a map guarded by a mutex.
type MemoryRepository struct {
	mu       sync.RWMutex
	revision int64
	entries  map[string]*models.Entry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string]*models.Entry)}
}

func (r *MemoryRepository) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := &models.Snapshot{Revision: r.revision, Entries: make([]*models.Entry, 0, len(r.entries))}
	for _, e := range r.entries {
		snap.Entries = append(snap.Entries, e.Clone())
	}
	sort.Slice(snap.Entries, func(i, j int) bool {
		if snap.Entries[i].Order != snap.Entries[j].Order {
			return snap.Entries[i].Order > snap.Entries[j].Order
		}
		return snap.Entries[i].ID < snap.Entries[j].ID
	})
	return snap, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return e.Clone(), nil
}

func (r *MemoryRepository) Create(ctx context.Context, rev int64, e *models.Entry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rev != r.revision {
		return 0, common.ErrVersionConflict
	}
	if _, ok := r.entries[e.ID]; ok {
		return 0, common.ErrVersionConflict
	}
	r.entries[e.ID] = e.Clone()
	r.revision++
	return r.revision, nil
}

func (r *MemoryRepository) Rename(ctx context.Context, id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return common.ErrorNotFound
	}
	e.Name = name
	return nil
}

func (r *MemoryRepository) SetOrders(ctx context.Context, rev int64, orders map[string]int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rev != r.revision {
		return 0, common.ErrVersionConflict
	}
	if err := r.checkExist(orders, ""); err != nil {
		return 0, err
	}
	r.applyOrders(orders)
	r.revision++
	return r.revision, nil
}

func (r *MemoryRepository) Remove(ctx context.Context, rev int64, id string, orders map[string]int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rev != r.revision {
		return 0, common.ErrVersionConflict
	}
	if _, ok := r.entries[id]; !ok {
		return 0, common.ErrorNotFound
	}
	if err := r.checkExist(orders, id); err != nil {
		return 0, err
	}
	delete(r.entries, id)
	r.applyOrders(orders)
	r.revision++
	return r.revision, nil
}

// checkExist validates the whole batch up front so a write is all or nothing.
func (r *MemoryRepository) checkExist(orders map[string]int, removed string) error {
	for id := range orders {
		if _, ok := r.entries[id]; !ok || id == removed {
			return common.ErrorNotFound
		}
	}
	return nil
}

func (r *MemoryRepository) applyOrders(orders map[string]int) {
	for id, order := range orders {
		r.entries[id].Order = order
	}
}
