package ordering

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gallery/internal/common"
	"github.com/dmitrijs2005/gallery/internal/logging"
	"github.com/dmitrijs2005/gallery/internal/server/models"
	"github.com/sethvargo/go-retry"
)

// Store is the part of the entry repository the engine writes through.
type Store interface {
	Snapshot(ctx context.Context) (*models.Snapshot, error)
	Create(ctx context.Context, rev int64, e *models.Entry) (int64, error)
	SetOrders(ctx context.Context, rev int64, orders map[string]int) (int64, error)
	Remove(ctx context.Context, rev int64, id string, orders map[string]int) (int64, error)
}

// Engine applies ordering decisions to a Store. Every operation reads a
// fresh snapshot and writes against its revision; a lost race is retried
// up to attempts times before common.ErrVersionConflict is returned.
type Engine struct {
	store    Store
	logger   logging.Logger
	attempts uint64
	delay    time.Duration
}

func NewEngine(store Store, logger logging.Logger, attempts int) *Engine {
	if attempts < 1 {
		attempts = 1
	}
	return &Engine{store: store, logger: logger, attempts: uint64(attempts), delay: 20 * time.Millisecond}
}

func (e *Engine) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(e.attempts-1, retry.NewConstant(e.delay))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, common.ErrVersionConflict) {
			e.logger.Warn(ctx, "stale snapshot, retrying", "op", op)
			return retry.RetryableError(err)
		}
		return err
	})
}

// NextOrder returns the order a new entry would get right now.
func (e *Engine) NextOrder(ctx context.Context) (int, error) {
	snap, err := e.store.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return NextOrder(snap.Entries), nil
}

// Insert assigns entry the next order and persists it.
func (e *Engine) Insert(ctx context.Context, entry *models.Entry) error {
	return e.withRetry(ctx, "insert", func(ctx context.Context) error {
		snap, err := e.store.Snapshot(ctx)
		if err != nil {
			return err
		}
		entry.Order = NextOrder(snap.Entries)
		_, err = e.store.Create(ctx, snap.Revision, entry)
		return err
	})
}

// Move puts id at target, swapping with the current holder of target.
// It returns the orders that changed.
func (e *Engine) Move(ctx context.Context, id string, target int) (map[string]int, error) {
	var changes map[string]int
	err := e.withRetry(ctx, "move", func(ctx context.Context) error {
		snap, err := e.store.Snapshot(ctx)
		if err != nil {
			return err
		}
		changes, err = PlanMove(snap.Entries, id, target)
		if err != nil || len(changes) == 0 {
			return err
		}
		_, err = e.store.SetOrders(ctx, snap.Revision, changes)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.logger.Debug(ctx, "entry moved", "id", id, "order", target, "changed", len(changes))
	return changes, nil
}

// Reorder moves id by delta positions. Callers clamp at the top and bottom
// before calling; an out-of-range result is a validation error.
func (e *Engine) Reorder(ctx context.Context, id string, delta int) (map[string]int, error) {
	var changes map[string]int
	err := e.withRetry(ctx, "reorder", func(ctx context.Context) error {
		snap, err := e.store.Snapshot(ctx)
		if err != nil {
			return err
		}
		cur := snap.Find(id)
		if cur == nil {
			return common.ErrorNotFound
		}
		changes, err = PlanMove(snap.Entries, id, cur.Order+delta)
		if err != nil || len(changes) == 0 {
			return err
		}
		_, err = e.store.SetOrders(ctx, snap.Revision, changes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// RenormalizeAfterDelete removes deletedID and renumbers the remaining
// entries 1..N in the same write.
func (e *Engine) RenormalizeAfterDelete(ctx context.Context, deletedID string) error {
	return e.withRetry(ctx, "renormalize", func(ctx context.Context) error {
		snap, err := e.store.Snapshot(ctx)
		if err != nil {
			return err
		}
		changes := Renormalize(snap.Entries, deletedID)
		if _, err := e.store.Remove(ctx, snap.Revision, deletedID, changes); err != nil {
			return err
		}
		e.logger.Debug(ctx, "orders renormalized", "deleted", deletedID, "changed", len(changes))
		return nil
	})
}
