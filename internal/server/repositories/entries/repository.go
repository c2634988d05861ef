// Package entries provides the gallery entry store: a PostgreSQL-backed
// repository for production and an in-memory one for tests and local runs.
//
// Every structural write is guarded by the store revision: callers pass the
// revision they read in a Snapshot, and a write against a stale revision
// fails with common.ErrVersionConflict without touching any row.
package entries

import (
	"context"

	"github.com/dmitrijs2005/gallery/internal/server/models"
)

type Repository interface {
	// Snapshot returns all entries and the revision they were read at.
	// Entries is never nil.
	Snapshot(ctx context.Context) (*models.Snapshot, error)
	// Get returns a single entry or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Entry, error)
	// Create inserts e if rev is current and returns the new revision.
	Create(ctx context.Context, rev int64, e *models.Entry) (int64, error)
	// Rename changes the display name. It does not affect ordering and is
	// not revision checked.
	Rename(ctx context.Context, id, name string) error
	// SetOrders assigns new order values if rev is current.
	SetOrders(ctx context.Context, rev int64, orders map[string]int) (int64, error)
	// Remove deletes id and assigns orders, if rev is current. A missing id
	// is common.ErrorNotFound and nothing is written.
	Remove(ctx context.Context, rev int64, id string, orders map[string]int) (int64, error)
}
