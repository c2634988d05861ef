package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gallery/internal/server/repositories/entries"
)

// RepositoryManager vends repositories bound to a database and owns the
// schema migrations for them.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Entries(db *sql.DB) entries.Repository
}
