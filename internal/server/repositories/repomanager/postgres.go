// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gallery/internal/server/migrations"
	"github.com/dmitrijs2005/gallery/internal/server/repositories/entries"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// tableNameEnv is substituted into the migration SQL by goose ENVSUB.
const tableNameEnv = "TABLE_NAME"

// PostgresRepositoryManager vends PostgreSQL-backed repositories for one
// configured entry table.
type PostgresRepositoryManager struct {
	table string
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(table string) (RepositoryManager, error) {
	if table == "" {
		return nil, fmt.Errorf("table name is required")
	}
	return &PostgresRepositoryManager{table: table}, nil
}

// Entries returns an entries.Repository bound to db.
func (m *PostgresRepositoryManager) Entries(db *sql.DB) entries.Repository {
	return entries.NewPostgresRepository(db, m.table)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations exports the configured table name for ENVSUB, points goose
// at the embedded migrations and applies them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	if err := os.Setenv(tableNameEnv, m.table); err != nil {
		return err
	}
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	return nil
}
