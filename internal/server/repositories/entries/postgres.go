package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/gallery/internal/common"
	"github.com/dmitrijs2005/gallery/internal/dbx"
	"github.com/dmitrijs2005/gallery/internal/server/models"
	"github.com/jackc/pgx/v5"
)

// PostgresRepository stores entries in a table named by the configuration
// and keeps the store revision in a single-row companion table
// (<table>_revision).
type PostgresRepository struct {
	db      *sql.DB
	entries string
	rev     string
}

// NewPostgresRepository constructs a repository over db for the given table.
func NewPostgresRepository(db *sql.DB, table string) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		entries: pgx.Identifier{table}.Sanitize(),
		rev:     pgx.Identifier{table + "_revision"}.Sanitize(),
	}
}

const entryColumns = `id, name, image_key, image_url, thumbnail_key, thumbnail_url, sort_order, date_created`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var (
		e           models.Entry
		dateCreated sql.NullTime
	)
	if err := row.Scan(&e.ID, &e.Name, &e.ImageKey, &e.ImageURL, &e.ThumbnailKey, &e.ThumbnailURL,
		&e.Order, &dateCreated); err != nil {
		return nil, err
	}
	if dateCreated.Valid {
		t := dateCreated.Time
		e.DateCreated = &t
	}
	return &e, nil
}

// Snapshot reads the revision row FOR SHARE so that no revision bump can
// commit between reading the revision and reading the entries.
func (r *PostgresRepository) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	return dbx.WithTxValue(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Snapshot, error) {
		snap := &models.Snapshot{Entries: []*models.Entry{}}

		err := tx.QueryRowContext(ctx, `SELECT revision FROM `+r.rev+` WHERE id = 1 FOR SHARE`).Scan(&snap.Revision)
		if err != nil {
			return nil, fmt.Errorf("failed to read revision: %w", err)
		}

		rows, err := tx.QueryContext(ctx, `SELECT `+entryColumns+` FROM `+r.entries+` ORDER BY sort_order DESC, id`)
		if err != nil {
			return nil, fmt.Errorf("failed to select entries: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			e, err := scanEntry(rows)
			if err != nil {
				return nil, err
			}
			snap.Entries = append(snap.Entries, e)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return snap, nil
	})
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Entry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM `+r.entries+` WHERE id = $1`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// bump advances the revision if it still equals rev.
func (r *PostgresRepository) bump(ctx context.Context, tx dbx.DBTX, rev int64) (int64, error) {
	var next int64
	err := tx.QueryRowContext(ctx,
		`UPDATE `+r.rev+` SET revision = revision + 1 WHERE id = 1 AND revision = $1 RETURNING revision`, rev).Scan(&next)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, common.ErrVersionConflict
	}
	if err != nil {
		return 0, fmt.Errorf("revision update error: %w", err)
	}
	return next, nil
}

func (r *PostgresRepository) Create(ctx context.Context, rev int64, e *models.Entry) (int64, error) {
	return dbx.WithTxValue(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) (int64, error) {
		next, err := r.bump(ctx, tx, rev)
		if err != nil {
			return 0, err
		}

		var dateCreated sql.NullTime
		if e.DateCreated != nil {
			dateCreated = sql.NullTime{Time: *e.DateCreated, Valid: true}
		}

		_, err = tx.ExecContext(ctx, `INSERT INTO `+r.entries+` (`+entryColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			e.ID, e.Name, e.ImageKey, e.ImageURL, e.ThumbnailKey, e.ThumbnailURL, e.Order, dateCreated)
		if err != nil {
			return 0, fmt.Errorf("db error: %w", err)
		}
		return next, nil
	})
}

func (r *PostgresRepository) Rename(ctx context.Context, id, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE `+r.entries+` SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) SetOrders(ctx context.Context, rev int64, orders map[string]int) (int64, error) {
	return dbx.WithTxValue(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) (int64, error) {
		next, err := r.bump(ctx, tx, rev)
		if err != nil {
			return 0, err
		}
		if err := r.applyOrders(ctx, tx, orders); err != nil {
			return 0, err
		}
		return next, nil
	})
}

func (r *PostgresRepository) Remove(ctx context.Context, rev int64, id string, orders map[string]int) (int64, error) {
	return dbx.WithTxValue(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) (int64, error) {
		next, err := r.bump(ctx, tx, rev)
		if err != nil {
			return 0, err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM `+r.entries+` WHERE id = $1`, id)
		if err != nil {
			return 0, fmt.Errorf("db error: %w", err)
		}
		if err := expectOneRow(res); err != nil {
			return 0, fmt.Errorf("entry %s: %w", id, err)
		}
		if err := r.applyOrders(ctx, tx, orders); err != nil {
			return 0, err
		}
		return next, nil
	})
}

// applyOrders updates rows in id order so statements are deterministic.
func (r *PostgresRepository) applyOrders(ctx context.Context, tx dbx.DBTX, orders map[string]int) error {
	ids := make([]string, 0, len(orders))
	for id := range orders {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		res, err := tx.ExecContext(ctx, `UPDATE `+r.entries+` SET sort_order = $2 WHERE id = $1`, id, orders[id])
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if err := expectOneRow(res); err != nil {
			return fmt.Errorf("entry %s: %w", id, err)
		}
	}
	return nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
