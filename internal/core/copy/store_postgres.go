// Copyright (c) 2026 BookVault. All rights reserved.

package copy

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookvault/api/internal/platform/database/schema"
	"github.com/bookvault/api/internal/platform/dberr"
	"github.com/bookvault/api/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var (
	copyTable     = schema.CoreBookCopy
	copyBookTable = schema.CoreBook
)

func copyColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s",
		copyTable.ID, copyTable.BookID, copyTable.AcquiredAt, copyTable.DiscardedAt, copyTable.CreatedAt)
}

// InTx implements [Repository].
func (r *PostgresRepository) InTx(ctx context.Context, fn func(db postgres.DBTX) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return dberr.Wrap(err, "begin transaction")
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit transaction")
	}

	return nil
}

// ListByBook implements [Repository].
func (r *PostgresRepository) ListByBook(ctx context.Context, bookID int64) ([]Copy, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1
		ORDER BY %s ASC, %s ASC`,
		copyColumns(), copyTable.Table,
		copyTable.BookID,
		copyTable.AcquiredAt, copyTable.ID,
	)

	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, dberr.Wrap(err, "list copies")
	}
	defer rows.Close()

	var copies []Copy
	for rows.Next() {
		var c Copy
		if err := rows.Scan(&c.ID, &c.BookID, &c.AcquiredAt, &c.DiscardedAt, &c.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan copy")
		}
		copies = append(copies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate copies")
	}

	return copies, nil
}

// Get implements [Repository].
func (r *PostgresRepository) Get(ctx context.Context, id int64) (Copy, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		copyColumns(), copyTable.Table, copyTable.ID)

	var c Copy
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.BookID, &c.AcquiredAt, &c.DiscardedAt, &c.CreatedAt)
	if err != nil {
		return Copy{}, dberr.Wrap(err, "get copy")
	}

	return c, nil
}

// BookExists implements [Repository].
func (r *PostgresRepository) BookExists(ctx context.Context, bookID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		copyBookTable.Table, copyBookTable.ID)

	var exists bool
	if err := r.pool.QueryRow(ctx, query, bookID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check book existence")
	}

	return exists, nil
}

// Insert implements [Repository].
func (r *PostgresRepository) Insert(ctx context.Context, db postgres.DBTX, bookID int64, acquiredAt time.Time) (Copy, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s`,
		copyTable.Table, copyTable.BookID, copyTable.AcquiredAt, copyTable.CreatedAt,
		copyColumns(),
	)

	var c Copy
	err := db.QueryRow(ctx, query, bookID, acquiredAt, time.Now().UTC()).
		Scan(&c.ID, &c.BookID, &c.AcquiredAt, &c.DiscardedAt, &c.CreatedAt)
	if err != nil {
		return Copy{}, dberr.Wrap(err, "insert copy")
	}

	return c, nil
}

// Update implements [Repository].
func (r *PostgresRepository) Update(ctx context.Context, db postgres.DBTX, id int64, acquiredAt time.Time, discardedAt *time.Time) (Copy, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3
		RETURNING %s`,
		copyTable.Table, copyTable.AcquiredAt, copyTable.DiscardedAt, copyTable.ID,
		copyColumns(),
	)

	var c Copy
	err := db.QueryRow(ctx, query, acquiredAt, discardedAt, id).
		Scan(&c.ID, &c.BookID, &c.AcquiredAt, &c.DiscardedAt, &c.CreatedAt)
	if err != nil {
		return Copy{}, dberr.Wrap(err, "update copy")
	}

	return c, nil
}

// Delete implements [Repository].
func (r *PostgresRepository) Delete(ctx context.Context, db postgres.DBTX, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		copyTable.Table, copyTable.ID)

	tag, err := db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete copy")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}
