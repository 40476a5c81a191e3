// Copyright (c) 2026 BookVault. All rights reserved.

package author

import (
	"context"
	"fmt"
	"time"

	"github.com/bookvault/api/internal/platform/database/schema"
	"github.com/bookvault/api/internal/platform/dberr"
	"github.com/bookvault/api/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on PostgreSQL.
type PostgresRepository struct{}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository() *PostgresRepository {
	return &PostgresRepository{}
}

var (
	authorTable = schema.CoreAuthor
	joinTable   = schema.CoreBookAuthor
)

// Upsert implements [Repository].
//
// The no-op DO UPDATE makes RETURNING yield the existing row's id on
// conflict, collapsing lookup-or-create into one atomic statement.
func (r *PostgresRepository) Upsert(ctx context.Context, db postgres.DBTX, name string) (Author, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s
		RETURNING %s, %s, %s`,
		authorTable.Table, authorTable.Name, authorTable.CreatedAt,
		authorTable.Name, authorTable.Name, authorTable.Name,
		authorTable.ID, authorTable.Name, authorTable.CreatedAt,
	)

	var author Author
	err := db.QueryRow(ctx, query, name, time.Now().UTC()).
		Scan(&author.ID, &author.Name, &author.CreatedAt)
	if err != nil {
		return Author{}, dberr.Wrap(err, "upsert author")
	}

	return author, nil
}

// ReplaceForBook implements [Repository].
func (r *PostgresRepository) ReplaceForBook(ctx context.Context, db postgres.DBTX, bookID int64, authorIDs []int64) error {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		joinTable.Table, joinTable.BookID)

	if _, err := db.Exec(ctx, deleteQuery, bookID); err != nil {
		return dberr.Wrap(err, "clear book authors")
	}

	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		joinTable.Table, joinTable.BookID, joinTable.AuthorID)

	for _, authorID := range authorIDs {
		if _, err := db.Exec(ctx, insertQuery, bookID, authorID); err != nil {
			return dberr.Wrap(err, "associate book author")
		}
	}

	return nil
}

// ListByBook implements [Repository].
func (r *PostgresRepository) ListByBook(ctx context.Context, db postgres.DBTX, bookID int64) ([]Author, error) {
	query := fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s
		FROM %s a
		JOIN %s ba ON ba.%s = a.%s
		WHERE ba.%s = $1
		ORDER BY a.%s ASC`,
		authorTable.ID, authorTable.Name, authorTable.CreatedAt,
		authorTable.Table,
		joinTable.Table, joinTable.AuthorID, authorTable.ID,
		joinTable.BookID,
		authorTable.Name,
	)

	rows, err := db.Query(ctx, query, bookID)
	if err != nil {
		return nil, dberr.Wrap(err, "list book authors")
	}
	defer rows.Close()

	var authors []Author
	for rows.Next() {
		var author Author
		if err := rows.Scan(&author.ID, &author.Name, &author.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan author")
		}
		authors = append(authors, author)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate authors")
	}

	return authors, nil
}
