// Copyright (c) 2026 BookVault. All rights reserved.

package book

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookvault/api/internal/core/author"
	"github.com/bookvault/api/internal/platform/apperr"
	"github.com/bookvault/api/internal/platform/database/schema"
	"github.com/bookvault/api/internal/platform/dberr"
	"github.com/bookvault/api/internal/platform/postgres"
)

// isbnUniqueConstraint is the unique-index name on core.book(isbn13).
// Must match the migration that creates it.
const isbnUniqueConstraint = "book_isbn13_key"

// PostgresRepository implements [Repository] on PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var (
	bookTable     = schema.CoreBook
	copyTable     = schema.CoreBookCopy
	bookJoinTable = schema.CoreBookAuthor
	bookAuthors   = schema.CoreAuthor
)

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

// ExistsByISBN implements [Repository].
func (r *PostgresRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		bookTable.Table, bookTable.ISBN13)

	var exists bool
	if err := r.pool.QueryRow(ctx, query, isbn).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check isbn existence")
	}

	return exists, nil
}

// Insert implements [Repository].
func (r *PostgresRepository) Insert(ctx context.Context, db postgres.DBTX, input CommitInput) (Book, error) {
	now := time.Now().UTC()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s`,
		bookTable.Table,
		bookTable.GoogleBooksID, bookTable.ISBN13, bookTable.Title, bookTable.Publisher,
		bookTable.PublishedDate, bookTable.Description, bookTable.CreatedAt, bookTable.UpdatedAt,
		bookTable.ID, bookTable.CreatedAt,
	)

	book := Book{
		GoogleBooksID: input.GoogleBooksID,
		ISBN13:        input.ISBN13,
		Title:         input.Title,
		Publisher:     input.Publisher,
		PublishedDate: input.PublishedDate,
		Description:   input.Description,
		UpdatedAt:     now,
	}

	err := db.QueryRow(ctx, query,
		input.GoogleBooksID, input.ISBN13, input.Title, input.Publisher,
		input.PublishedDate, input.Description, now, now,
	).Scan(&book.ID, &book.CreatedAt)
	if err != nil {
		// A concurrent intake of the same ISBN raced past the pre-check.
		if dberr.IsUniqueViolation(err, isbnUniqueConstraint) {
			return Book{}, apperr.DuplicateISBN()
		}
		return Book{}, dberr.Wrap(err, "insert book")
	}

	return book, nil
}

// Update implements [Repository].
func (r *PostgresRepository) Update(ctx context.Context, db postgres.DBTX, id int64, input CommitInput) (Book, error) {
	now := time.Now().UTC()

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $8
		RETURNING %s`,
		bookTable.Table,
		bookTable.GoogleBooksID, bookTable.ISBN13, bookTable.Title, bookTable.Publisher,
		bookTable.PublishedDate, bookTable.Description, bookTable.UpdatedAt,
		bookTable.ID,
		bookTable.CreatedAt,
	)

	book := Book{
		ID:            id,
		GoogleBooksID: input.GoogleBooksID,
		ISBN13:        input.ISBN13,
		Title:         input.Title,
		Publisher:     input.Publisher,
		PublishedDate: input.PublishedDate,
		Description:   input.Description,
		UpdatedAt:     now,
	}

	err := db.QueryRow(ctx, query,
		input.GoogleBooksID, input.ISBN13, input.Title, input.Publisher,
		input.PublishedDate, input.Description, now, id,
	).Scan(&book.CreatedAt)
	if err != nil {
		if dberr.IsUniqueViolation(err, isbnUniqueConstraint) {
			return Book{}, apperr.DuplicateISBN()
		}
		return Book{}, dberr.Wrap(err, "update book")
	}

	return book, nil
}

// GetForUpdate implements [Repository].
func (r *PostgresRepository) GetForUpdate(ctx context.Context, db postgres.DBTX, id int64) (Book, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s WHERE %s = $1
		FOR UPDATE`,
		bookTable.ID, bookTable.GoogleBooksID, bookTable.ISBN13, bookTable.Title,
		bookTable.Publisher, bookTable.PublishedDate, bookTable.Description, bookTable.CreatedAt,
		bookTable.Table, bookTable.ID,
	)

	var book Book
	err := db.QueryRow(ctx, query, id).Scan(
		&book.ID, &book.GoogleBooksID, &book.ISBN13, &book.Title,
		&book.Publisher, &book.PublishedDate, &book.Description, &book.CreatedAt,
	)
	if err != nil {
		return Book{}, dberr.Wrap(err, "lock book for update")
	}

	return book, nil
}

// Get implements [Repository].
func (r *PostgresRepository) Get(ctx context.Context, id int64) (Book, error) {
	query := fmt.Sprintf(`
		SELECT b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s,
			(SELECT COUNT(*) FROM %s c WHERE c.%s = b.%s AND c.%s IS NULL)
		FROM %s b WHERE b.%s = $1`,
		bookTable.ID, bookTable.GoogleBooksID, bookTable.ISBN13, bookTable.Title,
		bookTable.Publisher, bookTable.PublishedDate, bookTable.Description,
		bookTable.CreatedAt, bookTable.UpdatedAt,
		copyTable.Table, copyTable.BookID, bookTable.ID, copyTable.DiscardedAt,
		bookTable.Table, bookTable.ID,
	)

	var book Book
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&book.ID, &book.GoogleBooksID, &book.ISBN13, &book.Title,
		&book.Publisher, &book.PublishedDate, &book.Description,
		&book.CreatedAt, &book.UpdatedAt, &book.ActiveCopies,
	)
	if err != nil {
		return Book{}, dberr.Wrap(err, "get book")
	}

	authors, err := r.authorsFor(ctx, book.ID)
	if err != nil {
		return Book{}, err
	}
	book.Authors = authors

	return book, nil
}

// List implements [Repository].
func (r *PostgresRepository) List(ctx context.Context, search string, limit, offset int) ([]Book, int, error) {
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')`,
		bookTable.Table, bookTable.Title,
	)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count books")
	}

	query := fmt.Sprintf(`
		SELECT b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s,
			(SELECT COUNT(*) FROM %s c WHERE c.%s = b.%s AND c.%s IS NULL)
		FROM %s b
		WHERE ($1 = '' OR b.%s ILIKE '%%' || $1 || '%%')
		ORDER BY b.%s ASC
		LIMIT $2 OFFSET $3`,
		bookTable.ID, bookTable.GoogleBooksID, bookTable.ISBN13, bookTable.Title,
		bookTable.Publisher, bookTable.PublishedDate, bookTable.Description,
		bookTable.CreatedAt, bookTable.UpdatedAt,
		copyTable.Table, copyTable.BookID, bookTable.ID, copyTable.DiscardedAt,
		bookTable.Table,
		bookTable.Title,
		bookTable.Title,
	)

	rows, err := r.pool.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list books")
	}
	defer rows.Close()

	books := make([]Book, 0, limit)
	for rows.Next() {
		var book Book
		if err := rows.Scan(
			&book.ID, &book.GoogleBooksID, &book.ISBN13, &book.Title,
			&book.Publisher, &book.PublishedDate, &book.Description,
			&book.CreatedAt, &book.UpdatedAt, &book.ActiveCopies,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan book")
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate books")
	}

	for i := range books {
		authors, err := r.authorsFor(ctx, books[i].ID)
		if err != nil {
			return nil, 0, err
		}
		books[i].Authors = authors
	}

	return books, total, nil
}

// authorsFor loads a book's authors in name order.
func (r *PostgresRepository) authorsFor(ctx context.Context, bookID int64) ([]author.Author, error) {
	query := fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s
		FROM %s a
		JOIN %s ba ON ba.%s = a.%s
		WHERE ba.%s = $1
		ORDER BY a.%s ASC`,
		bookAuthors.ID, bookAuthors.Name, bookAuthors.CreatedAt,
		bookAuthors.Table,
		bookJoinTable.Table, bookJoinTable.AuthorID, bookAuthors.ID,
		bookJoinTable.BookID,
		bookAuthors.Name,
	)

	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, dberr.Wrap(err, "list book authors")
	}
	defer rows.Close()

	authors := make([]author.Author, 0, 2)
	for rows.Next() {
		var a author.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan book author")
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate book authors")
	}

	return authors, nil
}
