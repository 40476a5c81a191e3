// Copyright (c) 2026 BookVault. All rights reserved.

package book

import (
	"context"

	"github.com/bookvault/api/internal/platform/postgres"
)

// Repository defines persistence operations for catalog entries.
//
// Mutating methods take a [postgres.DBTX] so the service can run the whole
// commit stage (book row, author associations, audit entry) in one
// transaction obtained via InTx.
type Repository interface {
	// InTx runs fn inside a single database transaction, committing when fn
	// returns nil and rolling back otherwise.
	InTx(ctx context.Context, fn func(db postgres.DBTX) error) error

	// ExistsByISBN reports whether a book with the ISBN is already cataloged.
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)

	// Insert creates a book row and returns it with the assigned id.
	// A unique-constraint race on ISBN surfaces as apperr.DuplicateISBN.
	Insert(ctx context.Context, db postgres.DBTX, input CommitInput) (Book, error)

	// Update rewrites the mutable fields of an existing book row.
	Update(ctx context.Context, db postgres.DBTX, id int64, input CommitInput) (Book, error)

	// GetForUpdate returns the current row inside the transaction, for the
	// audit before-snapshot.
	GetForUpdate(ctx context.Context, db postgres.DBTX, id int64) (Book, error)

	// Get returns one book with its authors and active-copy count.
	Get(ctx context.Context, id int64) (Book, error)

	// List returns a page of books with authors and active-copy counts,
	// plus the total count. A non-empty search narrows the page to titles
	// containing it, case-insensitively.
	List(ctx context.Context, search string, limit, offset int) ([]Book, int, error)
}
