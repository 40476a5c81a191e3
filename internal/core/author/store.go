// Copyright (c) 2026 BookVault. All rights reserved.

package author

import (
	"context"

	"github.com/bookvault/api/internal/platform/postgres"
)

// Repository defines persistence operations for authors.
//
// Every method takes a [postgres.DBTX] so author writes can run inside the
// book-intake transaction.
type Repository interface {
	// Upsert returns the id for a normalized name, inserting the row if it
	// does not exist yet. Atomic with respect to concurrent intakes.
	Upsert(ctx context.Context, db postgres.DBTX, name string) (Author, error)

	// ReplaceForBook rewrites the book's author associations to exactly the
	// given author ids, in order.
	ReplaceForBook(ctx context.Context, db postgres.DBTX, bookID int64, authorIDs []int64) error

	// ListByBook returns a book's authors in name order.
	ListByBook(ctx context.Context, db postgres.DBTX, bookID int64) ([]Author, error)
}
