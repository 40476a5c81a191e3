// Copyright (c) 2026 BookVault. All rights reserved.

package copy

import (
	"context"
	"time"

	"github.com/bookvault/api/internal/platform/postgres"
)

// Repository defines persistence operations for copies.
type Repository interface {
	// InTx runs fn inside a single database transaction.
	InTx(ctx context.Context, fn func(db postgres.DBTX) error) error

	// ListByBook returns a book's copies, oldest acquisition first.
	ListByBook(ctx context.Context, bookID int64) ([]Copy, error)

	// Get returns one copy, or dberr.ErrNotFound.
	Get(ctx context.Context, id int64) (Copy, error)

	// BookExists reports whether the referenced book is cataloged.
	BookExists(ctx context.Context, bookID int64) (bool, error)

	// Insert registers a new copy and returns it with the assigned id.
	Insert(ctx context.Context, db postgres.DBTX, bookID int64, acquiredAt time.Time) (Copy, error)

	// Update rewrites the acquisition date and the discard date. A nil
	// discardedAt returns the copy to circulation.
	Update(ctx context.Context, db postgres.DBTX, id int64, acquiredAt time.Time, discardedAt *time.Time) (Copy, error)

	// Delete removes a copy row entirely.
	Delete(ctx context.Context, db postgres.DBTX, id int64) error
}
