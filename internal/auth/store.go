// Copyright (c) 2026 BookVault. All rights reserved.

package auth

import "context"

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// FindByEmail returns the account for an email, or dberr.ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID returns the account for an id, or dberr.ErrNotFound.
	FindByID(ctx context.Context, id int64) (*User, error)

	// Create inserts a new account and returns it with the assigned id.
	Create(ctx context.Context, email, displayName string, role string) (*User, error)

	// UpdateDisplayName changes the display name of an existing account.
	UpdateDisplayName(ctx context.Context, id int64, displayName string) (*User, error)

	// List returns accounts ordered by creation time, plus the total count.
	List(ctx context.Context, limit, offset int) ([]User, int, error)
}
