// Copyright (c) 2026 BookVault. All rights reserved.

// Package copy manages the physical copies of catalog entries.
//
// Copies are retired softly: discarding sets a discard date instead of
// deleting the row, so circulation history stays intact. Hard deletion
// exists for rows created by mistake.
package copy

import "time"

// Copy is one physical copy of a book.
//
// A nil DiscardedAt means the copy is active.
type Copy struct {
	ID          int64      `json:"id"`
	BookID      int64      `json:"bookId"`
	AcquiredAt  time.Time  `json:"acquiredAt"`
	DiscardedAt *time.Time `json:"discardedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Active reports whether the copy is still in circulation.
func (c *Copy) Active() bool {
	return c.DiscardedAt == nil
}

// CreateInput carries the fields for registering a new copy.
type CreateInput struct {
	AcquiredAt string `json:"acquiredAt"`
}

// UpdateInput carries the editable copy fields. An empty DiscardedAt clears
// the discard date and returns the copy to circulation.
type UpdateInput struct {
	AcquiredAt  string `json:"acquiredAt"`
	DiscardedAt string `json:"discardedAt"`
}
