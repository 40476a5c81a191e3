// Copyright (c) 2026 BookVault. All rights reserved.

package schema

// CoreBookCopyTable represents the 'core.bookcopy' table
type CoreBookCopyTable struct {
	Table       string
	ID          string
	BookID      string
	AcquiredAt  string
	DiscardedAt string
	CreatedAt   string
}

// CoreBookCopy is the schema definition for core.bookcopy.
// A copy with a NULL discardedat column is an active (lendable) copy.
var CoreBookCopy = CoreBookCopyTable{
	Table:       "core.bookcopy",
	ID:          "id",
	BookID:      "bookid",
	AcquiredAt:  "acquiredat",
	DiscardedAt: "discardedat",
	CreatedAt:   "createdat",
}

func (t CoreBookCopyTable) Columns() []string {
	return []string{t.ID, t.BookID, t.AcquiredAt, t.DiscardedAt, t.CreatedAt}
}
