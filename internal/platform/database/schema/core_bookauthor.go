// Copyright (c) 2026 BookVault. All rights reserved.

package schema

// CoreBookAuthorTable represents the 'core.bookauthor' join table
type CoreBookAuthorTable struct {
	Table    string
	BookID   string
	AuthorID string
}

var CoreBookAuthor = CoreBookAuthorTable{
	Table:    "core.bookauthor",
	BookID:   "bookid",
	AuthorID: "authorid",
}
