// Copyright (c) 2026 BookVault. All rights reserved.

package schema

// CoreBookTable represents the 'core.book' table
type CoreBookTable struct {
	Table         string
	ID            string
	GoogleBooksID string
	ISBN13        string
	Title         string
	Publisher     string
	PublishedDate string
	Description   string
	CreatedAt     string
	UpdatedAt     string
}

// CoreBook is the schema definition for core.book
var CoreBook = CoreBookTable{
	Table:         "core.book",
	ID:            "id",
	GoogleBooksID: "googlebooksid",
	ISBN13:        "isbn13",
	Title:         "title",
	Publisher:     "publisher",
	PublishedDate: "publisheddate",
	Description:   "description",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

func (t CoreBookTable) Columns() []string {
	return []string{
		t.ID, t.GoogleBooksID, t.ISBN13, t.Title, t.Publisher,
		t.PublishedDate, t.Description, t.CreatedAt, t.UpdatedAt,
	}
}
