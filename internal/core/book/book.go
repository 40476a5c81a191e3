// Copyright (c) 2026 BookVault. All rights reserved.

// Package book implements the catalog and the book intake workflow.
//
// Intake runs in two stages. The lookup stage is read-only: duplicate check,
// external metadata fetch, description sanitization, all surfaced to the
// admin for review. The commit stage validates the reviewed fields and writes
// the book, its author associations, and the audit entry in one transaction.
package book

import (
	"time"

	"github.com/bookvault/api/internal/core/author"
	"github.com/bookvault/api/internal/metadata"
)

// Book is one catalog entry.
//
// Description holds Markdown as stored; DescriptionHTML is populated only on
// detail reads, after rendering and sanitization.
type Book struct {
	ID              int64           `json:"id"`
	GoogleBooksID   string          `json:"googleBooksId,omitempty"`
	ISBN13          string          `json:"isbn13"`
	Title           string          `json:"title"`
	Publisher       string          `json:"publisher"`
	PublishedDate   string          `json:"publishedDate"`
	Description     string          `json:"description"`
	DescriptionHTML string          `json:"descriptionHtml,omitempty"`
	CoverURL        string          `json:"coverUrl,omitempty"`
	Authors         []author.Author `json:"authors"`
	ActiveCopies    int             `json:"activeCopies"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// LookupResult is the prefill payload produced by the lookup stage.
//
// Description has already been converted to safe Markdown; the admin reviews
// and possibly edits it before commit.
type LookupResult struct {
	GoogleBooksID string   `json:"googleBooksId"`
	ISBN13        string   `json:"isbn13,omitempty"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Description   string   `json:"description,omitempty"`
	CoverURL      string   `json:"coverUrl,omitempty"`
}

// newLookupResult maps a normalized upstream volume to the prefill payload.
func newLookupResult(volume *metadata.Volume, markdownDescription string) *LookupResult {
	return &LookupResult{
		GoogleBooksID: volume.GoogleID,
		ISBN13:        volume.ISBN13,
		Title:         volume.Title,
		Authors:       volume.Authors,
		Publisher:     volume.Publisher,
		PublishedDate: volume.PublishedDate,
		Description:   markdownDescription,
		CoverURL:      metadata.CoverURL(volume.GoogleID),
	}
}

// CommitInput carries the reviewed intake fields for create and update.
//
// Authors is the free-text, comma-separated author list as submitted.
type CommitInput struct {
	GoogleBooksID string `json:"googleBooksId"`
	ISBN13        string `json:"isbn13"`
	Title         string `json:"title"`
	Publisher     string `json:"publisher"`
	PublishedDate string `json:"publishedDate"`
	Description   string `json:"description"`
	Authors       string `json:"authors"`
}
