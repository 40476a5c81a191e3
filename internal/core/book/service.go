// Copyright (c) 2026 BookVault. All rights reserved.

package book

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bookvault/api/internal/audit"
	"github.com/bookvault/api/internal/content"
	"github.com/bookvault/api/internal/core/author"
	"github.com/bookvault/api/internal/metadata"
	"github.com/bookvault/api/internal/platform/apperr"
	"github.com/bookvault/api/internal/platform/postgres"
	"github.com/bookvault/api/internal/platform/validate"
)

// Intake field bounds.
const (
	maxTitleLen       = 100
	maxPublisherLen   = 100
	maxDescriptionLen = 10000
	maxGoogleIDLen    = 100
)

// MetadataLookup is the slice of the metadata client the service depends on.
type MetadataLookup interface {
	LookupByISBN13(ctx context.Context, isbn string) (*metadata.Volume, error)
}

// Service orchestrates the catalog and the intake workflow.
type Service struct {
	books    Repository
	authors  author.Repository
	recorder *audit.Recorder
	lookup   MetadataLookup
	cache    metadata.Cache
	pipeline *content.Pipeline
	logger   *slog.Logger
}

// NewService constructs the book service.
func NewService(
	books Repository,
	authors author.Repository,
	recorder *audit.Recorder,
	lookup MetadataLookup,
	cache metadata.Cache,
	pipeline *content.Pipeline,
	logger *slog.Logger,
) *Service {
	return &Service{
		books:    books,
		authors:  authors,
		recorder: recorder,
		lookup:   lookup,
		cache:    cache,
		pipeline: pipeline,
		logger:   logger,
	}
}

// # Lookup Stage

// Lookup resolves an ISBN to a reviewed-intake prefill.
//
// It fails fast with DUPLICATE_ISBN when the book is already cataloged,
// before spending an external call. A nil result with a nil error means the
// ISBN is not indexed upstream; callers surface "not found", not an error.
func (s *Service) Lookup(ctx context.Context, isbn string) (*LookupResult, error) {
	isbn = strings.TrimSpace(isbn)
	if err := validate.New().Digits("isbn13", isbn, 13).Err(); err != nil {
		return nil, err
	}

	exists, err := s.books.ExistsByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.DuplicateISBN()
	}

	volume, err := s.cachedLookup(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if volume == nil {
		return nil, nil
	}

	// Externally-sourced HTML is stripped and stored as Markdown; it is
	// re-rendered to HTML only at display time.
	description, err := s.pipeline.HTMLToMarkdown(volume.Description)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return newLookupResult(volume, strings.TrimSpace(description)), nil
}

// cachedLookup consults the ISBN cache before going upstream. Cache failures
// degrade to the upstream call rather than failing the lookup.
func (s *Service) cachedLookup(ctx context.Context, isbn string) (*metadata.Volume, error) {
	if volume, hit, err := s.cache.Get(ctx, isbn); err == nil && hit {
		return volume, nil
	}

	volume, err := s.lookup.LookupByISBN13(ctx, isbn)
	if err != nil {
		return nil, err
	}

	if volume != nil {
		_ = s.cache.Set(ctx, isbn, volume)
	}

	return volume, nil
}

// # Commit Stage

// validateCommit checks the reviewed intake fields.
func validateCommit(input *CommitInput) error {
	input.ISBN13 = strings.TrimSpace(input.ISBN13)
	input.Title = strings.TrimSpace(input.Title)
	input.Publisher = strings.TrimSpace(input.Publisher)
	input.PublishedDate = strings.TrimSpace(input.PublishedDate)
	input.GoogleBooksID = strings.TrimSpace(input.GoogleBooksID)

	return validate.New().
		Digits("isbn13", input.ISBN13, 13).
		Required("title", input.Title).
		MaxLen("title", input.Title, maxTitleLen).
		Required("publisher", input.Publisher).
		MaxLen("publisher", input.Publisher, maxPublisherLen).
		Date("publishedDate", input.PublishedDate).
		Required("description", input.Description).
		MaxLen("description", input.Description, maxDescriptionLen).
		MaxLen("googleBooksId", input.GoogleBooksID, maxGoogleIDLen).
		Err()
}

// Create commits a new catalog entry.
//
// The book row, the author upserts and associations, and the audit entry all
// run in one transaction; any failure aborts the whole commit.
func (s *Service) Create(ctx context.Context, actorID int64, input CommitInput) (Book, error) {
	if err := validateCommit(&input); err != nil {
		return Book{}, err
	}

	exists, err := s.books.ExistsByISBN(ctx, input.ISBN13)
	if err != nil {
		return Book{}, err
	}
	if exists {
		return Book{}, apperr.DuplicateISBN()
	}

	names := author.SplitNames(input.Authors)

	var created Book
	err = s.books.InTx(ctx, func(db postgres.DBTX) error {
		book, err := s.books.Insert(ctx, db, input)
		if err != nil {
			return err
		}

		authors, err := s.associateAuthors(ctx, db, book.ID, names)
		if err != nil {
			return err
		}
		book.Authors = authors

		detail := audit.Detail{
			Entity:   "book",
			Action:   audit.ActionCreate,
			TargetID: book.ID,
			Data: map[string]any{
				"isbn13": book.ISBN13,
				"title":  book.Title,
			},
		}
		if err := s.recorder.Record(ctx, db, actorID, "create_book", detail); err != nil {
			return err
		}

		created = book
		return nil
	})
	if err != nil {
		return Book{}, err
	}

	s.logger.InfoContext(ctx, "book_created",
		slog.Int64("book_id", created.ID),
		slog.String("isbn13", created.ISBN13),
	)

	return created, nil
}

// Update commits changes to an existing catalog entry.
func (s *Service) Update(ctx context.Context, actorID int64, id int64, input CommitInput) (Book, error) {
	if err := validateCommit(&input); err != nil {
		return Book{}, err
	}

	names := author.SplitNames(input.Authors)

	var updated Book
	err := s.books.InTx(ctx, func(db postgres.DBTX) error {
		before, err := s.books.GetForUpdate(ctx, db, id)
		if err != nil {
			return err
		}

		book, err := s.books.Update(ctx, db, id, input)
		if err != nil {
			return err
		}

		authors, err := s.associateAuthors(ctx, db, book.ID, names)
		if err != nil {
			return err
		}
		book.Authors = authors

		detail := audit.Detail{
			Entity:   "book",
			Action:   audit.ActionUpdate,
			TargetID: book.ID,
			Changes: &audit.Changes{
				Before: map[string]any{
					"isbn13":    before.ISBN13,
					"title":     before.Title,
					"publisher": before.Publisher,
				},
				After: map[string]any{
					"isbn13":    book.ISBN13,
					"title":     book.Title,
					"publisher": book.Publisher,
				},
			},
		}
		if err := s.recorder.Record(ctx, db, actorID, "update_book", detail); err != nil {
			return err
		}

		updated = book
		return nil
	})
	if err != nil {
		return Book{}, err
	}

	return updated, nil
}

// associateAuthors upserts each normalized name and rewrites the book's
// associations to match.
func (s *Service) associateAuthors(ctx context.Context, db postgres.DBTX, bookID int64, names []string) ([]author.Author, error) {
	authors := make([]author.Author, 0, len(names))
	ids := make([]int64, 0, len(names))

	for _, name := range names {
		a, err := s.authors.Upsert(ctx, db, name)
		if err != nil {
			return nil, err
		}
		authors = append(authors, a)
		ids = append(ids, a.ID)
	}

	if err := s.authors.ReplaceForBook(ctx, db, bookID, ids); err != nil {
		return nil, err
	}

	return authors, nil
}

// # Reads

// Get returns one catalog entry with its description rendered to safe HTML.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	book, err := s.books.Get(ctx, id)
	if err != nil {
		return Book{}, err
	}

	rendered, err := s.pipeline.MarkdownToHTML(book.Description)
	if err != nil {
		return Book{}, apperr.Internal(err)
	}
	book.DescriptionHTML = s.pipeline.SanitizeHTML(rendered)
	book.CoverURL = metadata.CoverURL(book.GoogleBooksID)

	return book, nil
}

// List returns a catalog page, optionally narrowed by a title search.
func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]Book, int, error) {
	books, total, err := s.books.List(ctx, strings.TrimSpace(search), limit, offset)
	if err != nil {
		return nil, 0, err
	}

	for i := range books {
		books[i].CoverURL = metadata.CoverURL(books[i].GoogleBooksID)
	}

	return books, total, nil
}
