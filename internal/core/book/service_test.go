// Copyright (c) 2026 BookVault. All rights reserved.

package book

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookvault/api/internal/audit"
	"github.com/bookvault/api/internal/content"
	"github.com/bookvault/api/internal/core/author"
	"github.com/bookvault/api/internal/metadata"
	"github.com/bookvault/api/internal/platform/apperr"
	"github.com/bookvault/api/internal/platform/postgres"
)

// # Test doubles

// fakeDB satisfies postgres.DBTX for code paths that only Exec (the audit
// recorder inside the commit transaction).
type fakeDB struct {
	execs []string
}

func (db *fakeDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	db.execs = append(db.execs, sql)
	return pgconn.CommandTag{}, nil
}

func (db *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("fakeDB: Query not supported")
}

func (db *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{}
}

type errRow struct{}

func (errRow) Scan(...any) error { return errors.New("fakeDB: QueryRow not supported") }

// fakeBookRepo is an in-memory book Repository.
type fakeBookRepo struct {
	db        fakeDB
	byISBN    map[string]Book
	byID      map[int64]Book
	nextID    int64
	inserted  int
	insertErr error
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{byISBN: map[string]Book{}, byID: map[int64]Book{}, nextID: 1}
}

func (r *fakeBookRepo) InTx(ctx context.Context, fn func(db postgres.DBTX) error) error {
	return fn(&r.db)
}

func (r *fakeBookRepo) ExistsByISBN(_ context.Context, isbn string) (bool, error) {
	_, ok := r.byISBN[isbn]
	return ok, nil
}

func (r *fakeBookRepo) Insert(_ context.Context, _ postgres.DBTX, input CommitInput) (Book, error) {
	if r.insertErr != nil {
		return Book{}, r.insertErr
	}
	if _, dup := r.byISBN[input.ISBN13]; dup {
		return Book{}, apperr.DuplicateISBN()
	}

	book := Book{
		ID:            r.nextID,
		GoogleBooksID: input.GoogleBooksID,
		ISBN13:        input.ISBN13,
		Title:         input.Title,
		Publisher:     input.Publisher,
		PublishedDate: input.PublishedDate,
		Description:   input.Description,
	}
	r.nextID++
	r.byISBN[book.ISBN13] = book
	r.byID[book.ID] = book
	r.inserted++
	return book, nil
}

func (r *fakeBookRepo) Update(_ context.Context, _ postgres.DBTX, id int64, input CommitInput) (Book, error) {
	book, ok := r.byID[id]
	if !ok {
		return Book{}, apperr.NotFound("Book")
	}
	delete(r.byISBN, book.ISBN13)

	book.GoogleBooksID = input.GoogleBooksID
	book.ISBN13 = input.ISBN13
	book.Title = input.Title
	book.Publisher = input.Publisher
	book.PublishedDate = input.PublishedDate
	book.Description = input.Description

	r.byID[id] = book
	r.byISBN[book.ISBN13] = book
	return book, nil
}

func (r *fakeBookRepo) GetForUpdate(_ context.Context, _ postgres.DBTX, id int64) (Book, error) {
	book, ok := r.byID[id]
	if !ok {
		return Book{}, apperr.NotFound("Book")
	}
	return book, nil
}

func (r *fakeBookRepo) Get(_ context.Context, id int64) (Book, error) {
	book, ok := r.byID[id]
	if !ok {
		return Book{}, apperr.NotFound("Book")
	}
	return book, nil
}

func (r *fakeBookRepo) List(_ context.Context, search string, limit, offset int) ([]Book, int, error) {
	books := make([]Book, 0, len(r.byID))
	for _, book := range r.byID {
		if search == "" || strings.Contains(strings.ToLower(book.Title), strings.ToLower(search)) {
			books = append(books, book)
		}
	}
	return books, len(books), nil
}

// fakeAuthorRepo is an in-memory author.Repository with name-keyed identity.
type fakeAuthorRepo struct {
	byName       map[string]author.Author
	nextID       int64
	associations map[int64][]int64
}

func newFakeAuthorRepo() *fakeAuthorRepo {
	return &fakeAuthorRepo{byName: map[string]author.Author{}, nextID: 1, associations: map[int64][]int64{}}
}

func (r *fakeAuthorRepo) Upsert(_ context.Context, _ postgres.DBTX, name string) (author.Author, error) {
	if existing, ok := r.byName[name]; ok {
		return existing, nil
	}
	created := author.Author{ID: r.nextID, Name: name}
	r.nextID++
	r.byName[name] = created
	return created, nil
}

func (r *fakeAuthorRepo) ReplaceForBook(_ context.Context, _ postgres.DBTX, bookID int64, authorIDs []int64) error {
	r.associations[bookID] = authorIDs
	return nil
}

func (r *fakeAuthorRepo) ListByBook(_ context.Context, _ postgres.DBTX, bookID int64) ([]author.Author, error) {
	var authors []author.Author
	for _, id := range r.associations[bookID] {
		for _, a := range r.byName {
			if a.ID == id {
				authors = append(authors, a)
			}
		}
	}
	return authors, nil
}

// fakeLookup returns a canned volume or error.
type fakeLookup struct {
	volume *metadata.Volume
	err    error
	calls  int
}

func (l *fakeLookup) LookupByISBN13(context.Context, string) (*metadata.Volume, error) {
	l.calls++
	return l.volume, l.err
}

// fakeCache is an in-memory metadata.Cache.
type fakeCache struct {
	entries map[string]*metadata.Volume
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*metadata.Volume{}}
}

func (c *fakeCache) Get(_ context.Context, isbn string) (*metadata.Volume, bool, error) {
	volume, ok := c.entries[isbn]
	return volume, ok, nil
}

func (c *fakeCache) Set(_ context.Context, isbn string, volume *metadata.Volume) error {
	c.entries[isbn] = volume
	return nil
}

func newTestService(books *fakeBookRepo, authors *fakeAuthorRepo, lookup *fakeLookup, cache metadata.Cache) *Service {
	return NewService(
		books,
		authors,
		audit.NewRecorder(),
		lookup,
		cache,
		content.NewPipeline(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

var kernighanRitchie = &metadata.Volume{
	GoogleID:      "abc123",
	ISBN13:        "9780134190440",
	Title:         "The C Programming Language",
	Authors:       []string{"Brian W. Kernighan", "Dennis M. Ritchie"},
	Publisher:     "Prentice Hall",
	PublishedDate: "1988-04-01",
	Description:   "<p>A classic.</p>",
}

// # Lookup stage

func TestLookup_SanitizesDescription(t *testing.T) {
	service := newTestService(newFakeBookRepo(), newFakeAuthorRepo(), &fakeLookup{volume: kernighanRitchie}, newFakeCache())

	result, err := service.Lookup(context.Background(), "9780134190440")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "abc123", result.GoogleBooksID)
	assert.Equal(t, "A classic.", result.Description)
	assert.Equal(t, []string{"Brian W. Kernighan", "Dennis M. Ritchie"}, result.Authors)
	assert.Contains(t, result.CoverURL, "id=abc123")
}

func TestLookup_DuplicateISBNFailsBeforeUpstream(t *testing.T) {
	books := newFakeBookRepo()
	books.byISBN["9780134190440"] = Book{ID: 1, ISBN13: "9780134190440"}
	lookup := &fakeLookup{volume: kernighanRitchie}
	service := newTestService(books, newFakeAuthorRepo(), lookup, newFakeCache())

	_, err := service.Lookup(context.Background(), "9780134190440")
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_ISBN", apperr.As(err).Code)
	assert.Zero(t, lookup.calls)
}

func TestLookup_NotIndexedReturnsNil(t *testing.T) {
	service := newTestService(newFakeBookRepo(), newFakeAuthorRepo(), &fakeLookup{}, newFakeCache())

	result, err := service.Lookup(context.Background(), "9780134190440")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestLookup_UpstreamErrorPropagates(t *testing.T) {
	lookup := &fakeLookup{err: apperr.Upstream("Book metadata service returned status 500")}
	service := newTestService(newFakeBookRepo(), newFakeAuthorRepo(), lookup, newFakeCache())

	_, err := service.Lookup(context.Background(), "9780134190440")
	require.Error(t, err)
	assert.Equal(t, "UPSTREAM_ERROR", apperr.As(err).Code)
}

func TestLookup_InvalidISBN(t *testing.T) {
	service := newTestService(newFakeBookRepo(), newFakeAuthorRepo(), &fakeLookup{}, newFakeCache())

	for _, isbn := range []string{"123", "978013419044X", "97801341904401"} {
		_, err := service.Lookup(context.Background(), isbn)
		require.Error(t, err, isbn)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	}
}

func TestLookup_CacheHitSkipsUpstream(t *testing.T) {
	lookup := &fakeLookup{volume: kernighanRitchie}
	cache := newFakeCache()
	service := newTestService(newFakeBookRepo(), newFakeAuthorRepo(), lookup, cache)

	_, err := service.Lookup(context.Background(), "9780134190440")
	require.NoError(t, err)
	assert.Equal(t, 1, lookup.calls)

	_, err = service.Lookup(context.Background(), "9780134190440")
	require.NoError(t, err)
	assert.Equal(t, 1, lookup.calls, "second lookup should be served from cache")
}

// # Commit stage

func validInput() CommitInput {
	return CommitInput{
		GoogleBooksID: "abc123",
		ISBN13:        "9780134190440",
		Title:         "The C Programming Language",
		Publisher:     "Prentice Hall",
		PublishedDate: "1988-04-01",
		Description:   "A classic.",
		Authors:       "Brian W. Kernighan, Dennis M. Ritchie",
	}
}

func TestCreate_FullIntake(t *testing.T) {
	books := newFakeBookRepo()
	authors := newFakeAuthorRepo()
	service := newTestService(books, authors, &fakeLookup{}, newFakeCache())

	created, err := service.Create(context.Background(), 1, validInput())
	require.NoError(t, err)

	assert.Equal(t, 1, books.inserted)
	assert.Len(t, authors.byName, 2)
	assert.Len(t, authors.associations[created.ID], 2)
	require.Len(t, books.db.execs, 1, "exactly one audit insert inside the transaction")
	assert.Contains(t, books.db.execs[0], "system.auditlog")
}

func TestCreate_DuplicateISBN(t *testing.T) {
	books := newFakeBookRepo()
	service := newTestService(books, newFakeAuthorRepo(), &fakeLookup{}, newFakeCache())

	_, err := service.Create(context.Background(), 1, validInput())
	require.NoError(t, err)

	_, err = service.Create(context.Background(), 1, validInput())
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_ISBN", apperr.As(err).Code)
	assert.Equal(t, 1, books.inserted)
}

func TestCreate_RacedUniqueViolation(t *testing.T) {
	// A concurrent intake that lands between the pre-check and the insert
	// must surface the same duplicate conflict as the pre-check itself.
	books := newFakeBookRepo()
	books.insertErr = apperr.DuplicateISBN()
	service := newTestService(books, newFakeAuthorRepo(), &fakeLookup{}, newFakeCache())

	_, err := service.Create(context.Background(), 1, validInput())
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_ISBN", apperr.As(err).Code)
}

func TestCreate_ReusesExistingAuthors(t *testing.T) {
	books := newFakeBookRepo()
	authors := newFakeAuthorRepo()
	service := newTestService(books, authors, &fakeLookup{}, newFakeCache())

	_, err := service.Create(context.Background(), 1, validInput())
	require.NoError(t, err)

	second := validInput()
	second.ISBN13 = "9780131103627"
	second.Title = "The Practice of Programming"
	second.Authors = "Brian W. Kernighan, Rob Pike"

	_, err = service.Create(context.Background(), 1, second)
	require.NoError(t, err)

	// Kernighan appears in both lists but must exist exactly once.
	assert.Len(t, authors.byName, 3)
}

func TestCreate_ValidationFailures(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*CommitInput)
		field  string
	}{
		{name: "short isbn", mutate: func(i *CommitInput) { i.ISBN13 = "12345" }, field: "isbn13"},
		{name: "empty title", mutate: func(i *CommitInput) { i.Title = "" }, field: "title"},
		{name: "empty publisher", mutate: func(i *CommitInput) { i.Publisher = "" }, field: "publisher"},
		{name: "bad date", mutate: func(i *CommitInput) { i.PublishedDate = "1988/04/01" }, field: "publishedDate"},
		{name: "impossible date", mutate: func(i *CommitInput) { i.PublishedDate = "1988-13-40" }, field: "publishedDate"},
		{name: "empty description", mutate: func(i *CommitInput) { i.Description = "" }, field: "description"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			books := newFakeBookRepo()
			service := newTestService(books, newFakeAuthorRepo(), &fakeLookup{}, newFakeCache())

			input := validInput()
			testCase.mutate(&input)

			_, err := service.Create(context.Background(), 1, input)
			require.Error(t, err)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "VALIDATION_ERROR", appError.Code)

			found := false
			for _, detail := range appError.Details {
				if detail.Field == testCase.field {
					found = true
				}
			}
			assert.True(t, found, "expected a field error for %q", testCase.field)
			assert.Zero(t, books.inserted, "validation failure must not write")
		})
	}
}

func TestUpdate_RecordsAudit(t *testing.T) {
	books := newFakeBookRepo()
	authors := newFakeAuthorRepo()
	service := newTestService(books, authors, &fakeLookup{}, newFakeCache())

	created, err := service.Create(context.Background(), 1, validInput())
	require.NoError(t, err)

	input := validInput()
	input.Title = "The C Programming Language, 2nd Edition"

	updated, err := service.Update(context.Background(), 1, created.ID, input)
	require.NoError(t, err)

	assert.Equal(t, "The C Programming Language, 2nd Edition", updated.Title)
	assert.Len(t, books.db.execs, 2, "one audit insert per mutation")
}

// # Reads

func TestList_TitleSearch(t *testing.T) {
	books := newFakeBookRepo()
	books.byID[1] = Book{ID: 1, Title: "The C Programming Language"}
	books.byID[2] = Book{ID: 2, Title: "The Go Programming Language"}
	books.byID[3] = Book{ID: 3, Title: "Structure and Interpretation of Computer Programs"}
	service := newTestService(books, newFakeAuthorRepo(), &fakeLookup{}, newFakeCache())

	results, total, err := service.List(context.Background(), "programming language", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, results, 2)
}

func TestGet_RendersSafeHTML(t *testing.T) {
	books := newFakeBookRepo()
	books.byID[1] = Book{ID: 1, GoogleBooksID: "abc123", Description: "A **classic** reference."}
	service := newTestService(books, newFakeAuthorRepo(), &fakeLookup{}, newFakeCache())

	book, err := service.Get(context.Background(), 1)
	require.NoError(t, err)

	assert.Contains(t, book.DescriptionHTML, "<strong>classic</strong>")
	assert.Contains(t, book.CoverURL, "id=abc123")
}
