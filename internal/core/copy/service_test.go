// Copyright (c) 2026 BookVault. All rights reserved.

package copy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookvault/api/internal/audit"
	"github.com/bookvault/api/internal/platform/apperr"
	"github.com/bookvault/api/internal/platform/dberr"
	"github.com/bookvault/api/internal/platform/postgres"
)

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

type fakeCopyRepo struct {
	db     fakeDB
	books  map[int64]bool
	copies map[int64]Copy
	nextID int64
}

func newFakeCopyRepo(bookIDs ...int64) *fakeCopyRepo {
	repo := &fakeCopyRepo{books: map[int64]bool{}, copies: map[int64]Copy{}, nextID: 1}
	for _, id := range bookIDs {
		repo.books[id] = true
	}
	return repo
}

func (r *fakeCopyRepo) InTx(ctx context.Context, fn func(db postgres.DBTX) error) error {
	return fn(&r.db)
}

func (r *fakeCopyRepo) ListByBook(_ context.Context, bookID int64) ([]Copy, error) {
	var copies []Copy
	for _, c := range r.copies {
		if c.BookID == bookID {
			copies = append(copies, c)
		}
	}
	return copies, nil
}

func (r *fakeCopyRepo) Get(_ context.Context, id int64) (Copy, error) {
	if c, ok := r.copies[id]; ok {
		return c, nil
	}
	return Copy{}, dberr.ErrNotFound
}

func (r *fakeCopyRepo) BookExists(_ context.Context, bookID int64) (bool, error) {
	return r.books[bookID], nil
}

func (r *fakeCopyRepo) Insert(_ context.Context, _ postgres.DBTX, bookID int64, acquiredAt time.Time) (Copy, error) {
	c := Copy{ID: r.nextID, BookID: bookID, AcquiredAt: acquiredAt, CreatedAt: time.Now()}
	r.nextID++
	r.copies[c.ID] = c
	return c, nil
}

func (r *fakeCopyRepo) Update(_ context.Context, _ postgres.DBTX, id int64, acquiredAt time.Time, discardedAt *time.Time) (Copy, error) {
	c, ok := r.copies[id]
	if !ok {
		return Copy{}, dberr.ErrNotFound
	}
	c.AcquiredAt = acquiredAt
	c.DiscardedAt = discardedAt
	r.copies[id] = c
	return c, nil
}

func (r *fakeCopyRepo) Delete(_ context.Context, _ postgres.DBTX, id int64) error {
	if _, ok := r.copies[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(r.copies, id)
	return nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, audit.NewRecorder(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreate(t *testing.T) {
	t.Run("registers copy and audits", func(t *testing.T) {
		repo := newFakeCopyRepo(1)
		service := newTestService(repo)

		created, err := service.Create(context.Background(), 1, 1, CreateInput{AcquiredAt: "2026-08-01"})
		require.NoError(t, err)

		assert.True(t, created.Active())
		assert.Len(t, repo.copies, 1)
		require.Len(t, repo.db.execs, 1)
		assert.Contains(t, repo.db.execs[0], "system.auditlog")
	})

	t.Run("unknown book fails with 404", func(t *testing.T) {
		service := newTestService(newFakeCopyRepo())

		_, err := service.Create(context.Background(), 1, 99, CreateInput{AcquiredAt: "2026-08-01"})
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("invalid date fails validation", func(t *testing.T) {
		service := newTestService(newFakeCopyRepo(1))

		_, err := service.Create(context.Background(), 1, 1, CreateInput{AcquiredAt: "08/01/2026"})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("discards by setting the discard date", func(t *testing.T) {
		repo := newFakeCopyRepo(1)
		service := newTestService(repo)

		created, err := service.Create(context.Background(), 1, 1, CreateInput{AcquiredAt: "2026-08-01"})
		require.NoError(t, err)

		updated, err := service.Update(context.Background(), 1, created.ID, UpdateInput{
			AcquiredAt:  "2026-08-01",
			DiscardedAt: "2026-08-20",
		})
		require.NoError(t, err)

		require.NotNil(t, updated.DiscardedAt)
		assert.False(t, updated.Active())
		assert.Equal(t, "2026-08-20", updated.DiscardedAt.Format("2006-01-02"))
		assert.Len(t, repo.db.execs, 2, "one audit insert per mutation")
	})

	t.Run("clearing the discard date reactivates the copy", func(t *testing.T) {
		repo := newFakeCopyRepo(1)
		service := newTestService(repo)

		created, err := service.Create(context.Background(), 1, 1, CreateInput{AcquiredAt: "2026-08-01"})
		require.NoError(t, err)

		_, err = service.Update(context.Background(), 1, created.ID, UpdateInput{
			AcquiredAt:  "2026-08-01",
			DiscardedAt: "2026-08-20",
		})
		require.NoError(t, err)

		restored, err := service.Update(context.Background(), 1, created.ID, UpdateInput{
			AcquiredAt: "2026-08-01",
		})
		require.NoError(t, err)
		assert.True(t, restored.Active())
	})

	t.Run("unknown copy fails with 404", func(t *testing.T) {
		service := newTestService(newFakeCopyRepo(1))

		_, err := service.Update(context.Background(), 1, 99, UpdateInput{AcquiredAt: "2026-08-01"})
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("invalid discard date fails validation", func(t *testing.T) {
		repo := newFakeCopyRepo(1)
		service := newTestService(repo)

		created, err := service.Create(context.Background(), 1, 1, CreateInput{AcquiredAt: "2026-08-01"})
		require.NoError(t, err)

		_, err = service.Update(context.Background(), 1, created.ID, UpdateInput{
			AcquiredAt:  "2026-08-01",
			DiscardedAt: "20/08/2026",
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

func TestDelete(t *testing.T) {
	repo := newFakeCopyRepo(1)
	service := newTestService(repo)

	created, err := service.Create(context.Background(), 1, 1, CreateInput{AcquiredAt: "2026-08-01"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), 1, created.ID))
	assert.Empty(t, repo.copies)

	err = service.Delete(context.Background(), 1, created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
