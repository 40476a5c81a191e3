// Copyright (c) 2026 BookVault. All rights reserved.

package copy

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bookvault/api/internal/audit"
	"github.com/bookvault/api/internal/platform/apperr"
	"github.com/bookvault/api/internal/platform/postgres"
	"github.com/bookvault/api/internal/platform/validate"
)

// Service implements copy management for admins.
type Service struct {
	copies   Repository
	recorder *audit.Recorder
	logger   *slog.Logger
}

// NewService constructs the copy service.
func NewService(copies Repository, recorder *audit.Recorder, logger *slog.Logger) *Service {
	return &Service{copies: copies, recorder: recorder, logger: logger}
}

// ListByBook returns the copies of one book.
func (s *Service) ListByBook(ctx context.Context, bookID int64) ([]Copy, error) {
	exists, err := s.copies.BookExists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("Book")
	}

	return s.copies.ListByBook(ctx, bookID)
}

// Create registers a new copy of a cataloged book.
func (s *Service) Create(ctx context.Context, actorID, bookID int64, input CreateInput) (Copy, error) {
	input.AcquiredAt = strings.TrimSpace(input.AcquiredAt)
	if err := validate.New().Date("acquiredAt", input.AcquiredAt).Err(); err != nil {
		return Copy{}, err
	}
	acquiredAt, _ := time.Parse("2006-01-02", input.AcquiredAt)

	exists, err := s.copies.BookExists(ctx, bookID)
	if err != nil {
		return Copy{}, err
	}
	if !exists {
		return Copy{}, apperr.NotFound("Book")
	}

	var created Copy
	err = s.copies.InTx(ctx, func(db postgres.DBTX) error {
		c, err := s.copies.Insert(ctx, db, bookID, acquiredAt)
		if err != nil {
			return err
		}

		detail := audit.Detail{
			Entity:   "bookcopy",
			Action:   audit.ActionCreate,
			TargetID: c.ID,
			Data: map[string]any{
				"bookId":     c.BookID,
				"acquiredAt": input.AcquiredAt,
			},
		}
		if err := s.recorder.Record(ctx, db, actorID, "create_copy", detail); err != nil {
			return err
		}

		created = c
		return nil
	})
	if err != nil {
		return Copy{}, err
	}

	return created, nil
}

// Update rewrites a copy's acquisition and discard dates. Setting a discard
// date retires the copy softly; clearing it returns the copy to circulation.
func (s *Service) Update(ctx context.Context, actorID, copyID int64, input UpdateInput) (Copy, error) {
	input.AcquiredAt = strings.TrimSpace(input.AcquiredAt)
	input.DiscardedAt = strings.TrimSpace(input.DiscardedAt)

	validator := validate.New().Date("acquiredAt", input.AcquiredAt)
	if input.DiscardedAt != "" {
		validator.Date("discardedAt", input.DiscardedAt)
	}
	if err := validator.Err(); err != nil {
		return Copy{}, err
	}

	acquiredAt, _ := time.Parse("2006-01-02", input.AcquiredAt)
	var discardedAt *time.Time
	if input.DiscardedAt != "" {
		parsed, _ := time.Parse("2006-01-02", input.DiscardedAt)
		discardedAt = &parsed
	}

	existing, err := s.copies.Get(ctx, copyID)
	if err != nil {
		return Copy{}, err
	}

	var updated Copy
	err = s.copies.InTx(ctx, func(db postgres.DBTX) error {
		c, err := s.copies.Update(ctx, db, copyID, acquiredAt, discardedAt)
		if err != nil {
			return err
		}

		detail := audit.Detail{
			Entity:   "bookcopy",
			Action:   audit.ActionUpdate,
			TargetID: c.ID,
			Changes: &audit.Changes{
				Before: copySnapshot(existing.AcquiredAt, existing.DiscardedAt),
				After:  copySnapshot(c.AcquiredAt, c.DiscardedAt),
			},
		}
		if err := s.recorder.Record(ctx, db, actorID, "update_copy", detail); err != nil {
			return err
		}

		updated = c
		return nil
	})
	if err != nil {
		return Copy{}, err
	}

	return updated, nil
}

// copySnapshot renders the audited date fields; a nil discard date stays nil
// so "active" is distinguishable from any real date.
func copySnapshot(acquiredAt time.Time, discardedAt *time.Time) map[string]any {
	snapshot := map[string]any{
		"acquiredAt":  acquiredAt.Format("2006-01-02"),
		"discardedAt": nil,
	}
	if discardedAt != nil {
		snapshot["discardedAt"] = discardedAt.Format("2006-01-02")
	}
	return snapshot
}

// Delete removes a copy row entirely. Reserved for rows created by mistake;
// normal retirement goes through [Service.Discard].
func (s *Service) Delete(ctx context.Context, actorID, copyID int64) error {
	existing, err := s.copies.Get(ctx, copyID)
	if err != nil {
		return err
	}

	return s.copies.InTx(ctx, func(db postgres.DBTX) error {
		if err := s.copies.Delete(ctx, db, copyID); err != nil {
			return err
		}

		detail := audit.Detail{
			Entity:   "bookcopy",
			Action:   audit.ActionDelete,
			TargetID: existing.ID,
			Data: map[string]any{
				"bookId": existing.BookID,
			},
		}
		return s.recorder.Record(ctx, db, actorID, "delete_copy", detail)
	})
}
