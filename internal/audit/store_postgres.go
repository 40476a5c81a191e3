// Copyright (c) 2026 BookVault. All rights reserved.

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bookvault/api/internal/platform/apperr"
	"github.com/bookvault/api/internal/platform/database/schema"
	"github.com/bookvault/api/internal/platform/dberr"
	"github.com/bookvault/api/internal/platform/postgres"
)

// Recorder validates and persists audit entries.
//
// Record takes a [postgres.DBTX] so callers can pass the transaction that
// carries the mutation being audited; the entry then commits or aborts
// together with the mutation itself.
type Recorder struct{}

// NewRecorder constructs a Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record validates the detail and inserts one audit row.
//
// A detail that fails validation returns INVALID_AUDIT_DETAIL and must abort
// the enclosing operation.
func (r *Recorder) Record(ctx context.Context, db postgres.DBTX, actorID int64, actionType string, detail Detail) error {
	if err := detail.Validate(); err != nil {
		return apperr.InvalidAuditDetail(err)
	}

	payload, err := json.Marshal(detail)
	if err != nil {
		return apperr.InvalidAuditDetail(err)
	}

	table := schema.SystemAuditLog
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)`,
		table.Table, table.ActorID, table.ActionType, table.Detail, table.CreatedAt,
	)

	if _, err := db.Exec(ctx, query, actorID, actionType, payload, time.Now().UTC()); err != nil {
		return dberr.Wrap(err, "insert audit entry")
	}

	return nil
}

// List returns the most recent entries, newest first.
func (r *Recorder) List(ctx context.Context, db postgres.DBTX, limit, offset int) ([]Entry, error) {
	table := schema.SystemAuditLog
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		ORDER BY %s DESC
		LIMIT $1 OFFSET $2`,
		table.ID, table.ActorID, table.ActionType, table.Detail, table.CreatedAt,
		table.Table,
		table.ID,
	)

	rows, err := db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, dberr.Wrap(err, "list audit entries")
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		var payload []byte

		if err := rows.Scan(&entry.ID, &entry.ActorID, &entry.ActionType, &payload, &entry.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan audit entry")
		}
		if err := json.Unmarshal(payload, &entry.Detail); err != nil {
			return nil, apperr.Internal(err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate audit entries")
	}

	return entries, nil
}
