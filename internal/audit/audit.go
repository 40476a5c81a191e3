// Copyright (c) 2026 BookVault. All rights reserved.

/*
Package audit records structured entries for every mutating admin action.

The detail payload is validated against a fixed shape at the recorder
boundary. Call sites never hand-construct ad hoc shapes, and a payload that
fails validation aborts the enclosing mutation — audit writes are a required
side-record, not best-effort telemetry.
*/
package audit

import (
	"fmt"
	"time"
)

// Action is the kind of mutation being recorded.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Changes captures a before/after snapshot for update actions.
type Changes struct {
	Before map[string]any `json:"before"`
	After  map[string]any `json:"after"`
}

// Detail is the structured payload attached to every audit entry.
//
// Entity and Action are required. TargetID, Data, and Changes are optional
// and depend on the action kind.
type Detail struct {
	Entity   string         `json:"entity"`
	Action   Action         `json:"action"`
	TargetID int64          `json:"targetId,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Changes  *Changes       `json:"changes,omitempty"`
}

// Validate checks the detail against the audit schema.
func (d Detail) Validate() error {
	if d.Entity == "" {
		return fmt.Errorf("audit: detail entity is required")
	}

	switch d.Action {
	case ActionCreate, ActionUpdate, ActionDelete:
	default:
		return fmt.Errorf("audit: detail action %q is not one of create, update, delete", d.Action)
	}

	if d.TargetID < 0 {
		return fmt.Errorf("audit: detail target id must not be negative")
	}

	if d.Changes != nil && (d.Changes.Before == nil || d.Changes.After == nil) {
		return fmt.Errorf("audit: detail changes require both before and after snapshots")
	}

	return nil
}

// Entry is one persisted audit record.
type Entry struct {
	ID         int64     `json:"id"`
	ActorID    int64     `json:"actorId"`
	ActionType string    `json:"actionType"`
	Detail     Detail    `json:"detail"`
	CreatedAt  time.Time `json:"createdAt"`
}
