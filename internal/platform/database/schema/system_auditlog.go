// Copyright (c) 2026 BookVault. All rights reserved.

package schema

// SystemAuditLogTable represents the 'system.auditlog' table
type SystemAuditLogTable struct {
	Table      string
	ID         string
	ActorID    string
	ActionType string
	Detail     string
	CreatedAt  string
}

var SystemAuditLog = SystemAuditLogTable{
	Table:      "system.auditlog",
	ID:         "id",
	ActorID:    "actorid",
	ActionType: "actiontype",
	Detail:     "detail",
	CreatedAt:  "createdat",
}
