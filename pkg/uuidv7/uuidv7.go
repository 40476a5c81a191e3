// Copyright (c) 2026 BookVault. All rights reserved.

// Package uuidv7 wraps google/uuid to generate time-ordered UUIDv7 values.
//
// Request correlation IDs use v7 so that log lines sort naturally by time
// even when aggregated across instances.
package uuidv7

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// It falls back to a random v4 value in the extremely unlikely case that the
// v7 generator fails; a correlation ID must never be empty.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}

	return id.String()
}
