// Copyright (c) 2026 BookVault. All rights reserved.

// Package author manages the shared author catalog.
//
// Authors are identified by name equality, not object identity. Repeated
// intake of the same name must resolve to one row, so all writes go through
// an atomic upsert against the unique name constraint.
package author

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/bookvault/api/pkg/query"
)

// Author is one row of the shared author catalog.
type Author struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// NormalizeName canonicalizes an author name for identity comparison.
//
// It applies Unicode NFKC normalization, trims surrounding whitespace, and
// collapses internal runs of whitespace. Two names that normalize equally are
// the same author.
func NormalizeName(name string) string {
	normalized := norm.NFKC.String(name)
	return strings.Join(strings.Fields(normalized), " ")
}

// SplitNames parses a free-text, comma-separated author list into normalized
// names, dropping empties and duplicates while preserving order.
func SplitNames(raw string) []string {
	parts := query.StringSlice(raw)
	names := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	for _, part := range parts {
		name := NormalizeName(part)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names
}
