// Copyright (c) 2026 BookVault. All rights reserved.

package schema

// CoreAuthorTable represents the 'core.author' table
type CoreAuthorTable struct {
	Table     string
	ID        string
	Name      string
	CreatedAt string
}

// CoreAuthor is the schema definition for core.author
var CoreAuthor = CoreAuthorTable{
	Table:     "core.author",
	ID:        "id",
	Name:      "name",
	CreatedAt: "createdat",
}

func (t CoreAuthorTable) Columns() []string {
	return []string{t.ID, t.Name, t.CreatedAt}
}
