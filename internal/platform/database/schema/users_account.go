// Copyright (c) 2026 BookVault. All rights reserved.

package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Email       string
	DisplayName string
	Role        string
	CreatedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Email:       "email",
	DisplayName: "displayname",
	Role:        "role",
	CreatedAt:   "createdat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Email, t.DisplayName, t.Role, t.CreatedAt}
}
