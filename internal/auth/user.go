// Copyright (c) 2026 BookVault. All rights reserved.

/*
Package auth implements the access gate and user-account domain.

The identity resolver (internal/platform/sec) only establishes WHO is
calling; this package decides whether that identity maps to a registered
account and what it may do. The gate never auto-provisions accounts — only
the profile flow does, as a distinct first-login bootstrap policy.
*/
package auth

import (
	"context"
	"time"

	"github.com/bookvault/api/internal/platform/ctxkey"
	"github.com/bookvault/api/internal/platform/sec"
)

// User is a registered account.
type User struct {
	ID          int64        `json:"id"`
	Email       string       `json:"email"`
	DisplayName string       `json:"displayName"`
	Role        sec.UserRole `json:"role"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role.AtLeast(sec.RoleAdmin)
}

// WithUser returns a new context carrying the authenticated user record.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, user)
}

// UserFrom retrieves the authenticated user from the context.
// Returns nil when the request did not pass through an access-gate middleware.
func UserFrom(ctx context.Context) *User {
	user, _ := ctx.Value(ctxkey.KeyUser).(*User)
	return user
}
