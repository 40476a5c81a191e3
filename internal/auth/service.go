// Copyright (c) 2026 BookVault. All rights reserved.

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bookvault/api/internal/platform/apperr"
	"github.com/bookvault/api/internal/platform/ctxutil"
	"github.com/bookvault/api/internal/platform/dberr"
	"github.com/bookvault/api/internal/platform/sec"
	"github.com/bookvault/api/internal/platform/validate"
)

// Service is the access gate and profile service.
type Service struct {
	users  UserRepository
	logger *slog.Logger
}

// NewService constructs the auth service.
func NewService(users UserRepository, logger *slog.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// # Access Gate

// Authenticate maps the resolved identity in ctx to a registered account.
//
// It fails with Unauthorized when no identity was resolved or when the
// identity has no account. It never provisions accounts; see [Service.Profile]
// for the first-login bootstrap policy.
func (s *Service) Authenticate(ctx context.Context) (*User, error) {
	email := ctxutil.GetIdentity(ctx)
	if email == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.Unauthorized("No account registered for this identity")
		}
		return nil, err
	}

	return user, nil
}

// AuthorizeAdmin authenticates and additionally requires the admin role.
func (s *Service) AuthorizeAdmin(ctx context.Context) (*User, error) {
	user, err := s.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	if !user.IsAdmin() {
		return nil, apperr.Forbidden("Administrator access required")
	}

	return user, nil
}

// # Profile

// Profile returns the account for the resolved identity, provisioning it on
// first access.
//
// This is the only code path that creates accounts from an identity. New
// accounts get the standard user role and a display name derived from the
// email local part.
func (s *Service) Profile(ctx context.Context) (*User, error) {
	email := ctxutil.GetIdentity(ctx)
	if email == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, dberr.ErrNotFound) {
		return nil, err
	}

	displayName := email
	if at := strings.Index(email, "@"); at > 0 {
		displayName = email[:at]
	}

	created, err := s.users.Create(ctx, email, displayName, string(sec.RoleUser))
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user_provisioned",
		slog.Int64("user_id", created.ID),
		slog.String("email", created.Email),
	)

	return created, nil
}

// UpdateProfileInput carries the editable profile fields.
type UpdateProfileInput struct {
	DisplayName string `json:"displayName"`
}

// UpdateProfile changes the caller's display name.
func (s *Service) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*User, error) {
	user, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}

	input.DisplayName = strings.TrimSpace(input.DisplayName)

	validator := validate.New().
		Required("displayName", input.DisplayName).
		MaxLen("displayName", input.DisplayName, 255)
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	return s.users.UpdateDisplayName(ctx, user.ID, input.DisplayName)
}

// # Administration

// ListUsers returns registered accounts for the admin user screen.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]User, int, error) {
	return s.users.List(ctx, limit, offset)
}
