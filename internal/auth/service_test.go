// Copyright (c) 2026 BookVault. All rights reserved.

package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookvault/api/internal/platform/apperr"
	"github.com/bookvault/api/internal/platform/ctxutil"
	"github.com/bookvault/api/internal/platform/dberr"
	"github.com/bookvault/api/internal/platform/sec"
)

// fakeUserRepository is an in-memory UserRepository for gate tests.
type fakeUserRepository struct {
	byEmail map[string]*User
	nextID  int64
}

func newFakeUserRepository(seed ...*User) *fakeUserRepository {
	repo := &fakeUserRepository{byEmail: map[string]*User{}, nextID: 1}
	for _, user := range seed {
		repo.byEmail[user.Email] = user
		if user.ID >= repo.nextID {
			repo.nextID = user.ID + 1
		}
	}
	return repo
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	if user, ok := r.byEmail[email]; ok {
		return user, nil
	}
	return nil, dberr.ErrNotFound
}

func (r *fakeUserRepository) FindByID(_ context.Context, id int64) (*User, error) {
	for _, user := range r.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (r *fakeUserRepository) Create(_ context.Context, email, displayName string, role string) (*User, error) {
	user := &User{
		ID:          r.nextID,
		Email:       email,
		DisplayName: displayName,
		Role:        sec.UserRole(role),
		CreatedAt:   time.Now(),
	}
	r.nextID++
	r.byEmail[email] = user
	return user, nil
}

func (r *fakeUserRepository) UpdateDisplayName(_ context.Context, id int64, displayName string) (*User, error) {
	for _, user := range r.byEmail {
		if user.ID == id {
			user.DisplayName = displayName
			return user, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (r *fakeUserRepository) List(_ context.Context, limit, offset int) ([]User, int, error) {
	users := make([]User, 0, len(r.byEmail))
	for _, user := range r.byEmail {
		users = append(users, *user)
	}
	return users, len(users), nil
}

func testService(repo UserRepository) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func identityCtx(email string) context.Context {
	return ctxutil.WithIdentity(context.Background(), email)
}

func TestAuthenticate(t *testing.T) {
	admin := &User{ID: 1, Email: "admin@bookvault.app", Role: sec.RoleAdmin}

	t.Run("registered identity succeeds", func(t *testing.T) {
		service := testService(newFakeUserRepository(admin))

		user, err := service.Authenticate(identityCtx("admin@bookvault.app"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
	})

	t.Run("no identity fails with 401", func(t *testing.T) {
		service := testService(newFakeUserRepository(admin))

		_, err := service.Authenticate(context.Background())
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})

	t.Run("unregistered identity fails with 401, no provisioning", func(t *testing.T) {
		repo := newFakeUserRepository(admin)
		service := testService(repo)

		_, err := service.Authenticate(identityCtx("stranger@example.com"))
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

		_, exists := repo.byEmail["stranger@example.com"]
		assert.False(t, exists)
	})
}

func TestAuthorizeAdmin(t *testing.T) {
	admin := &User{ID: 1, Email: "admin@bookvault.app", Role: sec.RoleAdmin}
	member := &User{ID: 2, Email: "member@bookvault.app", Role: sec.RoleUser}

	t.Run("admin role succeeds", func(t *testing.T) {
		service := testService(newFakeUserRepository(admin, member))

		user, err := service.AuthorizeAdmin(identityCtx("admin@bookvault.app"))
		require.NoError(t, err)
		assert.True(t, user.IsAdmin())
	})

	t.Run("user role fails with 403", func(t *testing.T) {
		service := testService(newFakeUserRepository(admin, member))

		_, err := service.AuthorizeAdmin(identityCtx("member@bookvault.app"))
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})
}

func TestProfile_LazyProvisioning(t *testing.T) {
	repo := newFakeUserRepository()
	service := testService(repo)

	user, err := service.Profile(identityCtx("newcomer@example.com"))
	require.NoError(t, err)

	assert.Equal(t, "newcomer@example.com", user.Email)
	assert.Equal(t, "newcomer", user.DisplayName)
	assert.Equal(t, sec.RoleUser, user.Role)

	// A second access returns the same account, not a duplicate.
	again, err := service.Profile(identityCtx("newcomer@example.com"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Len(t, repo.byEmail, 1)
}

func TestUpdateProfile(t *testing.T) {
	t.Run("valid display name", func(t *testing.T) {
		service := testService(newFakeUserRepository())

		user, err := service.UpdateProfile(identityCtx("reader@example.com"), UpdateProfileInput{
			DisplayName: "  Avid Reader  ",
		})
		require.NoError(t, err)
		assert.Equal(t, "Avid Reader", user.DisplayName)
	})

	t.Run("empty display name fails validation", func(t *testing.T) {
		service := testService(newFakeUserRepository())

		_, err := service.UpdateProfile(identityCtx("reader@example.com"), UpdateProfileInput{
			DisplayName: "   ",
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}
