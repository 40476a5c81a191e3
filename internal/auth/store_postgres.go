// Copyright (c) 2026 BookVault. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/bookvault/api/internal/platform/database/schema"
	"github.com/bookvault/api/internal/platform/dberr"
	"github.com/bookvault/api/internal/platform/postgres"
)

// PostgresUserRepository implements [UserRepository] on PostgreSQL.
type PostgresUserRepository struct {
	db postgres.DBTX
}

// NewPostgresUserRepository constructs the repository.
func NewPostgresUserRepository(db postgres.DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var userTable = schema.UserAccount

func (r *PostgresUserRepository) scanQuery() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s",
		userTable.ID, userTable.Email, userTable.DisplayName, userTable.Role, userTable.CreatedAt)
}

// FindByEmail implements [UserRepository].
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.scanQuery(), userTable.Table, userTable.Email)

	var user User
	err := r.db.QueryRow(ctx, query, email).
		Scan(&user.ID, &user.Email, &user.DisplayName, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "find user by email")
	}

	return &user, nil
}

// FindByID implements [UserRepository].
func (r *PostgresUserRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.scanQuery(), userTable.Table, userTable.ID)

	var user User
	err := r.db.QueryRow(ctx, query, id).
		Scan(&user.ID, &user.Email, &user.DisplayName, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "find user by id")
	}

	return &user, nil
}

// Create implements [UserRepository].
func (r *PostgresUserRepository) Create(ctx context.Context, email, displayName string, role string) (*User, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`,
		userTable.Table,
		userTable.Email, userTable.DisplayName, userTable.Role, userTable.CreatedAt,
		r.scanQuery(),
	)

	var user User
	err := r.db.QueryRow(ctx, query, email, displayName, role, time.Now().UTC()).
		Scan(&user.ID, &user.Email, &user.DisplayName, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "create user")
	}

	return &user, nil
}

// UpdateDisplayName implements [UserRepository].
func (r *PostgresUserRepository) UpdateDisplayName(ctx context.Context, id int64, displayName string) (*User, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1 WHERE %s = $2
		RETURNING %s`,
		userTable.Table, userTable.DisplayName, userTable.ID,
		r.scanQuery(),
	)

	var user User
	err := r.db.QueryRow(ctx, query, displayName, id).
		Scan(&user.ID, &user.Email, &user.DisplayName, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "update display name")
	}

	return &user, nil
}

// List implements [UserRepository].
func (r *PostgresUserRepository) List(ctx context.Context, limit, offset int) ([]User, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, userTable.Table)

	var total int
	if err := r.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count users")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2`,
		r.scanQuery(), userTable.Table, userTable.CreatedAt,
	)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list users")
	}
	defer rows.Close()

	users := make([]User, 0, limit)
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.DisplayName, &user.Role, &user.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan user")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate users")
	}

	return users, total, nil
}
