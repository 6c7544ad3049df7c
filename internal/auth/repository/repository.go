package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/db"

	"github.com/jackc/pgx/v5"
)

type Repository struct {
	pool db.Pool
}

func New(pool db.Pool) *Repository {
	return &Repository{pool: pool}
}

const adminColumns = "id, email, password_hash, roles, created_at"

func (r *Repository) GetByEmail(ctx context.Context, email string) (AdminUser, error) {
	var u AdminUser
	err := r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admin_users WHERE lower(email) = lower($1)`,
		strings.TrimSpace(email),
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Roles, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return AdminUser{}, apperr.NotFound("admin not found")
	}
	if err != nil {
		return AdminUser{}, fmt.Errorf("get admin by email: %w", err)
	}
	return u, nil
}

func (r *Repository) Upsert(ctx context.Context, email, passwordHash string, roles []string) (AdminUser, error) {
	var u AdminUser
	err := r.pool.QueryRow(ctx, `
		INSERT INTO admin_users (email, password_hash, roles)
		VALUES (lower($1), $2, $3)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash, roles = EXCLUDED.roles
		RETURNING `+adminColumns,
		strings.TrimSpace(email), passwordHash, roles,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Roles, &u.CreatedAt)
	if err != nil {
		return AdminUser{}, fmt.Errorf("upsert admin: %w", err)
	}
	return u, nil
}
