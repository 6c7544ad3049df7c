package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AdminUser is a back-office account allowed to sign in.
type AdminUser struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}

// AdminRepository defines admin account persistence.
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (AdminUser, error)
	// Upsert creates the admin or replaces the password and roles of an
	// existing one with the same email.
	Upsert(ctx context.Context, email, passwordHash string, roles []string) (AdminUser, error)
}

var _ AdminRepository = (*Repository)(nil)
