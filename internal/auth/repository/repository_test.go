package repository

import (
	"context"
	"slices"
	"testing"
	"time"

	"sakkanal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
)

var adminCols = []string{"id", "email", "password_hash", "roles", "created_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestGetByEmail(t *testing.T) {
	mock := newMock(t)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`SELECT id, email, password_hash, roles, created_at FROM admin_users WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("ops@sakkanal.sn").
		WillReturnRows(pgxmock.NewRows(adminCols).AddRow(id, "ops@sakkanal.sn", "$2a$hash", []string{"admin"}, now))

	u, err := New(mock).GetByEmail(context.Background(), "  ops@sakkanal.sn ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != id || !slices.Equal(u.Roles, []string{"admin"}) {
		t.Fatalf("unexpected admin %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM admin_users`).WithArgs("nobody@sakkanal.sn").WillReturnError(pgx.ErrNoRows)

	_, err := New(mock).GetByEmail(context.Background(), "nobody@sakkanal.sn")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpsert(t *testing.T) {
	mock := newMock(t)

	id := uuid.New()
	mock.ExpectQuery(`INSERT INTO admin_users .* ON CONFLICT \(email\) DO UPDATE`).
		WithArgs("ops@sakkanal.sn", "$2a$hash", []string{"admin"}).
		WillReturnRows(pgxmock.NewRows(adminCols).AddRow(id, "ops@sakkanal.sn", "$2a$hash", []string{"admin"}, time.Now()))

	u, err := New(mock).Upsert(context.Background(), "ops@sakkanal.sn", "$2a$hash", []string{"admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != id {
		t.Fatalf("expected id %s, got %s", id, u.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
