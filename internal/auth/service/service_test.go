package service

import (
	"context"
	"io"
	"testing"
	"time"

	"sakkanal_backend/internal/auth/password"
	"sakkanal_backend/internal/auth/repository"
	"sakkanal_backend/internal/auth/transport"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration { return 15 * time.Minute }

type memAdmins map[string]repository.AdminUser

func (m memAdmins) GetByEmail(_ context.Context, email string) (repository.AdminUser, error) {
	u, ok := m[email]
	if !ok {
		return repository.AdminUser{}, apperr.NotFound("admin not found")
	}
	return u, nil
}

func (m memAdmins) Upsert(_ context.Context, email, hash string, roles []string) (repository.AdminUser, error) {
	u := repository.AdminUser{ID: uuid.New(), Email: email, PasswordHash: hash, Roles: roles}
	m[email] = u
	return u, nil
}

func newService(admins memAdmins) *Service {
	svc := New(admins, testConfig{}, logger.NewWithWriter("test", io.Discard))
	svc.now = func() time.Time { return time.Now().Truncate(time.Second) }
	return svc
}

func TestSignIn_IssuesAccessToken(t *testing.T) {
	admins := memAdmins{}
	svc := newService(admins)
	created, err := svc.CreateAdmin(context.Background(), " Ops@Sakkanal.sn ", "s3cret-passphrase")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	resp, err := svc.SignIn(context.Background(), transport.LoginRequest{Email: "OPS@sakkanal.sn", Password: "s3cret-passphrase"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (any, error) { return []byte("test-secret"), nil })
	if err != nil || !parsed.Valid {
		t.Fatalf("expected valid token: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != created.ID.String() || claims["type"] != "access" {
		t.Fatalf("unexpected claims %v", claims)
	}
	if roles, _ := claims["roles"].([]any); len(roles) != 1 || roles[0] != RoleAdmin {
		t.Fatalf("unexpected roles %v", claims["roles"])
	}
	if resp.TokenType != "Bearer" || time.Until(resp.ExpiresAt) > 15*time.Minute {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestSignIn_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	hash, _ := password.Hash("s3cret-passphrase")
	svc := newService(memAdmins{"ops@sakkanal.sn": {ID: uuid.New(), Email: "ops@sakkanal.sn", PasswordHash: hash}})

	_, errWrong := svc.SignIn(context.Background(), transport.LoginRequest{Email: "ops@sakkanal.sn", Password: "nope-nope-nope"})
	_, errUnknown := svc.SignIn(context.Background(), transport.LoginRequest{Email: "who@sakkanal.sn", Password: "s3cret-passphrase"})

	if !apperr.Is(errWrong, apperr.KindUnauthorized) || !apperr.Is(errUnknown, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized errors, got %v / %v", errWrong, errUnknown)
	}
	if errWrong.Error() != errUnknown.Error() {
		t.Fatalf("errors must not reveal which part failed: %q vs %q", errWrong, errUnknown)
	}
}

func TestCreateAdmin_RejectsShortPassword(t *testing.T) {
	_, err := newService(memAdmins{}).CreateAdmin(context.Background(), "ops@sakkanal.sn", "short")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
