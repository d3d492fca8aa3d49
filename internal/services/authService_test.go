package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohith4dev/Student-management/internal/apperrors"
	"github.com/rohith4dev/Student-management/internal/audit"
	"github.com/rohith4dev/Student-management/internal/auth"
	"github.com/rohith4dev/Student-management/internal/models"
)

var testTokens = auth.TokenSettings{Secret: "test-secret", Issuer: "test", TTL: time.Hour}

func newAuthFixture() (*AuthService, *fakeUserStore, *fakeActivitySink) {
	users := newFakeUserStore()
	sink := &fakeActivitySink{}
	svc := NewAuthService(users, audit.NewRecorder(sink, nil), testTokens, nil)
	return svc, users, sink
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _, sink := newAuthFixture()

	user, err := svc.Register(ctx, models.RegisterRequest{
		Email:    "a@example.com",
		Password: "secret123",
		Name:     "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "secret123", user.Password, "password must be stored as a digest")
	assert.True(t, VerifyPassword("secret123", user.Password))
	assert.Contains(t, sink.Actions(), models.ActionUserRegistered)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture()

	req := models.RegisterRequest{Email: "a@example.com", Password: "pw", Name: "Alice"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	require.Error(t, err)
	e := apperrors.FromError(err)
	assert.Equal(t, apperrors.ErrConflict.Code, e.Code)
	assert.Equal(t, 400, e.Status)
}

func TestRegisterInvalidRole(t *testing.T) {
	svc, _, _ := newAuthFixture()
	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email: "a@example.com", Password: "pw", Name: "Alice", Role: "superuser",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidArgument.Code, apperrors.FromError(err).Code)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, sink := newAuthFixture()

	_, err := svc.Register(ctx, models.RegisterRequest{Email: "a@example.com", Password: "secret123", Name: "Alice"})
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", user.Email)

	claims, err := testTokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Contains(t, sink.Actions(), models.ActionUserLogin)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()
	_, _, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "pw"})
	require.Error(t, err)
	e := apperrors.FromError(err)
	assert.Equal(t, apperrors.ErrUnauthenticated.Code, e.Code)
	assert.Equal(t, 401, e.Status)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture()
	_, err := svc.Register(ctx, models.RegisterRequest{Email: "a@example.com", Password: "right", Name: "Alice"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrUnauthenticated.Code, apperrors.FromError(err).Code)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newAuthFixture()

	require.NoError(t, svc.EnsureAdmin(ctx, "admin@school.edu", "Admin", "adminpw"))
	admin, err := users.FindByEmail(ctx, "admin@school.edu")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	// Second call is a no-op.
	require.NoError(t, svc.EnsureAdmin(ctx, "admin@school.edu", "Admin", "adminpw"))
}

func TestAuditFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	sink := &fakeActivitySink{FailInsert: assert.AnError}
	svc := NewAuthService(users, audit.NewRecorder(sink, nil), testTokens, nil)

	_, err := svc.Register(ctx, models.RegisterRequest{Email: "a@example.com", Password: "pw", Name: "Alice"})
	require.NoError(t, err)
	_, err = users.FindByEmail(ctx, "a@example.com")
	assert.NoError(t, err, "mutation must land even when the audit write fails")
}
