package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohith4dev/Student-management/internal/apperrors"
	"github.com/rohith4dev/Student-management/internal/audit"
	"github.com/rohith4dev/Student-management/internal/models"
)

func newUserFixture(t *testing.T) (*UserService, *fakeUserStore, *fakeActivitySink, *models.User) {
	t.Helper()
	users := newFakeUserStore()
	sink := &fakeActivitySink{}
	svc := NewUserService(users, audit.NewRecorder(sink, nil), nil)

	digest, err := HashPassword("adminpw")
	require.NoError(t, err)
	admin := &models.User{ID: "admin-1", Email: "admin@school.edu", Name: "Admin", Role: models.RoleAdmin, Password: digest}
	require.NoError(t, users.Insert(context.Background(), admin))
	return svc, users, sink, admin
}

func addUser(t *testing.T, users *fakeUserStore, id, email, password string) *models.User {
	t.Helper()
	digest, err := HashPassword(password)
	require.NoError(t, err)
	u := &models.User{ID: id, Email: email, Name: "User " + id, Role: models.RoleUser, Password: digest}
	require.NoError(t, users.Insert(context.Background(), u))
	return u
}

func TestListUsersStripsPasswords(t *testing.T) {
	svc, users, _, _ := newUserFixture(t)
	addUser(t, users, "u1", "a@example.com", "pw")

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	for _, u := range listed {
		assert.Empty(t, u.Password)
	}
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc, users, sink, admin := newUserFixture(t)
	addUser(t, users, "u1", "a@example.com", "pw")

	require.NoError(t, svc.DeleteUser(ctx, admin, "u1"))
	_, err := users.FindByID(ctx, "u1")
	assert.Error(t, err)
	assert.Contains(t, sink.Actions(), models.ActionUserDeleted)
}

func TestDeleteUserSelfBlocked(t *testing.T) {
	ctx := context.Background()
	svc, users, _, admin := newUserFixture(t)

	err := svc.DeleteUser(ctx, admin, admin.ID)
	require.Error(t, err)
	e := apperrors.FromError(err)
	assert.Equal(t, apperrors.ErrInvalidOperation.Code, e.Code)
	assert.Equal(t, 400, e.Status)

	_, err = users.FindByID(ctx, admin.ID)
	assert.NoError(t, err, "the record must remain present")
}

func TestDeleteUserNotFound(t *testing.T) {
	svc, _, _, admin := newUserFixture(t)
	err := svc.DeleteUser(context.Background(), admin, "missing")
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.FromError(err).Status)
}

func TestChangeRole(t *testing.T) {
	ctx := context.Background()
	svc, users, sink, admin := newUserFixture(t)
	addUser(t, users, "u1", "a@example.com", "pw")

	require.NoError(t, svc.ChangeRole(ctx, admin, "u1", models.RoleAdmin))
	u, err := users.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Contains(t, sink.Actions(), models.ActionUserRoleUpdated)
}

func TestChangeRoleInvalid(t *testing.T) {
	svc, users, _, admin := newUserFixture(t)
	addUser(t, users, "u1", "a@example.com", "pw")

	err := svc.ChangeRole(context.Background(), admin, "u1", "owner")
	require.Error(t, err)
	e := apperrors.FromError(err)
	assert.Equal(t, apperrors.ErrInvalidArgument.Code, e.Code)
	assert.Equal(t, 400, e.Status)
}

func TestChangeRoleNotFound(t *testing.T) {
	svc, _, _, admin := newUserFixture(t)
	err := svc.ChangeRole(context.Background(), admin, "missing", models.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.FromError(err).Status)
}

func TestUpdateOwnProfile(t *testing.T) {
	ctx := context.Background()
	svc, users, sink, _ := newUserFixture(t)
	u := addUser(t, users, "u1", "a@example.com", "oldpw")

	newName := "Renamed"
	newPassword := "newpw"
	updated, err := svc.UpdateOwnProfile(ctx, u, models.ProfileUpdateRequest{
		CurrentPassword: "oldpw",
		Name:            &newName,
		NewPassword:     &newPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	stored, err := users.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("newpw", stored.Password))
	assert.False(t, VerifyPassword("oldpw", stored.Password))
	assert.Contains(t, sink.Actions(), models.ActionProfileUpdated)
}

func TestUpdateOwnProfileWrongCurrentPassword(t *testing.T) {
	svc, users, _, _ := newUserFixture(t)
	u := addUser(t, users, "u1", "a@example.com", "oldpw")

	newName := "Renamed"
	_, err := svc.UpdateOwnProfile(context.Background(), u, models.ProfileUpdateRequest{
		CurrentPassword: "wrong",
		Name:            &newName,
	})
	require.Error(t, err)
	e := apperrors.FromError(err)
	assert.Equal(t, apperrors.ErrInvalidArgument.Code, e.Code)
	assert.Equal(t, "invalid current password", e.Message)

	stored, err := users.FindByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "Renamed", stored.Name, "the gate blocks even a name-only change")
}

func TestUpdateOwnProfileEmailTaken(t *testing.T) {
	svc, users, _, admin := newUserFixture(t)
	u := addUser(t, users, "u1", "a@example.com", "pw")

	taken := admin.Email
	_, err := svc.UpdateOwnProfile(context.Background(), u, models.ProfileUpdateRequest{
		CurrentPassword: "pw",
		Email:           &taken,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrConflict.Code, apperrors.FromError(err).Code)
}

func TestUpdateOwnProfileEmailChange(t *testing.T) {
	ctx := context.Background()
	svc, users, _, _ := newUserFixture(t)
	u := addUser(t, users, "u1", "a@example.com", "pw")

	newEmail := "b@example.com"
	updated, err := svc.UpdateOwnProfile(ctx, u, models.ProfileUpdateRequest{
		CurrentPassword: "pw",
		Email:           &newEmail,
	})
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", updated.Email)

	_, err = users.FindByEmail(ctx, "a@example.com")
	assert.Error(t, err)
}
