package services

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rohith4dev/Student-management/internal/apperrors"
	"github.com/rohith4dev/Student-management/internal/audit"
	"github.com/rohith4dev/Student-management/internal/models"
	"github.com/rohith4dev/Student-management/internal/store"
)

const userListCap = 1000

type adminUserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, limit int64) ([]models.User, error)
	Delete(ctx context.Context, id string) error
	UpdateRole(ctx context.Context, id, role string) error
	UpdateByEmail(ctx context.Context, email string, fields map[string]any) error
}

// UserService owns user administration and self-service profile updates.
type UserService struct {
	users    adminUserStore
	audit    *audit.Recorder
	validate *validator.Validate
	logger   *zap.Logger
}

func NewUserService(users adminUserStore, recorder *audit.Recorder, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:    users,
		audit:    recorder,
		validate: validator.New(),
		logger:   logger,
	}
}

// List returns all users with password digests stripped, capped at 1000.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx, userListCap)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to fetch users")
	}
	return users, nil
}

// DeleteUser removes a user account. Self-deletion is blocked.
func (s *UserService) DeleteUser(ctx context.Context, actor *models.User, targetID string) error {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.Clone(apperrors.ErrNotFound, "user not found")
		}
		return apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to fetch user")
	}
	if target.Email == actor.Email {
		return apperrors.Clone(apperrors.ErrInvalidOperation, "cannot delete your own account")
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.Clone(apperrors.ErrNotFound, "user not found")
		}
		return apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to delete user")
	}

	s.audit.Record(ctx, models.ActivityLog{
		Action:    models.ActionUserDeleted,
		UserEmail: actor.Email,
		Details:   map[string]any{"deleted_user": target.Email, "deleted_name": target.Name},
	})
	return nil
}

// ChangeRole updates a user's role to "user" or "admin".
func (s *UserService) ChangeRole(ctx context.Context, actor *models.User, targetID, newRole string) error {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.Clone(apperrors.ErrNotFound, "user not found")
		}
		return apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to fetch user")
	}
	if !models.ValidRole(newRole) {
		return apperrors.Clone(apperrors.ErrInvalidArgument, "invalid role")
	}

	if err := s.users.UpdateRole(ctx, targetID, newRole); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.Clone(apperrors.ErrNotFound, "user not found")
		}
		return apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to update role")
	}

	s.audit.Record(ctx, models.ActivityLog{
		Action:    models.ActionUserRoleUpdated,
		UserEmail: actor.Email,
		Details:   map[string]any{"target_user": target.Email, "old_role": target.Role, "new_role": newRole},
	})
	return nil
}

// UpdateOwnProfile applies a user's changes to their own record. The current
// password gates the whole operation, even a name-only change.
func (s *UserService) UpdateOwnProfile(ctx context.Context, actor *models.User, req models.ProfileUpdateRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Clone(apperrors.ErrInvalidArgument, "invalid current password")
	}
	current, err := s.users.FindByEmail(ctx, actor.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, "user not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to fetch user")
	}
	if req.CurrentPassword == "" || !VerifyPassword(req.CurrentPassword, current.Password) {
		return nil, apperrors.Clone(apperrors.ErrInvalidArgument, "invalid current password")
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	newEmail := current.Email
	if req.Email != nil {
		if *req.Email != current.Email {
			if _, err := s.users.FindByEmail(ctx, *req.Email); err == nil {
				return nil, apperrors.Clone(apperrors.ErrConflict, "email already in use")
			} else if !errors.Is(err, store.ErrNotFound) {
				return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to check email")
			}
		}
		fields["email"] = *req.Email
		newEmail = *req.Email
	}
	if req.NewPassword != nil && *req.NewPassword != "" {
		digest, err := HashPassword(*req.NewPassword)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to hash password")
		}
		fields["password"] = digest
	}

	if len(fields) > 0 {
		if err := s.users.UpdateByEmail(ctx, current.Email, fields); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return nil, apperrors.Clone(apperrors.ErrConflict, "email already in use")
			}
			return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to update profile")
		}
	}

	updatedFields := make([]string, 0, len(fields))
	for k := range fields {
		updatedFields = append(updatedFields, k)
	}
	s.audit.Record(ctx, models.ActivityLog{
		Action:    models.ActionProfileUpdated,
		UserEmail: actor.Email,
		Details:   map[string]any{"updated_fields": updatedFields},
	})

	updated, err := s.users.FindByEmail(ctx, newEmail)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to fetch updated user")
	}
	return updated, nil
}
