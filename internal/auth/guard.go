package auth

import (
	"context"
	"errors"

	"github.com/rohith4dev/Student-management/internal/apperrors"
	"github.com/rohith4dev/Student-management/internal/models"
	"github.com/rohith4dev/Student-management/internal/store"
)

type userResolver interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Guard resolves a caller identity against the credential store on every
// call, so a role change takes effect immediately regardless of what an
// outstanding token claims.
type Guard struct {
	users userResolver
}

func NewGuard(users userResolver) *Guard {
	return &Guard{users: users}
}

// Authenticate resolves the caller or fails with Unauthenticated.
func (g *Guard) Authenticate(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, apperrors.Clone(apperrors.ErrUnauthenticated, "not authenticated")
	}
	user, err := g.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.Clone(apperrors.ErrUnauthenticated, "user not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to resolve user")
	}
	return user, nil
}

// RequireAdmin resolves the caller and fails with Forbidden unless they hold
// the admin role.
func (g *Guard) RequireAdmin(ctx context.Context, email string) (*models.User, error) {
	user, err := g.Authenticate(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleAdmin {
		return nil, apperrors.Clone(apperrors.ErrForbidden, "admin access required")
	}
	return user, nil
}
