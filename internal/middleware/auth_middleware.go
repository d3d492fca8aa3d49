package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/rohith4dev/Student-management/internal/apperrors"
	"github.com/rohith4dev/Student-management/internal/auth"
	"github.com/rohith4dev/Student-management/internal/models"
)

const userKey = "current_user"

// Authenticated validates the bearer token and resolves the caller against
// the credential store, storing the user in request locals.
func Authenticated(guard *auth.Guard, tokens auth.TokenSettings) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolveCaller(c, guard, tokens, false)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(userKey, user)
		return c.Next()
	}
}

// AdminOnly is Authenticated plus an admin-role check.
func AdminOnly(guard *auth.Guard, tokens auth.TokenSettings) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolveCaller(c, guard, tokens, true)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(userKey, user)
		return c.Next()
	}
}

// CurrentUser returns the caller resolved by the auth middleware.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

func resolveCaller(c *fiber.Ctx, guard *auth.Guard, tokens auth.TokenSettings, admin bool) (*models.User, error) {
	header := c.Get("Authorization")
	if header == "" {
		return nil, apperrors.Clone(apperrors.ErrUnauthenticated, "missing token")
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")
	if tokenStr == "" {
		return nil, apperrors.Clone(apperrors.ErrUnauthenticated, "invalid token format")
	}

	claims, err := tokens.Parse(tokenStr)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUnauthenticated.Code, apperrors.ErrUnauthenticated.Status, "invalid token")
	}

	if admin {
		return guard.RequireAdmin(c.Context(), claims.Email)
	}
	return guard.Authenticate(c.Context(), claims.Email)
}

func respondError(c *fiber.Ctx, err error) error {
	e := apperrors.FromError(err)
	return c.Status(e.Status).JSON(fiber.Map{"error": e.Message})
}
