package services

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rohith4dev/Student-management/internal/apperrors"
	"github.com/rohith4dev/Student-management/internal/audit"
	"github.com/rohith4dev/Student-management/internal/auth"
	"github.com/rohith4dev/Student-management/internal/models"
	"github.com/rohith4dev/Student-management/internal/store"
)

type authUserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a bcrypt digest.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AuthService handles registration, login and the seeded admin account.
type AuthService struct {
	users    authUserStore
	audit    *audit.Recorder
	tokens   auth.TokenSettings
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAuthService(users authUserStore, recorder *audit.Recorder, tokens auth.TokenSettings, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    users,
		audit:    recorder,
		tokens:   tokens,
		validate: validator.New(),
		logger:   logger,
	}
}

// Register creates a new user account. The role defaults to "user".
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidArgument.Code, apperrors.ErrInvalidArgument.Status, "email, password and name are required")
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if !models.ValidRole(req.Role) {
		return nil, apperrors.Clone(apperrors.ErrInvalidArgument, "invalid role")
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Clone(apperrors.ErrConflict, "email already registered")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to check existing user")
	}

	digest, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		Name:      req.Name,
		Role:      req.Role,
		Password:  digest,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.Clone(apperrors.ErrConflict, "email already registered")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to create user")
	}

	s.audit.Record(ctx, models.ActivityLog{
		Action:    models.ActionUserRegistered,
		UserEmail: user.Email,
		Details:   map[string]any{"name": user.Name, "role": user.Role},
	})
	return user, nil
}

// Login verifies credentials and issues a signed, expiring token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (string, *models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return "", nil, apperrors.Wrap(err, apperrors.ErrInvalidArgument.Code, apperrors.ErrInvalidArgument.Status, "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, apperrors.Clone(apperrors.ErrUnauthenticated, "invalid credentials")
		}
		return "", nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to fetch user")
	}
	if !VerifyPassword(req.Password, user.Password) {
		return "", nil, apperrors.Clone(apperrors.ErrUnauthenticated, "invalid credentials")
	}

	token, _, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return "", nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to issue token")
	}

	s.audit.Record(ctx, models.ActivityLog{
		Action:    models.ActionUserLogin,
		UserEmail: user.Email,
		Details:   map[string]any{"name": user.Name, "role": user.Role},
	})
	return token, user, nil
}

// EnsureAdmin seeds the fixed admin account when it is absent.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, name, password string) error {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	digest, err := HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		Role:      models.RoleAdmin,
		Password:  digest,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, admin); err != nil {
		// Another replica may have seeded it first.
		if errors.Is(err, store.ErrDuplicate) {
			return nil
		}
		return err
	}
	s.logger.Info("admin user created", zap.String("email", email))
	return nil
}
