package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is one of the two supported roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

type User struct {
	ID        string    `bson:"_id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	Role      string    `bson:"role" json:"role"`
	Password  string    `bson:"password,omitempty" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RoleUpdateRequest struct {
	Role string `json:"role" validate:"required"`
}

// ProfileUpdateRequest carries a user's own profile changes. CurrentPassword
// gates the whole operation, even a name-only change.
type ProfileUpdateRequest struct {
	CurrentPassword string  `json:"currentPassword" validate:"required"`
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	NewPassword     *string `json:"newPassword"`
}
