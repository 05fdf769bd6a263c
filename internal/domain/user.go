package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                      uuid.UUID  `json:"id" db:"id"`
	Email                   string     `json:"email" db:"email"`
	PasswordHash            string     `json:"-" db:"password_hash"`
	FirstName               string     `json:"first_name" db:"first_name"`
	LastName                string     `json:"last_name" db:"last_name"`
	PhoneNumber             *string    `json:"phone_number,omitempty" db:"phone_number"`
	AvatarURL               *string    `json:"avatar_url,omitempty" db:"avatar_url"`
	Role                    string     `json:"role" db:"role"`
	IsActive                bool       `json:"is_active" db:"is_active"`
	IsEmailVerified         bool       `json:"is_email_verified" db:"is_email_verified"`
	EmailVerificationToken  *string    `json:"-" db:"email_verification_token"`
	EmailVerificationSentAt *time.Time `json:"-" db:"email_verification_sent_at"`
	CreatedAt               time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt               *time.Time `json:"-" db:"deleted_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleSeller UserRole = "seller"
	RoleAgent  UserRole = "agent"
	RoleBuyer  UserRole = "buyer"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleAgent, RoleBuyer:
		return true
	default:
		return false
	}
}

// HasRole implements the back-office permission ladder: admins can do
// everything, sellers and agents keep their own lanes, and any signed-in
// user counts as a buyer.
func (u *User) HasRole(requiredRole string) bool {
	switch requiredRole {
	case "admin":
		return u.Role == "admin"
	case "seller":
		return u.Role == "seller" || u.Role == "admin"
	case "agent":
		return u.Role == "agent" || u.Role == "admin"
	case "buyer":
		return u.Role != ""
	default:
		return false
	}
}

type CreateUserInput struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	FirstName   string  `json:"first_name" validate:"required,min=2"`
	LastName    string  `json:"last_name" validate:"required"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Role        string  `json:"role" validate:"omitempty,oneof=seller agent buyer"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
