package domain

import (
	"context"
	"time"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User/auth domain errors.
var (
	ErrUserNotFound       = &Error{Code: ENOTFOUND, Message: "User not found"}
	ErrEmailTaken         = &Error{Code: ECONFLICT, Message: "An account with this email already exists"}
	ErrInvalidCredentials = &Error{Code: EUNAUTHORIZED, Message: "Invalid email or password"}
	ErrSessionExpired     = &Error{Code: EUNAUTHORIZED, Message: "Session expired or invalid"}
)

// User is an account as exposed to clients. The password hash never leaves
// the repository layer.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterParams carries account creation input.
type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult is a successful login or registration: the user plus a fresh
// session token for the cookie / bearer header.
type AuthResult struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AdminSeed is the initial admin account created on first boot when
// configured. No-op if the email already exists.
type AdminSeed struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UserService provides account and session operations.
type UserService interface {
	// Register creates an account and opens a session.
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)

	// Login verifies credentials and opens a session.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Logout revokes the session token. Unknown tokens are not an error.
	Logout(ctx context.Context, token string) error

	// GetUserBySessionToken resolves a session token to its user.
	GetUserBySessionToken(ctx context.Context, token string) (*User, error)

	// EnsureAdmin creates the seed admin account if it does not exist.
	EnsureAdmin(ctx context.Context, seed AdminSeed) error
}
