package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/askeland/vanir/internal/auth"
	"github.com/askeland/vanir/internal/domain"
	"github.com/askeland/vanir/internal/repository"
)

// sessionTTL is how long a login stays valid without re-authentication.
const sessionTTL = 7 * 24 * time.Hour

type userService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewUserService creates a UserService backed by the given store.
func NewUserService(store repository.Store, logger *slog.Logger) domain.UserService {
	return &userService{store: store, logger: logger}
}

func (s *userService) Register(ctx context.Context, params domain.RegisterParams) (*domain.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" {
		return nil, domain.NewValidationError("", "email", "Email is required")
	}
	if len(params.Password) < 8 {
		return nil, domain.NewValidationError("", "password", "Password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user, err := s.store.CreateUser(ctx, repository.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		Role:         domain.RoleCustomer,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.openSession(ctx, user)
}

func (s *userService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return s.openSession(ctx, user)
}

func (s *userService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *userService) GetUserBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrSessionExpired
	}
	user, err := s.store.GetUserBySessionToken(ctx, token)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrSessionExpired
		}
		return nil, fmt.Errorf("get session user: %w", err)
	}
	return userView(user), nil
}

func (s *userService) EnsureAdmin(ctx context.Context, seed domain.AdminSeed) error {
	if seed.Email == "" || seed.Password == "" {
		return nil
	}
	_, err := s.store.GetUserByEmail(ctx, seed.Email)
	if err == nil {
		return nil
	}
	if !isNoRows(err) {
		return fmt.Errorf("check admin: %w", err)
	}

	hash, err := auth.HashPassword(seed.Password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	user, err := s.store.CreateUser(ctx, repository.CreateUserParams{
		Email:        strings.ToLower(seed.Email),
		PasswordHash: hash,
		FirstName:    seed.FirstName,
		LastName:     seed.LastName,
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}
	s.logger.InfoContext(ctx, "seeded admin user", "user_id", uuidString(user.ID), "email", user.Email)
	return nil
}

func (s *userService) openSession(ctx context.Context, user repository.User) (*domain.AuthResult, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().UTC().Add(sessionTTL)
	if _, err := s.store.CreateSession(ctx, repository.CreateSessionParams{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: pgTime(expiresAt),
	}); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	// Opportunistic cleanup keeps the sessions table from growing unbounded.
	if n, err := s.store.DeleteExpiredSessions(ctx); err == nil && n > 0 {
		s.logger.DebugContext(ctx, "removed expired sessions", "count", n)
	}

	return &domain.AuthResult{
		User:      *userView(user),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func userView(u repository.User) *domain.User {
	return &domain.User{
		ID:        uuidString(u.ID),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Time,
	}
}
