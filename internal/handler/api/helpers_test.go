package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/askeland/vanir/internal/domain"
	"github.com/askeland/vanir/internal/middleware"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockUserService implements domain.UserService for handler tests.
type mockUserService struct {
	registerFunc func(ctx context.Context, params domain.RegisterParams) (*domain.AuthResult, error)
	loginFunc    func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	logoutFunc   func(ctx context.Context, token string) error
	byTokenFunc  func(ctx context.Context, token string) (*domain.User, error)
}

func (m *mockUserService) Register(ctx context.Context, params domain.RegisterParams) (*domain.AuthResult, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, params)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *mockUserService) Logout(ctx context.Context, token string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, token)
	}
	return nil
}

func (m *mockUserService) GetUserBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	if m.byTokenFunc != nil {
		return m.byTokenFunc(ctx, token)
	}
	return nil, domain.ErrSessionExpired
}

func (m *mockUserService) EnsureAdmin(ctx context.Context, seed domain.AdminSeed) error {
	return nil
}

// asUser wraps a handler with session resolution so middleware.GetUser finds
// the given user. Requests must carry the "test-token" bearer header.
func asUser(user *domain.User, next http.HandlerFunc) http.Handler {
	users := &mockUserService{
		byTokenFunc: func(ctx context.Context, token string) (*domain.User, error) {
			if token == "test-token" {
				return user, nil
			}
			return nil, domain.ErrSessionExpired
		},
	}
	return middleware.WithUser(users)(next)
}

func authedRequest(r *http.Request) *http.Request {
	r.Header.Set("Authorization", "Bearer test-token")
	return r
}

func customer() *domain.User {
	return &domain.User{
		ID:        "11111111-1111-1111-1111-111111111111",
		Email:     "shopper@example.com",
		Role:      domain.RoleCustomer,
		CreatedAt: time.Now(),
	}
}

func admin() *domain.User {
	u := customer()
	u.ID = "22222222-2222-2222-2222-222222222222"
	u.Email = "admin@example.com"
	u.Role = domain.RoleAdmin
	return u
}

func decodeErrorBody(t *testing.T, body io.Reader) errorBody {
	t.Helper()
	var eb errorBody
	require.NoError(t, json.NewDecoder(body).Decode(&eb))
	return eb
}
