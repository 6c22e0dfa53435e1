package leadscout

import (
	"context"
	"net/http"
	"time"
)

// User is the authenticated account.
type User struct {
	ID        int        `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	FullName  string     `json:"full_name"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// AuthService owns the token lifecycle against /auth.
type AuthService struct {
	client *Client
}

// Login exchanges credentials for a token pair and persists it to the
// session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Envelope[Tokens], error) {
	body := map[string]string{"username": username, "password": password}
	env, err := doJSON[Tokens](ctx, s.client, http.MethodPost, "/auth/login", nil, body, 0)
	if err != nil {
		return nil, err
	}
	if err := s.client.session.SetTokens(env.Data); err != nil {
		return nil, unknownError(err)
	}
	return env, nil
}

// Register creates an account. It does not log in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*Envelope[User], error) {
	return doJSON[User](ctx, s.client, http.MethodPost, "/auth/register", nil, req, 0)
}

// Me returns the account bound to the current session.
func (s *AuthService) Me(ctx context.Context) (*Envelope[User], error) {
	return doJSON[User](ctx, s.client, http.MethodGet, "/auth/me", nil, nil, 0)
}

// Refresh forces a token refresh outside the 401 path, e.g. when the CLI
// notices the access token is about to expire.
func (s *AuthService) Refresh(ctx context.Context) error {
	tokens, ok := s.client.session.Tokens()
	if !ok || tokens.RefreshToken == "" {
		return NewError(401, "no refresh token in session")
	}
	return s.client.refresh(ctx, tokens.RefreshToken)
}

// Logout clears the session, including any reserved user data an
// implementation persists alongside the tokens.
func (s *AuthService) Logout() error {
	return s.client.session.Clear()
}
