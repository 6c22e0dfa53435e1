package leadscout

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens is a session's credential pair. The access token is attached to
// every authenticated request; the refresh token is exchanged for a new
// access token when the server answers 401.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Session is the single source of truth for the current credentials. The
// client reads it before every outgoing request and writes it on login,
// refresh success, and logout or refresh failure. Implementations must be
// safe for concurrent use.
type Session interface {
	// Tokens returns the current pair. ok is false when no session exists.
	Tokens() (tokens Tokens, ok bool)
	// SetTokens replaces the pair. Implementations persisting to durable
	// storage must write both tokens as one unit.
	SetTokens(tokens Tokens) error
	// SetAccessToken replaces only the access token, keeping the refresh
	// token. Used after a successful refresh.
	SetAccessToken(token string) error
	// Clear drops the session entirely.
	Clear() error
}

// MemorySession is a process-local Session.
type MemorySession struct {
	mu     sync.RWMutex
	tokens Tokens
	set    bool
}

// NewMemorySession returns an empty in-memory session.
func NewMemorySession() *MemorySession { return &MemorySession{} }

func (s *MemorySession) Tokens() (Tokens, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens, s.set
}

func (s *MemorySession) SetTokens(tokens Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = tokens
	s.set = true
	return nil
}

func (s *MemorySession) SetAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens.AccessToken = token
	s.set = true
	return nil
}

func (s *MemorySession) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = Tokens{}
	s.set = false
	return nil
}

// ExpiresSoon reports whether a JWT access token expires within the given
// window. The token is not verified; only its exp claim is inspected. Tokens
// that cannot be parsed or carry no expiry report false, since attachment
// never depends on client-side expiry guesses.
func ExpiresSoon(token string, within time.Duration) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < within
}
