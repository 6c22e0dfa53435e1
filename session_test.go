package leadscout

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestMemorySessionLifecycle(t *testing.T) {
	s := NewMemorySession()
	if _, ok := s.Tokens(); ok {
		t.Fatal("fresh session must be empty")
	}

	if err := s.SetTokens(Tokens{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	tokens, ok := s.Tokens()
	if !ok || tokens.AccessToken != "a" || tokens.RefreshToken != "r" {
		t.Fatalf("unexpected tokens %+v ok=%v", tokens, ok)
	}

	if err := s.SetAccessToken("a2"); err != nil {
		t.Fatalf("SetAccessToken: %v", err)
	}
	tokens, _ = s.Tokens()
	if tokens.AccessToken != "a2" || tokens.RefreshToken != "r" {
		t.Fatalf("SetAccessToken must keep the refresh token, got %+v", tokens)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := s.Tokens(); ok {
		t.Fatal("cleared session must be empty")
	}
}

func TestExpiresSoon(t *testing.T) {
	expiring := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Minute).Unix()})
	if !ExpiresSoon(expiring, 5*time.Minute) {
		t.Fatal("token expiring in 1m must report true for a 5m window")
	}

	fresh := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	if ExpiresSoon(fresh, 5*time.Minute) {
		t.Fatal("token expiring in 1h must report false for a 5m window")
	}
}

func TestExpiresSoonMalformedOrMissingExp(t *testing.T) {
	if ExpiresSoon("not-a-jwt", time.Hour) {
		t.Fatal("unparseable token must report false")
	}
	noExp := signedToken(t, jwt.MapClaims{"sub": "u1"})
	if ExpiresSoon(noExp, time.Hour) {
		t.Fatal("token without exp must report false")
	}
}
