package leadscout

import (
	"context"
	"net/http"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestChainOrdersFirstListedOutermost(t *testing.T) {
	var order []string
	stage := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(req)
			})
		}
	}
	base := roundTrip(func(req *http.Request) (*http.Response, error) {
		order = append(order, "base")
		return jsonResponse(200, `{}`), nil
	})

	rt := Chain(base, stage("outer"), stage("inner"))
	req, _ := http.NewRequest(http.MethodGet, "http://api.test/x", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
	want := []string{"outer", "inner", "base"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("stage %d = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestBearerAuthAttachesSessionToken(t *testing.T) {
	session := sessionWith(Tokens{AccessToken: "tok", RefreshToken: "ref"})
	base := roundTrip(func(req *http.Request) (*http.Response, error) {
		if got := req.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("Authorization = %q", got)
		}
		return jsonResponse(200, `{}`), nil
	})
	rt := Chain(base, BearerAuth(session))
	req, _ := http.NewRequest(http.MethodGet, "http://api.test/x", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
}

func TestBearerAuthSkipsWithoutToken(t *testing.T) {
	base := roundTrip(func(req *http.Request) (*http.Response, error) {
		if _, present := req.Header["Authorization"]; present {
			t.Fatal("Authorization header must be absent without a session")
		}
		return jsonResponse(200, `{}`), nil
	})
	rt := Chain(base, BearerAuth(NewMemorySession()))
	req, _ := http.NewRequest(http.MethodGet, "http://api.test/x", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
}

func TestBearerAuthKeepsExistingHeader(t *testing.T) {
	session := sessionWith(Tokens{AccessToken: "stale"})
	base := roundTrip(func(req *http.Request) (*http.Response, error) {
		if got := req.Header.Get("Authorization"); got != "Bearer fresh" {
			t.Fatalf("Authorization = %q, want replayed token kept", got)
		}
		return jsonResponse(200, `{}`), nil
	})
	rt := Chain(base, BearerAuth(session))
	req, _ := http.NewRequest(http.MethodGet, "http://api.test/x", nil)
	req.Header.Set("Authorization", "Bearer fresh")
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
}

func TestBearerAuthDoesNotMutateOriginalRequest(t *testing.T) {
	session := sessionWith(Tokens{AccessToken: "tok"})
	base := roundTrip(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{}`), nil
	})
	rt := Chain(base, BearerAuth(session))
	req, _ := http.NewRequest(http.MethodGet, "http://api.test/x", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
	if _, present := req.Header["Authorization"]; present {
		t.Fatal("middleware must clone the request before setting headers")
	}
}

func TestRequestIDIsUniquePerRequest(t *testing.T) {
	seen := map[string]bool{}
	base := roundTrip(func(req *http.Request) (*http.Response, error) {
		id := req.Header.Get("X-Request-ID")
		if id == "" {
			t.Fatal("missing X-Request-ID")
		}
		if seen[id] {
			t.Fatalf("duplicate request id %q", id)
		}
		seen[id] = true
		return jsonResponse(200, `{}`), nil
	})
	rt := Chain(base, RequestID())
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest(http.MethodGet, "http://api.test/x", nil)
		if _, err := rt.RoundTrip(req); err != nil {
			t.Fatalf("RoundTrip: %v", err)
		}
	}
}

func TestRateLimitHonorsContextCancel(t *testing.T) {
	base := roundTrip(func(req *http.Request) (*http.Response, error) {
		t.Fatal("request must not reach the transport when the limiter blocks")
		return nil, nil
	})
	// A zero-burst limiter never admits a request.
	rt := Chain(base, RateLimit(rate.NewLimiter(rate.Limit(1), 0)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "http://api.test/x", nil)
	if _, err := rt.RoundTrip(req); err == nil {
		t.Fatal("expected limiter error")
	}
}

func TestRateLimitPassesThrough(t *testing.T) {
	calls := 0
	base := roundTrip(func(req *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(200, `{}`), nil
	})
	rt := Chain(base, RateLimit(rate.NewLimiter(rate.Inf, 1)))
	req, _ := http.NewRequest(http.MethodGet, "http://api.test/x", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}
