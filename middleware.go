package leadscout

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/leadscout/leadscout-go/obs"
)

// Middleware wraps an http.RoundTripper with one pipeline stage. Stages are
// explicit and composable so each can be tested in isolation.
type Middleware func(http.RoundTripper) http.RoundTripper

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Chain applies middlewares to base so that the first middleware listed is
// the outermost stage.
func Chain(base http.RoundTripper, middlewares ...Middleware) http.RoundTripper {
	rt := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		rt = middlewares[i](rt)
	}
	return rt
}

// BearerAuth attaches the session's access token as a bearer Authorization
// header. An absent token is not an error; the request proceeds
// unauthenticated. An Authorization header already present on the request is
// left untouched, which is how a replayed request carries its refreshed token.
func BearerAuth(session Session) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Authorization") == "" {
				if tokens, ok := session.Tokens(); ok && tokens.AccessToken != "" {
					req = req.Clone(req.Context())
					req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
				}
			}
			return next.RoundTrip(req)
		})
	}
}

// RequestID tags each outgoing request with a unique X-Request-ID.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("X-Request-ID") == "" {
				req = req.Clone(req.Context())
				req.Header.Set("X-Request-ID", uuid.NewString())
			}
			return next.RoundTrip(req)
		})
	}
}

// RateLimit delays requests to respect a client-side rate limiter. Used to
// keep search traffic against the places proxy inside its quota.
func RateLimit(limiter *rate.Limiter) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if err := limiter.Wait(req.Context()); err != nil {
				return nil, err
			}
			return next.RoundTrip(req)
		})
	}
}

// Logging emits one debug line per request with method, path, status and
// duration.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			attrs := []any{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Duration("duration", time.Since(start)),
			}
			if err != nil {
				logger.Debug("request failed", append(attrs, slog.Any("error", err))...)
				return resp, err
			}
			logger.Debug("request", append(attrs, slog.Int("status", resp.StatusCode))...)
			return resp, err
		})
	}
}

// Tracing records a span per request.
func Tracing() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			ctx, recorder := obs.StartRequest(req.Context(), "http."+req.Method,
				attribute.String("http.method", req.Method),
				attribute.String("http.path", req.URL.Path),
			)
			resp, err := next.RoundTrip(req.WithContext(ctx))
			if resp != nil {
				recorder.AddAttributes(attribute.Int("http.status_code", resp.StatusCode))
			}
			recorder.End(err)
			return resp, err
		})
	}
}
