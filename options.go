package leadscout

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// Option configures a Client during construction.
type Option func(*options)

type options struct {
	baseURL          string
	httpClient       *http.Client
	session          Session
	logger           *slog.Logger
	timeout          time.Duration
	searchTimeout    time.Duration
	limiter          *rate.Limiter
	middlewares      []Middleware
	onSessionExpired func()
	disableTracing   bool
}

func defaultOptions() options {
	baseURL := os.Getenv("LEADSCOUT_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return options{
		baseURL:       baseURL,
		timeout:       30 * time.Second,
		searchTimeout: 45 * time.Second,
	}
}

// WithBaseURL overrides the backend base URL.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithHTTPClient supplies a custom underlying HTTP client. Its transport is
// wrapped by the middleware pipeline.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithSession injects the token session. Defaults to an in-memory session.
func WithSession(session Session) Option {
	return func(o *options) { o.session = session }
}

// WithLogger enables per-request debug logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTimeout sets the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithSearchTimeout sets the longer timeout used for facility search, which
// is a known-slow endpoint.
func WithSearchTimeout(d time.Duration) Option {
	return func(o *options) { o.searchTimeout = d }
}

// WithRateLimit installs a client-side requests-per-second guard.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) { o.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithMiddleware appends custom pipeline stages, outermost first.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(o *options) { o.middlewares = append(o.middlewares, middlewares...) }
}

// WithOnSessionExpired registers the callback fired when a token refresh
// fails and the session is cleared. The browser front end performed a hard
// redirect to the login page here.
func WithOnSessionExpired(fn func()) Option {
	return func(o *options) { o.onSessionExpired = fn }
}

// WithoutTracing disables the tracing pipeline stage.
func WithoutTracing() Option {
	return func(o *options) { o.disableTracing = true }
}
