package leadscout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/leadscout/leadscout-go/internal/httpclient"
)

const refreshPath = "/auth/refresh"

// Client is the single point of outbound communication with the backend. It
// owns auth-token attachment and the one-shot 401 refresh-and-replay policy;
// every domain service is layered on top of it.
type Client struct {
	mu      sync.RWMutex
	baseURL string

	http *http.Client
	// bare skips the middleware pipeline; the refresh call travels through it
	// so a 401 on refresh can never recurse into another refresh.
	bare *http.Client

	session          Session
	onSessionExpired func()
	timeout          time.Duration
	searchTimeout    time.Duration

	refreshGroup singleflight.Group
}

// New constructs a Client. With no options it targets LEADSCOUT_API_URL
// (falling back to a local development address), uses an in-memory session,
// and carries a 30 second request timeout with a 45 second allowance for
// facility search.
func New(opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.session == nil {
		o.session = NewMemorySession()
	}

	base := o.httpClient
	if base == nil {
		base = httpclient.New()
	}
	rt := base.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}

	middlewares := append([]Middleware{}, o.middlewares...)
	middlewares = append(middlewares, RequestID(), BearerAuth(o.session))
	if o.limiter != nil {
		middlewares = append(middlewares, RateLimit(o.limiter))
	}
	if o.logger != nil {
		middlewares = append(middlewares, Logging(o.logger))
	}
	if !o.disableTracing {
		middlewares = append(middlewares, Tracing())
	}

	c := &Client{
		baseURL:          strings.TrimRight(o.baseURL, "/"),
		http:             &http.Client{Transport: Chain(rt, middlewares...)},
		bare:             &http.Client{Transport: rt},
		session:          o.session,
		onSessionExpired: o.onSessionExpired,
		timeout:          o.timeout,
		searchTimeout:    o.searchTimeout,
	}
	return c
}

// Session exposes the injected session.
func (c *Client) Session() Session { return c.session }

// SetAuthToken stores an access token in the session, from where it is
// attached to all subsequent requests.
func (c *Client) SetAuthToken(token string) error {
	return c.session.SetAccessToken(token)
}

// RemoveAuthToken clears the session. The session is the single source of
// truth for attachment, so later requests carry no Authorization header no
// matter what an earlier run persisted.
func (c *Client) RemoveAuthToken() error {
	return c.session.Clear()
}

// UpdateBaseURL switches the backend address at runtime.
func (c *Client) UpdateBaseURL(baseURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// GetBaseURL returns the current backend address.
func (c *Client) GetBaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// Accessors for the domain services.

func (c *Client) Auth() *AuthService             { return &AuthService{client: c} }
func (c *Client) Facilities() *FacilitiesService { return &FacilitiesService{client: c} }
func (c *Client) Leads() *LeadsService {
	return &LeadsService{Resource: NewResource[Lead](c, "/leads"), client: c}
}

// do executes one logical call: send, one-shot refresh-and-replay on 401,
// then error normalization. On success it returns the final status and raw
// body; on failure a normalized *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, timeout time.Duration) (int, []byte, error) {
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	status, data, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return 0, nil, err
	}

	if status == http.StatusUnauthorized {
		if tokens, ok := c.session.Tokens(); ok && tokens.RefreshToken != "" {
			if err := c.refresh(ctx, tokens.RefreshToken); err != nil {
				return 0, nil, err
			}
			// Replay once. The replayed request flows through the pipeline
			// again and picks up the refreshed token; a second 401 falls
			// through to normalization below with no further refresh.
			status, data, err = c.send(ctx, method, path, query, body)
			if err != nil {
				return 0, nil, err
			}
		}
	}

	if status >= 400 {
		return 0, nil, serverError(status, data)
	}
	return status, data, nil
}

// send performs a single HTTP exchange and classifies transport failures.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (int, []byte, error) {
	u := c.GetBaseURL() + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return 0, nil, unknownError(fmt.Errorf("marshal request body: %w", err))
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, unknownError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, networkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, networkError(err)
	}
	return resp.StatusCode, data, nil
}

// refresh exchanges the refresh token for a new access token. Concurrent
// 401s coalesce into a single in-flight refresh; every waiter observes its
// outcome. A refresh failure is fatal to the session: tokens are cleared and
// the expiry callback fires.
func (c *Client) refresh(ctx context.Context, refreshToken string) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		payload, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
		if err != nil {
			return nil, unknownError(err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.GetBaseURL()+refreshPath, bytes.NewReader(payload))
		if err != nil {
			return nil, unknownError(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.bare.Do(req)
		if err != nil {
			c.expireSession()
			return nil, networkError(err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			c.expireSession()
			return nil, networkError(err)
		}
		if resp.StatusCode >= 400 {
			c.expireSession()
			return nil, serverError(resp.StatusCode, data)
		}

		var result struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal(data, &result); err != nil || result.AccessToken == "" {
			c.expireSession()
			return nil, unknownError(fmt.Errorf("refresh response missing access_token"))
		}
		if err := c.session.SetAccessToken(result.AccessToken); err != nil {
			return nil, unknownError(err)
		}
		return nil, nil
	})
	return err
}

func (c *Client) expireSession() {
	_ = c.session.Clear()
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

// doJSON executes a call and decodes the response body into T.
func doJSON[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any, timeout time.Duration) (*Envelope[T], error) {
	status, data, err := c.do(ctx, method, path, query, body, timeout)
	if err != nil {
		return nil, err
	}
	var payload T
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, unknownError(fmt.Errorf("decode response: %w", err))
		}
	}
	return newEnvelope(status, payload, data), nil
}

// doVoid executes a call and discards the response body.
func doVoid(ctx context.Context, c *Client, method, path string, query url.Values, body any) (*Envelope[Void], error) {
	status, data, err := c.do(ctx, method, path, query, body, 0)
	if err != nil {
		return nil, err
	}
	return newEnvelope(status, Void{}, data), nil
}
