package school

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/naucourse/chooser/internal/logging"
	"github.com/naucourse/chooser/internal/netutil"
	"golang.org/x/time/rate"
)

// ErrRequestTimeout is returned by PostForm when the server did not answer in
// time, either from the client timeout or the caller's context deadline.
var ErrRequestTimeout = errors.New("school server request timed out")

// RestyLogger implements resty.Logger and routes its output through logging.
type RestyLogger struct{}

// Errorf routes error messages through structured logging.
func (RestyLogger) Errorf(format string, v ...any) {
	logging.Error(format, v...)
}

// Warnf routes warning messages through structured logging.
func (RestyLogger) Warnf(format string, v ...any) {
	logging.Warn(format, v...)
}

// Debugf routes debug messages through structured logging.
func (RestyLogger) Debugf(format string, v ...any) {
	logging.Debug(format, v...)
}

// Response is the part of an HTTP answer the withdrawal code cares about.
type Response struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Client posts forms to the school server. Safe for concurrent use.
type Client struct {
	client  *resty.Client
	limiter *rate.Limiter
	baseURL string
}

// NewClient creates a client from cfg.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid school config: %w", err)
	}

	client := resty.New()

	// Route Resty's internal logging through our structured logging system
	client.SetLogger(RestyLogger{})

	client.
		SetTimeout(cfg.Timeout).
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json, text/plain, */*").
		SetHeader("User-Agent", cfg.UserAgent)
	if cfg.Cookie != "" {
		client.SetHeader("Cookie", cfg.Cookie)
	}

	if cfg.RetryCount > 0 {
		client.
			SetRetryCount(cfg.RetryCount).
			SetRetryWaitTime(500 * time.Millisecond).
			SetRetryMaxWaitTime(2 * time.Second).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				// Only retry when no response arrived, never on HTTP errors
				return err != nil && !netutil.IsTimeoutError(err)
			})
	}

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logging.Debug("School request: %s %s", req.Method, req.URL)
		return nil
	})

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("School response: %d %s (took %v)",
			resp.StatusCode(), resp.Status(), resp.Time())
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		logging.Debug("School request failed: %s %s - %v", req.Method, req.URL, err)
	})

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		client:  client,
		limiter: limiter,
		baseURL: cfg.BaseURL,
	}, nil
}

// BaseURL returns the server root requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PostForm sends form to endpoint, waiting for the rate limiter first. Any
// HTTP status is returned as a Response; only transport failures are errors.
func (c *Client) PostForm(ctx context.Context, endpoint string, form url.Values) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: waiting for rate limiter: %v", ErrRequestTimeout, err)
			}
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		Post(endpoint)
	if err != nil {
		if netutil.IsTimeoutError(err) {
			return nil, fmt.Errorf("%w: %s: %v", ErrRequestTimeout, endpoint, err)
		}
		if netutil.IsConnectionRefusedError(err) {
			logging.Debug("School server at %s refused the connection", c.baseURL)
		}
		return nil, fmt.Errorf("failed to reach school server at %s: %w", c.baseURL, err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Duration:   resp.Time(),
	}, nil
}
