// Package client provides the HTTP client withdrawctl uses to drive a running
// withdrawd daemon.
//
// WithdrawAPIClient wraps resty with the daemon's base URL, JSON headers,
// connection-only retries and debug logging hooks. Response types are the
// daemon's own handler types so both sides share one wire format.
package client

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/naucourse/chooser/cmd/withdrawctl/config"
	"github.com/naucourse/chooser/internal/api/handlers"
	"github.com/naucourse/chooser/internal/course"
	"github.com/naucourse/chooser/internal/logging"
	"github.com/naucourse/chooser/internal/resources"
	"github.com/naucourse/chooser/internal/school"
)

// ErrBatchInFlight is returned by Submit when the daemon is already running a batch.
var ErrBatchInFlight = errors.New("another withdrawal batch is still running")

// CancelResponse is the daemon's reply to a cancel request.
type CancelResponse struct {
	Status  string `json:"status"`
	Active  bool   `json:"active"`
	BatchID string `json:"batch_id"`
}

// errorResponse is the body of a non-2xx daemon reply.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// WithdrawAPIClient talks to the withdrawd HTTP API.
type WithdrawAPIClient struct {
	client  *resty.Client
	baseURL string
}

// NewWithdrawAPIClient creates a client for the daemon at apiAddr with a
// timeout in seconds.
func NewWithdrawAPIClient(apiAddr string, timeout int) *WithdrawAPIClient {
	client := resty.New()

	baseURL := fmt.Sprintf("http://%s/api/v1", apiAddr)

	client.SetLogger(school.RestyLogger{})

	client.
		SetTimeout(time.Duration(timeout)*time.Second).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("withdrawctl/%s", config.Version))

	// Only retry on connection errors, not HTTP errors
	client.
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil
		})

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logging.Debug("Making API request: %s %s", req.Method, req.URL)
		return nil
	})

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("API response: %d %s (took %v)",
			resp.StatusCode(), resp.Status(), resp.Time())
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		logging.Debug("API request failed: %s %s - %v", req.Method, req.URL, err)
	})

	return &WithdrawAPIClient{
		client:  client,
		baseURL: baseURL,
	}
}

// CreateAPIClient creates a client from the global CLI flags.
func CreateAPIClient() *WithdrawAPIClient {
	return NewWithdrawAPIClient(config.Global.APIAddr, config.Global.ConnectTimeout)
}

// BaseURL returns the API root the client talks to.
func (api *WithdrawAPIClient) BaseURL() string {
	return api.baseURL
}

// Health fetches the daemon health report.
func (api *WithdrawAPIClient) Health() (*handlers.HealthResponse, error) {
	var health handlers.HealthResponse

	resp, err := api.client.R().
		SetResult(&health).
		Get("/health")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to API server at %s: %w", api.baseURL, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	return &health, nil
}

// Submit starts a batch on the daemon. A busy daemon yields ErrBatchInFlight.
func (api *WithdrawAPIClient) Submit(plan course.Plan) (*handlers.SubmitResponse, error) {
	var response handlers.SubmitResponse
	var failure errorResponse

	body, err := course.EncodePlan(plan, course.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}

	resp, err := api.client.R().
		SetBody(body).
		SetResult(&response).
		SetError(&failure).
		Post("/withdrawals")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to API server at %s: %w", api.baseURL, err)
	}

	switch resp.StatusCode() {
	case http.StatusAccepted:
		return &response, nil
	case http.StatusConflict:
		return nil, ErrBatchInFlight
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return nil, fmt.Errorf("daemon rejected plan: %s: %s", failure.Error, failure.Details)
	default:
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode(), resp.String())
	}
}

// Cancel asks the daemon to stop its running batch.
func (api *WithdrawAPIClient) Cancel() (*CancelResponse, error) {
	var response CancelResponse

	resp, err := api.client.R().
		SetResult(&response).
		Post("/withdrawals/cancel")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to API server at %s: %w", api.baseURL, err)
	}
	if resp.StatusCode() != http.StatusAccepted {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	return &response, nil
}

// Resources fetches a process snapshot of the daemon.
func (api *WithdrawAPIClient) Resources() (*resources.Snapshot, error) {
	var snap resources.Snapshot

	resp, err := api.client.R().
		SetResult(&snap).
		Get("/resources")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to API server at %s: %w", api.baseURL, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	return &snap, nil
}

// Status fetches engine counters and the last batch report.
func (api *WithdrawAPIClient) Status() (*handlers.StatusResponse, error) {
	var response handlers.StatusResponse

	resp, err := api.client.R().
		SetResult(&response).
		Get("/withdrawals/status")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to API server at %s: %w", api.baseURL, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	return &response, nil
}
