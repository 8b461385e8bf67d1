// Package upload sends a step to the remote steps API.
//
// It makes exactly one POST per call: no retries, no pagination. Failures
// are returned to the caller wrapped in domain.ErrNetwork, with the status
// and body of rejected requests available through *domain.UploadError.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pkordes/stepsync/internal/domain"
)

// DefaultURL is the public steps endpoint.
const DefaultURL = "https://www.polarsteps.com/api/steps"

// DefaultTimeout bounds a single upload when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// stepType is the constant type discriminator the endpoint expects.
const stepType = 1

// maxErrorBody caps how much of a rejected response is kept.
const maxErrorBody = 4 << 10

// HTTPDoer describes the HTTP client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	// URL is the steps endpoint. Defaults to DefaultURL.
	URL string
	// Token, when set, is sent as "Authorization: Bearer <token>".
	Token string
	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient HTTPDoer
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client uploads steps.
type Client struct {
	url    string
	token  string
	client HTTPDoer
	log    *slog.Logger
}

// StepRequest is the request body of a step upload.
type StepRequest struct {
	TripID       int64  `json:"trip_id"`
	LocationID   int64  `json:"location_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	StartTime    string `json:"start_time"`
	CreationTime string `json:"creation_time"`
	TimezoneID   string `json:"timezone_id"`
	Type         int    `json:"type"`
}

// NewClient constructs a Client from opts, filling in defaults.
func NewClient(opts Options) *Client {
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		url = DefaultURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		url:    url,
		token:  strings.TrimSpace(opts.Token),
		client: client,
		log:    log,
	}
}

// NewStepRequest builds the upload body for step under trip.
// StartTime is rendered as RFC 3339 in UTC.
func NewStepRequest(trip domain.Trip, step domain.Step, locationID int64) StepRequest {
	return StepRequest{
		TripID:       trip.ID,
		LocationID:   locationID,
		Name:         step.Name,
		Description:  step.Description,
		StartTime:    step.StartTime.UTC().Format(time.RFC3339),
		CreationTime: step.CreationTime,
		TimezoneID:   step.TimezoneID,
		Type:         stepType,
	}
}

// UploadStep POSTs step to the configured endpoint.
func (c *Client) UploadStep(ctx context.Context, trip domain.Trip, step domain.Step, locationID int64) error {
	body, err := json.Marshal(NewStepRequest(trip, step, locationID))
	if err != nil {
		return fmt.Errorf("upload.Client.UploadStep: encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("upload.Client.UploadStep: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload.Client.UploadStep: %w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	c.log.InfoContext(ctx, "step upload response",
		"trip_id", trip.ID,
		"step_id", step.ID,
		"location_id", locationID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("upload.Client.UploadStep: %w", &domain.UploadError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		})
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
