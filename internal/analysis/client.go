// Package analysis is the HTTP client for the remote smash analysis
// service: one multipart upload endpoint, a polling endpoint for results,
// and two small state probes.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

const (
	// genericUploadFailure is shown when the server gives no message.
	genericUploadFailure = "video upload failed"

	// genericTransportFailure is shown when no response arrived at all.
	genericTransportFailure = "could not reach the analysis service"
)

// Config holds the analysis service connection settings.
type Config struct {
	// BaseURL is the analysis service endpoint.
	BaseURL string `json:"base_url"`

	// Timeout for status and result queries.
	Timeout time.Duration `json:"timeout"`

	// UploadTimeout for the video upload request, which can carry tens of
	// megabytes and must outlive the regular timeout.
	UploadTimeout time.Duration `json:"upload_timeout"`

	// UploadField is the multipart form field carrying the video binary.
	UploadField string `json:"upload_field"`
}

// DefaultConfig returns a default client configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:       "http://localhost:8000",
		Timeout:       30 * time.Second,
		UploadTimeout: 5 * time.Minute,
		UploadField:   "video",
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return NewClientError(ErrTypeValidation, "base URL is required")
	}
	if c.Timeout <= 0 {
		return NewClientError(ErrTypeValidation, "timeout must be positive")
	}
	if c.UploadTimeout <= 0 {
		return NewClientError(ErrTypeValidation, "upload timeout must be positive")
	}
	if c.UploadField == "" {
		return NewClientError(ErrTypeValidation, "upload field name is required")
	}
	return nil
}

// Client talks to the analysis service.
type Client struct {
	config       *Config
	client       *http.Client
	uploadClient *http.Client
	baseURL      *url.URL
}

// New creates a client for the given configuration.
func New(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, NewClientErrorWithCause(ErrTypeValidation, "invalid base URL", err)
	}

	return &Client{
		config:       config,
		client:       &http.Client{Timeout: config.Timeout},
		uploadClient: &http.Client{Timeout: config.UploadTimeout},
		baseURL:      baseURL,
	}, nil
}

// BaseURL returns the parsed service endpoint.
func (c *Client) BaseURL() *url.URL {
	return c.baseURL
}

// Upload submits one video as a multipart POST. A 2xx response either
// acknowledges that background processing started or, on servers that
// analyze synchronously, carries the finished feedback payload inline.
// A single call issues exactly one POST; the client never retries.
func (c *Client) Upload(ctx context.Context, filename string, video io.Reader) (*UploadResult, error) {
	endpoint := c.baseURL.JoinPath("/upload")

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		part, err := form.CreateFormFile(c.config.UploadField, filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, video); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(form.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), pr)
	if err != nil {
		return nil, NewClientErrorWithCause(ErrTypeInternal, "failed to create upload request", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return nil, NewClientErrorWithCause(ErrTypeSubmission, genericTransportFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.submissionError(resp)
	}

	var body uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil && err != io.EOF {
		return nil, NewClientErrorWithCause(ErrTypeInternal, "failed to decode upload response", err)
	}

	result := &UploadResult{Message: body.Message}
	if body.Feedback != nil {
		if err := body.Feedback.Validate(); err != nil {
			return nil, NewClientErrorWithCause(ErrTypeInternal, "invalid feedback payload", err)
		}
		result.Completed = true
		result.Payload = body.Feedback
		if result.Payload.UserGIF == "" {
			result.Payload.UserGIF = body.GifURL
		}
	}
	return result, nil
}

// Results issues one status query. 200 carries the finished payload, 202
// means still processing; everything else is a polling failure.
func (c *Client) Results(ctx context.Context) (*PollResult, error) {
	endpoint := c.baseURL.JoinPath("/results")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, NewClientErrorWithCause(ErrTypeInternal, "failed to create results request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, NewClientErrorWithCause(ErrTypePolling, genericTransportFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusAccepted:
		return &PollResult{Pending: true}, nil

	case resp.StatusCode == http.StatusOK:
		var envelope resultsEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return nil, NewClientErrorWithCause(ErrTypePolling, "malformed results body", err)
		}
		if err := envelope.Payload.Validate(); err != nil {
			return nil, NewClientErrorWithCause(ErrTypePolling, "invalid feedback payload", err)
		}
		payload := envelope.Payload
		return &PollResult{Payload: &payload}, nil

	default:
		message := extractServerMessage(resp.Body)
		if message == "" {
			message = fmt.Sprintf("status query failed with status %d", resp.StatusCode)
		}
		return nil, NewHTTPError(ErrTypePolling, message, resp.StatusCode)
	}
}

// Status probes the server's own processing phase.
func (c *Client) Status(ctx context.Context) (*ServiceStatus, error) {
	endpoint := c.baseURL.JoinPath("/status")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, NewClientErrorWithCause(ErrTypeInternal, "failed to create status request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, NewClientErrorWithCause(ErrTypeNetwork, genericTransportFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(ErrTypeNetwork,
			fmt.Sprintf("status probe failed with status %d", resp.StatusCode), resp.StatusCode)
	}

	var body statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, NewClientErrorWithCause(ErrTypeInternal, "failed to decode status response", err)
	}

	status := &ServiceStatus{Status: body.Status}
	if body.Error != nil {
		status.Error = *body.Error
	}
	return status, nil
}

// Reset asks the server to discard its processing state.
func (c *Client) Reset(ctx context.Context) error {
	endpoint := c.baseURL.JoinPath("/reset")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), http.NoBody)
	if err != nil {
		return NewClientErrorWithCause(ErrTypeInternal, "failed to create reset request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return NewClientErrorWithCause(ErrTypeNetwork, genericTransportFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewHTTPError(ErrTypeNetwork,
			fmt.Sprintf("reset failed with status %d", resp.StatusCode), resp.StatusCode)
	}
	return nil
}

// submissionError builds the user-facing upload failure, preferring the
// server's own message over the generic fallback.
func (c *Client) submissionError(resp *http.Response) error {
	message := extractServerMessage(resp.Body)
	if message == "" {
		message = genericUploadFailure
	}
	return NewHTTPError(ErrTypeSubmission, message, resp.StatusCode)
}

// extractServerMessage pulls the detail/error field from an error body,
// returning "" when no usable message is present.
func extractServerMessage(body io.Reader) string {
	raw, err := io.ReadAll(body)
	if err != nil {
		return ""
	}

	var parsed errorResponse
	if json.Unmarshal(raw, &parsed) != nil {
		return ""
	}
	if parsed.Detail != "" {
		return parsed.Detail
	}
	return parsed.Error
}
