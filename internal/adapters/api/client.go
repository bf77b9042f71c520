package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kamal-hamza/dgrab/internal/core/domain"
	"github.com/kamal-hamza/dgrab/internal/logger"
)

// maxErrorBody caps how much of a failed response is read when looking for the error field
const maxErrorBody = 64 << 10

// UserAgent is sent with every request; the version is filled in by the cmd package
var UserAgent = "dgrab/dev"

type fetchRequest struct {
	MessageURL string `json:"messageUrl"`
}

type fetchResponse struct {
	Attachments []domain.Attachment `json:"attachments"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client calls the attachments endpoint. It implements ports.AttachmentSource.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for endpoint. A zero timeout means no timeout.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   strings.TrimSpace(endpoint),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP creates a client with a custom HTTP client (for testing)
func NewClientWithHTTP(endpoint string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		endpoint:   strings.TrimSpace(endpoint),
		httpClient: client,
	}
}

// Endpoint returns the configured endpoint URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// FetchAttachments POSTs the message link and returns the attachments from the response
func (c *Client) FetchAttachments(ctx context.Context, link string) ([]domain.Attachment, error) {
	if c.endpoint == "" {
		return nil, domain.ErrNoEndpoint
	}

	requestID := uuid.NewString()
	log := logger.ComponentLogger("api").With("requestID", requestID)

	body, err := json.Marshal(fetchRequest{MessageURL: link})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endpoint: %v", domain.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("X-Request-ID", requestID)

	log.Debug("Fetching attachments", "endpoint", c.endpoint, "link", link)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("Request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	log.Info("Response received", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &domain.APIError{StatusCode: resp.StatusCode}

		// The error body is optional and may not be JSON
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var errResp errorResponse
		if json.Unmarshal(raw, &errResp) == nil {
			apiErr.Message = errResp.Error
		}

		log.Warn("API returned an error", "status", resp.StatusCode, "message", apiErr.Message)
		return nil, apiErr
	}

	var data fetchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		log.Error("Failed to parse response", "error", err)
		return nil, fmt.Errorf("%w: failed to parse response: %v", domain.ErrNetwork, err)
	}

	log.Debug("Attachments decoded", "count", len(data.Attachments))
	return data.Attachments, nil
}
