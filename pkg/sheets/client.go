// pkg/sheets/client.go

// Package sheets sends invoices to a spreadsheet webhook (a Google Apps
// Script web app) and reads stored rows back.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/invoice-builder/pkg/invoice"
)

// SentMessage is reported after every delivered save. The webhook's reply is
// not inspected, so delivery is all that is known.
const SentMessage = "Invoice data sent. Check the spreadsheet to confirm it was stored."

// ErrNotConfigured means no webhook URL is available.
var ErrNotConfigured = errors.New("sheets: webhook URL is not configured")

// TransportError wraps a failure to reach the webhook.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("sheets: could not reach %s, check the network connection and URL: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError means the webhook answered, but not with usable data.
type UpstreamError struct {
	URL    string
	Status int
	Reason string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("sheets: fetch from %s failed (status %d): %s", e.URL, e.Status, e.Reason)
}

// Endpoint supplies the webhook URL at call time.
type Endpoint interface {
	Endpoint(ctx context.Context) (string, error)
}

// StaticEndpoint is a fixed webhook URL.
type StaticEndpoint string

// Endpoint returns s.
func (s StaticEndpoint) Endpoint(context.Context) (string, error) { return string(s), nil }

// Result is the outcome of a save.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Client is an HTTP client for the spreadsheet webhook.
type Client struct {
	endpoint   Endpoint
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a webhook client. A nil httpClient uses http.DefaultClient
// and a nil logger uses the standard logger.
func NewClient(endpoint Endpoint, httpClient *http.Client, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Client{endpoint: endpoint, httpClient: httpClient, logger: logger}
}

func (c *Client) url(ctx context.Context) (string, error) {
	if c.endpoint == nil {
		return "", ErrNotConfigured
	}
	u, err := c.endpoint.Endpoint(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve webhook URL: %w", err)
	}
	if strings.TrimSpace(u) == "" {
		return "", ErrNotConfigured
	}
	return u, nil
}

// Save posts the payload once. Any completed round trip counts as success,
// whatever the status code.
func (c *Client) Save(ctx context.Context, p invoice.Payload) (Result, error) {
	u, err := c.url(ctx)
	if err != nil {
		return Result{}, err
	}

	body, err := json.Marshal(p)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Printf("sheets: sending invoice %s (%d items) to %s", p.InvoiceNumber, len(p.Items), u)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, &TransportError{URL: u, Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		if err := resp.Body.Close(); err != nil {
			c.logger.Printf("sheets: failed to close response body: %v", err)
		}
	}()
	c.logger.Printf("sheets: webhook answered %d for invoice %s", resp.StatusCode, p.InvoiceNumber)

	return Result{Success: true, Message: SentMessage}, nil
}

type fetchResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Fetch reads the rows the webhook has stored.
func (c *Client) Fetch(ctx context.Context) (json.RawMessage, error) {
	u, err := c.url(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Printf("sheets: failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{URL: u, Status: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
	}

	var out fetchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &UpstreamError{URL: u, Status: resp.StatusCode, Reason: "undecodable response: " + err.Error()}
	}
	if !out.Success {
		msg := out.Message
		if msg == "" {
			msg = "webhook reported failure"
		}
		return nil, &UpstreamError{URL: u, Status: resp.StatusCode, Reason: msg}
	}
	return out.Data, nil
}
