package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gennadis/petassistant/internal/config"
)

const (
	JSONContentType = "application/json"

	maxResponseBytes = 1 << 20
)

var (
	// ErrTransport covers network failures, timeouts and non-2xx statuses.
	ErrTransport = errors.New("transport failure")
	// ErrMalformedResponse is a 2xx answer without a usable response field.
	ErrMalformedResponse = errors.New("malformed response")
)

type Client struct {
	httpClient *http.Client
	Config     *config.Config
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		Config:     cfg,
	}
}

// NewClientWithHTTP lets callers supply their own transport.
func NewClientWithHTTP(cfg *config.Config, httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient, Config: cfg}
}

// Ask sends one question to the Q&A service and returns its raw response text.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	reqBytes, err := json.Marshal(QuestionRequest{Question: question})
	if err != nil {
		return "", fmt.Errorf("failed to encode question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Config.QuestionURL(), bytes.NewReader(reqBytes))
	if err != nil {
		slog.Error("Failed to build question request", "error", err)
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", JSONContentType)
	req.Header.Set("Accept", JSONContentType)

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	answer := AnswerResponse{}
	if err := json.Unmarshal(body, &answer); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if answer.Response == nil {
		return "", fmt.Errorf("%w: response field missing", ErrMalformedResponse)
	}
	return *answer.Response, nil
}

// Health asks the Q&A service for its status document.
func (c *Client) Health(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Config.HealthURL(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", JSONContentType)

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	health := HealthResponse{}
	if err := json.Unmarshal(body, &health); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return health.Status, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer res.Body.Close()

	if err := handleApiError(res); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrTransport, err)
	}
	return body, nil
}

// handleApiError rejects any non-2xx answer; the body of a failed answer is not parsed.
func handleApiError(res *http.Response) error {
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s: status code %d", ErrTransport, res.Request.Method, res.Request.URL, res.StatusCode)
	}
	return nil
}
