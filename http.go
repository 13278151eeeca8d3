package seqopt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// httpClient handles HTTP requests to the optimization backend.
type httpClient struct {
	client     *http.Client
	baseURL    string
	maxRetries int
	retryDelay time.Duration
	debug      bool
	logger     StructuredLogger
}

// newHTTPClient creates a new HTTP client from a validated config.
func newHTTPClient(cfg *Config) *httpClient {
	return &httpClient{
		client:     cfg.HTTPClient,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		debug:      cfg.Debug,
		logger:     cfg.StructuredLogger,
	}
}

// request represents an HTTP request to be made.
type request struct {
	method string
	path   string
	body   any
	result any
	// retryable marks the request as safe to re-issue on transient failure.
	// Only idempotent requests set this; mutating lifecycle operations are
	// retried by the caller, never by the transport.
	retryable bool
}

// do executes an HTTP request, retrying transient failures when permitted.
func (h *httpClient) do(ctx context.Context, req *request) error {
	attempts := 1
	if req.retryable {
		attempts += h.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := h.retryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := h.doOnce(ctx, req)
		if err == nil {
			return nil
		}

		lastErr = err

		if apiErr, ok := err.(*APIError); ok && !apiErr.IsRetryable() {
			return err
		}
		// Transport errors fall through and retry when permitted.
	}

	return lastErr
}

// doOnce executes a single HTTP request.
func (h *httpClient) doOnce(ctx context.Context, req *request) error {
	u := h.baseURL + req.path

	var bodyReader io.Reader
	if req.body != nil {
		bodyBytes, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("seqopt: failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("seqopt: failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "seqopt-go/"+Version)

	if h.debug {
		h.logger.Debug("seqopt: request", "method", req.method, "url", u)
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("seqopt: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("seqopt: failed to read response body: %w", err)
	}

	if h.debug {
		h.logger.Debug("seqopt: response", "status", resp.StatusCode, "bytes", len(respBody))
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if len(respBody) > 0 {
			json.Unmarshal(respBody, apiErr)
		}
		return apiErr
	}

	if req.result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, req.result); err != nil {
			return fmt.Errorf("seqopt: failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// get performs an idempotent GET request with transport-level retries.
func (h *httpClient) get(ctx context.Context, path string, result any) error {
	return h.do(ctx, &request{
		method:    http.MethodGet,
		path:      path,
		result:    result,
		retryable: true,
	})
}

// post performs a POST request. POSTs are never retried by the transport;
// a failed lifecycle operation is re-invoked by the user.
func (h *httpClient) post(ctx context.Context, path string, body any, result any) error {
	return h.do(ctx, &request{
		method: http.MethodPost,
		path:   path,
		body:   body,
		result: result,
	})
}
