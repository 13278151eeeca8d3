package seqopt

import (
	"context"
	"fmt"
	"net/url"
)

// Client is the gateway to the optimization backend. It exposes the four
// lifecycle operations of the HTTP contract plus a health probe, and is safe
// for concurrent use.
//
// Client performs no lifecycle sequencing of its own; that is the job of
// [Session] and [TrialController]. Use [Client.NewSession] for the managed
// experiment lifecycle.
type Client struct {
	config *Config
	http   *httpClient
	logger StructuredLogger
}

// New creates a new client for the optimization backend.
func New(opts ...ConfigOption) (*Client, error) {
	cfg := &Config{}

	for _, opt := range opts {
		opt(cfg)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a new client from a Config struct.
// This is useful when you want to configure the client using a struct
// rather than functional options.
//
// Example:
//
//	client, err := seqopt.NewWithConfig(&seqopt.Config{
//	    BaseURL: "http://optimizer.internal:8000/api",
//	    Timeout: 10 * time.Second,
//	})
func NewWithConfig(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, ErrNilRequest
	}

	// Make a copy to avoid modifying the original
	cfgCopy := *cfg

	cfgCopy.applyDefaults()

	if err := cfgCopy.validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: &cfgCopy,
		http:   newHTTPClient(&cfgCopy),
		logger: cfgCopy.StructuredLogger,
	}, nil
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.http.baseURL
}

// NewSession creates an experiment session backed by this client.
func (c *Client) NewSession() *Session {
	return NewSession(c)
}

// CreateExperiment registers a new experiment with the backend and returns
// its assigned identity. Failures are wrapped in *CreationError; no experiment
// exists on failure, so a retry is a fresh creation attempt.
func (c *Client) CreateExperiment(ctx context.Context, req *ExperimentCreationRequest) (*ExperimentResponse, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	c.logger.Debug("seqopt: creating experiment", "name", req.Name,
		"parameters", len(req.Parameters), "objectives", len(req.Objectives))

	var resp ExperimentResponse
	if err := c.http.post(ctx, "/experiments", req, &resp); err != nil {
		return nil, &CreationError{Err: err}
	}

	c.logger.Info("seqopt: experiment created", "experiment_id", resp.ExperimentID)
	return &resp, nil
}

// NextTrial asks the backend to suggest the next parameter assignment for an
// experiment. Failures are wrapped in *TrialFetchError.
func (c *Client) NextTrial(ctx context.Context, experimentID string) (*Trial, error) {
	if experimentID == "" {
		return nil, NewValidationError("experimentID", "cannot be empty")
	}

	var trial Trial
	path := fmt.Sprintf("/experiments/%s/next_trial", url.PathEscape(experimentID))
	if err := c.http.get(ctx, path, &trial); err != nil {
		return nil, &TrialFetchError{Err: err}
	}

	c.logger.Debug("seqopt: trial fetched", "experiment_id", experimentID, "trial_id", trial.TrialID)
	return &trial, nil
}

// CompleteTrial reports the observed objective values for a trial.
// Failures are wrapped in *SubmitError.
func (c *Client) CompleteTrial(ctx context.Context, experimentID string, req *CompleteTrialRequest) error {
	if experimentID == "" {
		return NewValidationError("experimentID", "cannot be empty")
	}
	if req == nil {
		return ErrNilRequest
	}

	var ack completeTrialAck
	path := fmt.Sprintf("/experiments/%s/complete_trial", url.PathEscape(experimentID))
	if err := c.http.post(ctx, path, req, &ack); err != nil {
		return &SubmitError{TrialID: req.TrialID, Err: err}
	}

	c.logger.Debug("seqopt: trial completed", "experiment_id", experimentID,
		"trial_id", req.TrialID, "status", ack.Status)
	return nil
}

// ParetoFront retrieves the backend-computed Pareto front for a
// multi-objective experiment. Failures are wrapped in *ParetoFetchError.
//
// The returned points are an unordered set; "Solution N" labels assigned by
// the presentation helpers reflect input position only, not rank.
func (c *Client) ParetoFront(ctx context.Context, experimentID string) ([]ParetoPoint, error) {
	if experimentID == "" {
		return nil, NewValidationError("experimentID", "cannot be empty")
	}

	var points []ParetoPoint
	path := fmt.Sprintf("/experiments/%s/pareto_front", url.PathEscape(experimentID))
	if err := c.http.get(ctx, path, &points); err != nil {
		return nil, &ParetoFetchError{Err: err}
	}

	c.logger.Debug("seqopt: pareto front fetched", "experiment_id", experimentID, "points", len(points))
	return points, nil
}

// Health probes the backend's liveness endpoint.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.http.get(ctx, "/health", &status); err != nil {
		return nil, err
	}
	return &status, nil
}
