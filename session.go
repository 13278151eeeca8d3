package seqopt

import (
	"context"
	"sync"
)

// SessionState identifies the lifecycle state of a Session.
type SessionState int

// Session states.
const (
	// SessionUninitialized means no experiment has been created yet.
	// Trial and Pareto operations are unreachable in this state.
	SessionUninitialized SessionState = iota
	// SessionActive means the session holds a created experiment with a
	// frozen schema.
	SessionActive
)

// String returns the state name for display.
func (s SessionState) String() string {
	switch s {
	case SessionUninitialized:
		return "Uninitialized"
	case SessionActive:
		return "Active"
	default:
		return "Unknown"
	}
}

// Session owns the single active experiment for its lifetime and mediates
// all subsequent operations. There is no multi-experiment switching: a session
// transitions Uninitialized -> Active exactly once, and the experiment schema
// is read-only thereafter.
//
// A failed Create commits no partial state; the session stays Uninitialized
// and a retry is a fresh creation attempt (which may yield a different
// backend-assigned ID, acceptable because no experiment existed yet).
//
// Session is safe for concurrent use.
type Session struct {
	client *Client

	mu         sync.Mutex
	experiment *Experiment
	trials     *TrialController
}

// NewSession creates a session backed by the given client.
func NewSession(client *Client) *Session {
	return &Session{client: client}
}

// Create registers the experiment with the backend and freezes its schema in
// the session. On failure the error is a *CreationError (or a validation
// error) and the session remains Uninitialized.
//
// Creating a second experiment on an active session fails with
// ErrExperimentActive.
func (s *Session) Create(ctx context.Context, req *ExperimentCreationRequest) (*Experiment, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	s.mu.Lock()
	if s.experiment != nil {
		s.mu.Unlock()
		return nil, ErrExperimentActive
	}
	s.mu.Unlock()

	resp, err := s.client.CreateExperiment(ctx, req)
	if err != nil {
		return nil, err
	}

	exp := &Experiment{
		ID:         resp.ExperimentID,
		Name:       req.Name,
		Parameters: append([]Parameter(nil), req.Parameters...),
		Objectives: append([]Objective(nil), req.Objectives...),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.experiment != nil {
		// A concurrent Create won the race; keep its experiment.
		return nil, ErrExperimentActive
	}
	s.experiment = exp
	s.trials = newTrialController(s.client, exp)
	return exp, nil
}

// State returns the session's lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.experiment == nil {
		return SessionUninitialized
	}
	return SessionActive
}

// Active reports whether an experiment has been created.
func (s *Session) Active() bool {
	return s.State() == SessionActive
}

// Experiment returns the frozen experiment schema, or nil before creation.
// The returned value is read-only.
func (s *Session) Experiment() *Experiment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.experiment
}

// Trials returns the trial controller, or nil before creation.
func (s *Session) Trials() *TrialController {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trials
}

// RequestTrial asks the backend for the next trial.
// See [TrialController.RequestTrial].
func (s *Session) RequestTrial(ctx context.Context) (*Trial, error) {
	tc := s.Trials()
	if tc == nil {
		return nil, ErrNoActiveExperiment
	}
	return tc.RequestTrial(ctx)
}

// SubmitResult reports the proposed trial's observed objective values.
// See [TrialController.SubmitResult].
func (s *Session) SubmitResult(ctx context.Context, values map[string]float64) (*CompletedTrial, error) {
	tc := s.Trials()
	if tc == nil {
		return nil, ErrNoActiveExperiment
	}
	return tc.SubmitResult(ctx, values)
}

// History returns the completed-trial history in submission order.
// It is empty before creation.
func (s *Session) History() []CompletedTrial {
	tc := s.Trials()
	if tc == nil {
		return nil
	}
	return tc.History()
}

// ParetoFront retrieves the backend-computed Pareto front. It fails with
// ErrNoActiveExperiment before creation and with ErrSingleObjective for
// experiments with fewer than two objectives; Pareto retrieval is simply not
// offered there.
func (s *Session) ParetoFront(ctx context.Context) ([]ParetoPoint, error) {
	s.mu.Lock()
	exp := s.experiment
	s.mu.Unlock()

	if exp == nil {
		return nil, ErrNoActiveExperiment
	}
	if !exp.IsMultiObjective() {
		return nil, ErrSingleObjective
	}
	return s.client.ParetoFront(ctx, exp.ID)
}
