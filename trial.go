package seqopt

import (
	"context"
	"maps"
	"sync"
)

// TrialState identifies the trial controller's lifecycle state.
type TrialState int

// Trial controller states.
const (
	// TrialIdle means no trial is proposed; RequestTrial may proceed.
	TrialIdle TrialState = iota
	// TrialProposed means a trial was fetched and is awaiting its result.
	TrialProposed
)

// String returns the state name for display.
func (s TrialState) String() string {
	switch s {
	case TrialIdle:
		return "Idle"
	case TrialProposed:
		return "Proposed"
	default:
		return "Unknown"
	}
}

// TrialController enforces the single-trial-in-flight protocol and grows the
// completed-trial history for one experiment.
//
// The controller moves Idle -> Proposed when a trial is fetched and back to
// Idle when its result is accepted. The gate is checked and latched under the
// controller's lock before any network activity starts, so two rapid calls
// can never both pass a stale Idle check; the overlapping caller is rejected
// with ErrNotReady, not queued.
//
// Failures leave the state machine where it was: a failed fetch keeps the
// controller Idle, a rejected submission keeps the proposed trial intact for
// a corrected retry. Nothing ever deletes or reorders history entries.
type TrialController struct {
	client     *Client
	experiment *Experiment

	mu       sync.Mutex
	state    TrialState
	inFlight bool
	proposed *Trial
	history  []CompletedTrial
}

// newTrialController creates a controller for a created experiment.
// The experiment schema is already validated; a schema with zero objectives
// or parameters is impossible by construction.
func newTrialController(client *Client, experiment *Experiment) *TrialController {
	return &TrialController{
		client:     client,
		experiment: experiment,
		state:      TrialIdle,
	}
}

// State returns the controller's lifecycle state.
func (t *TrialController) State() TrialState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// InFlight reports whether a backend call is currently outstanding.
// UIs use this to show a loading indicator between request and response.
func (t *TrialController) InFlight() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight
}

// Proposed returns a copy of the trial awaiting its result, or nil when Idle.
func (t *TrialController) Proposed() *Trial {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.proposed == nil {
		return nil
	}
	cp := Trial{TrialID: t.proposed.TrialID, Parameters: maps.Clone(t.proposed.Parameters)}
	return &cp
}

// History returns the completed trials in submission order. Submission order
// is the order results were accepted, not backend trial-ID order. The
// returned slice is a copy; the underlying history is append-only.
func (t *TrialController) History() []CompletedTrial {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]CompletedTrial(nil), t.history...)
}

// RequestTrial fetches the next suggested parameter assignment.
//
// It is only callable from Idle: while a trial is proposed or another call is
// outstanding it fails with ErrNotReady without issuing any network call (the
// backend assumes exactly one outstanding trial per client). A backend
// failure surfaces as *TrialFetchError and leaves the controller Idle, so the
// request is safe to re-issue.
func (t *TrialController) RequestTrial(ctx context.Context) (*Trial, error) {
	t.mu.Lock()
	if t.state != TrialIdle || t.inFlight {
		t.mu.Unlock()
		return nil, ErrNotReady
	}
	t.inFlight = true
	t.mu.Unlock()

	trial, err := t.client.NextTrial(ctx, t.experiment.ID)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFlight = false
	if err != nil {
		return nil, err
	}

	t.proposed = trial
	t.state = TrialProposed

	cp := Trial{TrialID: trial.TrialID, Parameters: maps.Clone(trial.Parameters)}
	return &cp, nil
}

// SubmitResult reports the observed objective values for the proposed trial.
//
// Preconditions, all checked before any network activity:
//   - a trial must be proposed (ErrNoProposedTrial otherwise);
//   - no other call may be outstanding (ErrNotReady);
//   - values must cover every declared objective (*IncompleteResultError
//     listing the missing names) and contain no unknown names.
//
// On acceptance the completed trial is appended to the history, the proposal
// is cleared, and the controller returns to Idle. On backend rejection
// (*SubmitError) the proposed trial is preserved exactly as it was, so the
// caller may retry with corrected values.
func (t *TrialController) SubmitResult(ctx context.Context, values map[string]float64) (*CompletedTrial, error) {
	t.mu.Lock()
	if t.state != TrialProposed || t.proposed == nil {
		t.mu.Unlock()
		return nil, ErrNoProposedTrial
	}
	if t.inFlight {
		t.mu.Unlock()
		return nil, ErrNotReady
	}

	var missing []string
	for _, obj := range t.experiment.Objectives {
		if _, ok := values[obj.Name]; !ok {
			missing = append(missing, obj.Name)
		}
	}
	if len(missing) > 0 {
		t.mu.Unlock()
		return nil, &IncompleteResultError{Missing: missing}
	}
	if len(values) > len(t.experiment.Objectives) {
		for name := range values {
			if !t.hasObjective(name) {
				t.mu.Unlock()
				return nil, NewValidationError(name, "not a declared objective")
			}
		}
	}

	req := &CompleteTrialRequest{
		TrialID:         t.proposed.TrialID,
		Parameters:      maps.Clone(t.proposed.Parameters),
		ObjectiveValues: maps.Clone(values),
	}
	t.inFlight = true
	t.mu.Unlock()

	err := t.client.CompleteTrial(ctx, t.experiment.ID, req)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFlight = false
	if err != nil {
		// Proposed trial preserved for a corrected retry.
		return nil, err
	}

	done := CompletedTrial{
		TrialID:    req.TrialID,
		Parameters: req.Parameters,
		Result:     req.ObjectiveValues,
	}
	t.history = append(t.history, done)
	t.proposed = nil
	t.state = TrialIdle

	return &done, nil
}

// hasObjective reports whether name is a declared objective.
// Callers hold t.mu; the schema itself is immutable.
func (t *TrialController) hasObjective(name string) bool {
	for _, obj := range t.experiment.Objectives {
		if obj.Name == name {
			return true
		}
	}
	return false
}
