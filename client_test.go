package seqopt

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

// recordingHandler captures the last request it served and replies with a
// fixed status and body.
type recordingHandler struct {
	status int
	body   string

	method      string
	path        string
	rawPath     string
	requestBody []byte
	userAgent   string
	contentType string
}

func (h *recordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.rawPath = r.URL.EscapedPath()
	h.userAgent = r.Header.Get("User-Agent")
	h.contentType = r.Header.Get("Content-Type")
	h.requestBody, _ = io.ReadAll(r.Body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(h.status)
	w.Write([]byte(h.body))
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(WithBaseURL(server.URL), WithRetryDelay(time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestCreateExperiment(t *testing.T) {
	handler := &recordingHandler{
		status: http.StatusOK,
		body:   `{"experiment_id": "exp-42", "status": "created"}`,
	}
	client := newTestClient(t, handler)

	resp, err := client.CreateExperiment(context.Background(), &ExperimentCreationRequest{
		Name: "E1",
		Parameters: []Parameter{
			RangeParameter("T", 0, 100),
			ChoiceParameter("catalyst", "Pd", "Pt"),
			FixedParameter("pressure", 1.0),
		},
		Objectives: []Objective{
			{Name: "Yield", Minimize: false},
			{Name: "Cost", Minimize: true},
		},
		PrimaryObjective: "Yield",
	})
	if err != nil {
		t.Fatalf("CreateExperiment failed: %v", err)
	}

	if resp.ExperimentID != "exp-42" {
		t.Errorf("ExperimentID = %q, want exp-42", resp.ExperimentID)
	}
	if handler.method != http.MethodPost || handler.path != "/experiments" {
		t.Errorf("request = %s %s, want POST /experiments", handler.method, handler.path)
	}
	if handler.contentType != "application/json" {
		t.Errorf("Content-Type = %q", handler.contentType)
	}
	if want := "seqopt-go/" + Version; handler.userAgent != want {
		t.Errorf("User-Agent = %q, want %q", handler.userAgent, want)
	}

	// Wire shape: parameters as a tagged union, objectives with direction.
	var wire map[string]any
	if err := json.Unmarshal(handler.requestBody, &wire); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if wire["name"] != "E1" {
		t.Errorf("name = %v", wire["name"])
	}
	if wire["primary_objective"] != "Yield" {
		t.Errorf("primary_objective = %v", wire["primary_objective"])
	}
	params := wire["parameters"].([]any)
	if len(params) != 3 {
		t.Fatalf("parameters length = %d, want 3", len(params))
	}
	rangeParam := params[0].(map[string]any)
	if rangeParam["type"] != "range" {
		t.Errorf("parameters[0].type = %v, want range", rangeParam["type"])
	}
	if !reflect.DeepEqual(rangeParam["bounds"], []any{0.0, 100.0}) {
		t.Errorf("parameters[0].bounds = %v", rangeParam["bounds"])
	}
	if _, ok := rangeParam["values"]; ok {
		t.Errorf("range parameter must not carry values")
	}
	choiceParam := params[1].(map[string]any)
	if !reflect.DeepEqual(choiceParam["values"], []any{"Pd", "Pt"}) {
		t.Errorf("parameters[1].values = %v", choiceParam["values"])
	}
	fixedParam := params[2].(map[string]any)
	if fixedParam["value"] != 1.0 {
		t.Errorf("parameters[2].value = %v", fixedParam["value"])
	}
}

func TestCreateExperimentNilRequest(t *testing.T) {
	client := newTestClient(t, &recordingHandler{status: http.StatusOK, body: "{}"})

	_, err := client.CreateExperiment(context.Background(), nil)
	if !errors.Is(err, ErrNilRequest) {
		t.Errorf("error = %v, want ErrNilRequest", err)
	}
}

func TestCreateExperimentBackendError(t *testing.T) {
	handler := &recordingHandler{
		status: http.StatusBadRequest,
		body:   `{"detail": "at least one parameter must be defined"}`,
	}
	client := newTestClient(t, handler)

	_, err := client.CreateExperiment(context.Background(), &ExperimentCreationRequest{Name: "E1"})

	var creationErr *CreationError
	if !errors.As(err, &creationErr) {
		t.Fatalf("error = %v, want *CreationError", err)
	}
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("error chain has no *APIError: %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", apiErr.StatusCode)
	}
	if creationErr.BackendMessage() != "at least one parameter must be defined" {
		t.Errorf("BackendMessage = %q", creationErr.BackendMessage())
	}
}

func TestNextTrial(t *testing.T) {
	handler := &recordingHandler{
		status: http.StatusOK,
		body:   `{"trial_id": 3, "parameters": {"T": 42.5, "catalyst": "Pd"}}`,
	}
	client := newTestClient(t, handler)

	trial, err := client.NextTrial(context.Background(), "exp-42")
	if err != nil {
		t.Fatalf("NextTrial failed: %v", err)
	}

	if handler.method != http.MethodGet || handler.path != "/experiments/exp-42/next_trial" {
		t.Errorf("request = %s %s", handler.method, handler.path)
	}
	if trial.TrialID != 3 {
		t.Errorf("TrialID = %d, want 3", trial.TrialID)
	}
	if trial.DisplayNumber() != 4 {
		t.Errorf("DisplayNumber = %d, want 4", trial.DisplayNumber())
	}
	if trial.Parameters["catalyst"] != "Pd" {
		t.Errorf("Parameters[catalyst] = %v", trial.Parameters["catalyst"])
	}
}

func TestNextTrialEscapesExperimentID(t *testing.T) {
	handler := &recordingHandler{status: http.StatusOK, body: `{"trial_id": 0, "parameters": {}}`}
	client := newTestClient(t, handler)

	if _, err := client.NextTrial(context.Background(), "exp/42"); err != nil {
		t.Fatalf("NextTrial failed: %v", err)
	}
	// The ID must travel as a single escaped path segment.
	if strings.Count(handler.rawPath, "/") != 3 {
		t.Errorf("path = %q, experiment ID was not escaped", handler.rawPath)
	}
}

func TestNextTrialEmptyID(t *testing.T) {
	client := newTestClient(t, &recordingHandler{status: http.StatusOK, body: "{}"})

	_, err := client.NextTrial(context.Background(), "")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if vErr.Field != "experimentID" {
		t.Errorf("Field = %q", vErr.Field)
	}
}

func TestCompleteTrial(t *testing.T) {
	handler := &recordingHandler{status: http.StatusOK, body: `{"status": "success"}`}
	client := newTestClient(t, handler)

	err := client.CompleteTrial(context.Background(), "exp-42", &CompleteTrialRequest{
		TrialID:         3,
		Parameters:      map[string]any{"T": 42.5},
		ObjectiveValues: map[string]float64{"Yield": 0.8, "Cost": 12},
	})
	if err != nil {
		t.Fatalf("CompleteTrial failed: %v", err)
	}

	if handler.method != http.MethodPost || handler.path != "/experiments/exp-42/complete_trial" {
		t.Errorf("request = %s %s", handler.method, handler.path)
	}

	var wire map[string]any
	if err := json.Unmarshal(handler.requestBody, &wire); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if wire["trial_id"] != 3.0 {
		t.Errorf("trial_id = %v, want 3", wire["trial_id"])
	}
	values := wire["objective_values"].(map[string]any)
	if values["Yield"] != 0.8 {
		t.Errorf("objective_values.Yield = %v", values["Yield"])
	}
}

func TestCompleteTrialBackendRejection(t *testing.T) {
	handler := &recordingHandler{
		status: http.StatusBadRequest,
		body:   `{"detail": "objective value out of range"}`,
	}
	client := newTestClient(t, handler)

	err := client.CompleteTrial(context.Background(), "exp-42", &CompleteTrialRequest{TrialID: 3})

	var submitErr *SubmitError
	if !errors.As(err, &submitErr) {
		t.Fatalf("error = %v, want *SubmitError", err)
	}
	if submitErr.TrialID != 3 {
		t.Errorf("TrialID = %d, want 3", submitErr.TrialID)
	}
	if submitErr.BackendMessage() != "objective value out of range" {
		t.Errorf("BackendMessage = %q", submitErr.BackendMessage())
	}
}

func TestParetoFrontRequest(t *testing.T) {
	handler := &recordingHandler{
		status: http.StatusOK,
		body:   `[{"objectives": {"Yield": 0.9}, "parameters": {"T": 10}}]`,
	}
	client := newTestClient(t, handler)

	points, err := client.ParetoFront(context.Background(), "exp-42")
	if err != nil {
		t.Fatalf("ParetoFront failed: %v", err)
	}

	if handler.method != http.MethodGet || handler.path != "/experiments/exp-42/pareto_front" {
		t.Errorf("request = %s %s", handler.method, handler.path)
	}
	if len(points) != 1 || points[0].Objectives["Yield"] != 0.9 {
		t.Errorf("points = %+v", points)
	}
}

func TestParetoFrontNotFound(t *testing.T) {
	handler := &recordingHandler{
		status: http.StatusNotFound,
		body:   `{"detail": "Experiment not found"}`,
	}
	client := newTestClient(t, handler)

	_, err := client.ParetoFront(context.Background(), "missing")

	var fetchErr *ParetoFetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want *ParetoFetchError", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want errors.Is(ErrNotFound)", err)
	}
}

func TestHealth(t *testing.T) {
	handler := &recordingHandler{status: http.StatusOK, body: `{"status": "ok"}`}
	client := newTestClient(t, handler)

	status, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if handler.path != "/health" {
		t.Errorf("path = %q, want /health", handler.path)
	}
	if status.Status != "ok" {
		t.Errorf("Status = %q, want ok", status.Status)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		opts []ConfigOption
	}{
		{"bad scheme", []ConfigOption{WithBaseURL("ftp://example.com")}},
		{"unparseable URL", []ConfigOption{WithBaseURL("http://exa mple.com")}},
		{"negative timeout", []ConfigOption{WithTimeout(-1)}},
		{"negative retries", []ConfigOption{WithMaxRetries(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts...); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNewWithConfigNil(t *testing.T) {
	if _, err := NewWithConfig(nil); err == nil {
		t.Fatal("NewWithConfig(nil) succeeded, want error")
	}
}

func TestBaseURLTrimsTrailingSlash(t *testing.T) {
	client, err := New(WithBaseURL("http://localhost:8000/api/"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := client.BaseURL(); got != "http://localhost:8000/api" {
		t.Errorf("BaseURL = %q", got)
	}
}
