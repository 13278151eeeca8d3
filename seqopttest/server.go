package seqopttest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	seqopt "github.com/seqopt/seqopt-go"
)

// MockServer is a fake optimization backend that records requests for
// verification. The zero behavior serves all four lifecycle endpoints with
// workable defaults; set ResponseFunc to script responses instead.
type MockServer struct {
	*httptest.Server

	mu          sync.Mutex
	requests    []*RecordedRequest
	experiments int
	nextTrialID int

	// TrialParameters is the parameter assignment served by next_trial.
	// Defaults to {"x": 0.5}.
	TrialParameters map[string]any

	// Pareto is the point set served by pareto_front. Defaults to empty.
	Pareto []seqopt.ParetoPoint

	// ResponseFunc allows customizing responses. If nil, the default
	// routing above is used.
	ResponseFunc func(r *http.Request) (int, any)
}

// RecordedRequest represents a recorded HTTP request.
type RecordedRequest struct {
	Method      string
	Path        string
	Body        []byte
	ContentType string
}

// DecodeBody unmarshals the recorded JSON body into target.
func (r *RecordedRequest) DecodeBody(target any) error {
	return json.Unmarshal(r.Body, target)
}

// NewMockServer creates a new mock backend for testing.
// Callers must Close it when done.
func NewMockServer() *MockServer {
	ms := &MockServer{
		requests:        make([]*RecordedRequest, 0),
		TrialParameters: map[string]any{"x": 0.5},
	}

	ms.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
		}

		ms.mu.Lock()
		ms.requests = append(ms.requests, &RecordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Body:        body,
			ContentType: r.Header.Get("Content-Type"),
		})
		ms.mu.Unlock()

		status := http.StatusOK
		var response any

		if ms.ResponseFunc != nil {
			status, response = ms.ResponseFunc(r)
		} else {
			status, response = ms.route(r)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(response)
	}))

	return ms
}

// route produces the default response for a request.
func (ms *MockServer) route(r *http.Request) (int, any) {
	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && path == "/experiments":
		ms.mu.Lock()
		ms.experiments++
		id := fmt.Sprintf("exp-%d", ms.experiments)
		ms.mu.Unlock()
		return http.StatusOK, seqopt.ExperimentResponse{ExperimentID: id, Status: "created"}

	case r.Method == http.MethodGet && strings.HasSuffix(path, "/next_trial"):
		ms.mu.Lock()
		id := ms.nextTrialID
		ms.nextTrialID++
		params := ms.TrialParameters
		ms.mu.Unlock()
		return http.StatusOK, seqopt.Trial{TrialID: id, Parameters: params}

	case r.Method == http.MethodPost && strings.HasSuffix(path, "/complete_trial"):
		return http.StatusOK, map[string]string{"status": "success"}

	case r.Method == http.MethodGet && strings.HasSuffix(path, "/pareto_front"):
		ms.mu.Lock()
		points := ms.Pareto
		ms.mu.Unlock()
		if points == nil {
			points = []seqopt.ParetoPoint{}
		}
		return http.StatusOK, points

	case r.Method == http.MethodGet && path == "/health":
		return http.StatusOK, seqopt.HealthStatus{Status: "ok"}

	default:
		return http.StatusNotFound, map[string]string{"detail": "not found"}
	}
}

// Client creates a seqopt client pointed at the mock server.
func (ms *MockServer) Client(opts ...seqopt.ConfigOption) (*seqopt.Client, error) {
	allOpts := append([]seqopt.ConfigOption{seqopt.WithBaseURL(ms.URL)}, opts...)
	return seqopt.New(allOpts...)
}

// Requests returns all recorded requests.
func (ms *MockServer) Requests() []*RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]*RecordedRequest{}, ms.requests...)
}

// RequestCount returns the number of recorded requests.
func (ms *MockServer) RequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.requests)
}

// LastRequest returns the most recent request, or nil if none.
func (ms *MockServer) LastRequest() *RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if len(ms.requests) == 0 {
		return nil
	}
	return ms.requests[len(ms.requests)-1]
}

// RequestAt returns the request at the given index, or nil if out of bounds.
func (ms *MockServer) RequestAt(index int) *RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if index < 0 || index >= len(ms.requests) {
		return nil
	}
	return ms.requests[index]
}

// Reset clears all recorded requests and trial numbering.
func (ms *MockServer) Reset() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.requests = make([]*RecordedRequest, 0)
	ms.nextTrialID = 0
}

// SetResponseFunc sets the response function for customizing responses.
func (ms *MockServer) SetResponseFunc(fn func(r *http.Request) (int, any)) {
	ms.ResponseFunc = fn
}

// SetTrialID sets the trial ID the next next_trial response will carry.
// Use this to simulate backends that assign IDs out of order.
func (ms *MockServer) SetTrialID(id int) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.nextTrialID = id
}

// FailWith makes every subsequent request fail with the given status and
// backend detail message.
func (ms *MockServer) FailWith(status int, detail string) {
	ms.SetResponseFunc(func(r *http.Request) (int, any) {
		return status, map[string]string{"detail": detail}
	})
}

// Succeed restores the default routing after FailWith or SetResponseFunc.
func (ms *MockServer) Succeed() {
	ms.ResponseFunc = nil
}
