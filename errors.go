package seqopt

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a category of error for logging and handling.
type ErrorCode string

// Error codes for categorization.
const (
	ErrCodeConfig      ErrorCode = "CONFIG"       // Configuration errors
	ErrCodeValidation  ErrorCode = "VALIDATION"   // Client-side schema problems
	ErrCodeState       ErrorCode = "STATE"        // Lifecycle precondition failures
	ErrCodeNetwork     ErrorCode = "NETWORK"      // Network/connection errors
	ErrCodeAPI         ErrorCode = "API"          // API response errors
	ErrCodeCreation    ErrorCode = "CREATION"     // Experiment creation failures
	ErrCodeTrialFetch  ErrorCode = "TRIAL_FETCH"  // Next-trial retrieval failures
	ErrCodeSubmit      ErrorCode = "SUBMIT"       // Trial result submission failures
	ErrCodeParetoFetch ErrorCode = "PARETO_FETCH" // Pareto front retrieval failures
	ErrCodeInternal    ErrorCode = "INTERNAL"     // Internal SDK errors
)

// ClientError is the common interface for all SDK errors.
// Use this interface to handle errors generically while still accessing
// error-specific information.
//
// Example:
//
//	var clientErr seqopt.ClientError
//	if errors.As(err, &clientErr) {
//	    log.Printf("error code: %s, retryable: %v", clientErr.Code(), clientErr.IsRetryable())
//	}
type ClientError interface {
	error

	// Code returns a machine-readable error code for categorization.
	Code() ErrorCode

	// IsRetryable returns true if re-invoking the same operation may succeed.
	IsRetryable() bool
}

// IsRetryable returns true if the error represents a retryable condition.
// Retryable conditions include rate limiting (429), server errors (5xx),
// and transport-level failures. Local precondition failures are never
// retryable: the caller must change something first.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.IsRetryable()
	}
	return false
}

// Sentinel errors for configuration validation.
var (
	ErrMissingBaseURL = errors.New("seqopt: base URL is required")
	ErrInvalidConfig  = errors.New("seqopt: invalid configuration")
	ErrNilRequest     = errors.New("seqopt: request cannot be nil")
)

// Sentinel errors for lifecycle preconditions. These are local failures and
// never correspond to network activity.
var (
	// ErrNoActiveExperiment is returned by session operations invoked before
	// an experiment has been created.
	ErrNoActiveExperiment = errors.New("seqopt: no active experiment")

	// ErrExperimentActive is returned when creating an experiment on a
	// session that already holds one.
	ErrExperimentActive = errors.New("seqopt: session already holds an experiment")

	// ErrNotReady is returned by RequestTrial while a proposed trial is
	// awaiting its result, or while another call is in flight.
	ErrNotReady = errors.New("seqopt: a trial is already proposed or in flight")

	// ErrNoProposedTrial is returned by SubmitResult when no trial is
	// awaiting a result.
	ErrNoProposedTrial = errors.New("seqopt: no proposed trial to complete")

	// ErrSingleObjective is returned when Pareto-front retrieval is invoked
	// on a single-objective experiment.
	ErrSingleObjective = errors.New("seqopt: pareto front requires a multi-objective experiment")
)

// Sentinel APIError values for use with errors.Is().
// These match on status code only.
var (
	ErrNotFound    = &APIError{StatusCode: 404}
	ErrBadRequest  = &APIError{StatusCode: 400}
	ErrRateLimited = &APIError{StatusCode: 429}
)

// APIError represents a non-2xx response from the optimization backend.
// It supports error wrapping via Unwrap() and comparison via Is().
type APIError struct {
	StatusCode int    `json:"-"`
	Detail     string `json:"detail"`  // FastAPI-style error body
	Message    string `json:"message"` // Fallback message field
	Err        error  `json:"-"`       // Underlying error for wrapping
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if msg := e.BackendMessage(); msg != "" {
		return fmt.Sprintf("seqopt: API error (status %d): %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("seqopt: API error (status %d)", e.StatusCode)
}

// BackendMessage returns the backend's error message, if one was present in
// the response body.
func (e *APIError) BackendMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain support.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for errors.Is().
// It matches on status code, allowing comparisons like:
//
//	if errors.Is(err, seqopt.ErrNotFound) { ... }
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode
}

// IsNotFound returns true if the error is a 404 Not Found error.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsServerError returns true if the error is a 5xx server error.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsRetryable returns true if the request may be retried.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode == 429 || e.IsServerError()
}

// Code returns the error code for the API error.
// Implements the ClientError interface.
func (e *APIError) Code() ErrorCode {
	return ErrCodeAPI
}

// Ensure APIError implements ClientError.
var _ ClientError = (*APIError)(nil)

// ValidationError represents a client-side schema problem. Validation errors
// are caught at the call site and never sent over the wire.
type ValidationError struct {
	Field   string
	Message string
	Err     error // Underlying error for wrapping
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("seqopt: validation error for field %q: %s", e.Field, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Code returns the error code for the validation error.
func (e *ValidationError) Code() ErrorCode {
	return ErrCodeValidation
}

// IsRetryable returns false for validation errors (they should be fixed,
// not retried).
func (e *ValidationError) IsRetryable() bool {
	return false
}

// Ensure ValidationError implements ClientError.
var _ ClientError = (*ValidationError)(nil)

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IncompleteResultError is returned by SubmitResult when the supplied value
// mapping does not cover every declared objective. The proposed trial is left
// unchanged and no network call is made.
type IncompleteResultError struct {
	// Missing lists the declared objectives lacking a value, in declaration
	// order.
	Missing []string
}

// Error implements the error interface.
func (e *IncompleteResultError) Error() string {
	return fmt.Sprintf("seqopt: incomplete result: missing values for %s",
		strings.Join(e.Missing, ", "))
}

// Code returns the error code for the incomplete-result error.
func (e *IncompleteResultError) Code() ErrorCode {
	return ErrCodeState
}

// IsRetryable returns false; the caller must supply the missing values.
func (e *IncompleteResultError) IsRetryable() bool {
	return false
}

// Ensure IncompleteResultError implements ClientError.
var _ ClientError = (*IncompleteResultError)(nil)

// CreationError wraps a failed experiment-creation request. The session
// remains uninitialized, so a retry is a fresh creation attempt.
type CreationError struct {
	Err error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("seqopt: experiment creation failed: %v", e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// Code returns the error code for the creation error.
func (e *CreationError) Code() ErrorCode { return ErrCodeCreation }

// IsRetryable delegates to the wrapped transport or API error.
func (e *CreationError) IsRetryable() bool { return wrappedRetryable(e.Err) }

// BackendMessage returns the backend's message when one is available.
func (e *CreationError) BackendMessage() string { return backendMessage(e.Err) }

// TrialFetchError wraps a failed next-trial request. The trial controller
// remains Idle, so the request is safe to re-issue.
type TrialFetchError struct {
	Err error
}

func (e *TrialFetchError) Error() string {
	return fmt.Sprintf("seqopt: trial fetch failed: %v", e.Err)
}

func (e *TrialFetchError) Unwrap() error { return e.Err }

// Code returns the error code for the trial-fetch error.
func (e *TrialFetchError) Code() ErrorCode { return ErrCodeTrialFetch }

// IsRetryable delegates to the wrapped transport or API error.
func (e *TrialFetchError) IsRetryable() bool { return wrappedRetryable(e.Err) }

// BackendMessage returns the backend's message when one is available.
func (e *TrialFetchError) BackendMessage() string { return backendMessage(e.Err) }

// SubmitError wraps a rejected trial-result submission. The proposed trial is
// preserved so the caller may retry with corrected values.
type SubmitError struct {
	TrialID int
	Err     error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("seqopt: result submission for trial %d failed: %v", e.TrialID, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// Code returns the error code for the submit error.
func (e *SubmitError) Code() ErrorCode { return ErrCodeSubmit }

// IsRetryable delegates to the wrapped transport or API error.
func (e *SubmitError) IsRetryable() bool { return wrappedRetryable(e.Err) }

// BackendMessage returns the backend's message when one is available.
func (e *SubmitError) BackendMessage() string { return backendMessage(e.Err) }

// ParetoFetchError wraps a failed Pareto-front request.
type ParetoFetchError struct {
	Err error
}

func (e *ParetoFetchError) Error() string {
	return fmt.Sprintf("seqopt: pareto front fetch failed: %v", e.Err)
}

func (e *ParetoFetchError) Unwrap() error { return e.Err }

// Code returns the error code for the pareto-fetch error.
func (e *ParetoFetchError) Code() ErrorCode { return ErrCodeParetoFetch }

// IsRetryable delegates to the wrapped transport or API error.
func (e *ParetoFetchError) IsRetryable() bool { return wrappedRetryable(e.Err) }

// BackendMessage returns the backend's message when one is available.
func (e *ParetoFetchError) BackendMessage() string { return backendMessage(e.Err) }

var (
	_ ClientError = (*CreationError)(nil)
	_ ClientError = (*TrialFetchError)(nil)
	_ ClientError = (*SubmitError)(nil)
	_ ClientError = (*ParetoFetchError)(nil)
)

// wrappedRetryable reports whether the wrapped cause is retryable.
// Transport failures without an APIError in the chain are treated as
// retryable network errors.
func wrappedRetryable(err error) bool {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.IsRetryable()
	}
	return err != nil
}

// backendMessage extracts the backend's error message from a wrapped chain.
func backendMessage(err error) string {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.BackendMessage()
	}
	return ""
}

// AsAPIError extracts an APIError from the error chain.
// Returns the APIError and true if found, nil and false otherwise.
// This follows Go's errors.As() convention.
//
// Example:
//
//	if apiErr, ok := seqopt.AsAPIError(err); ok {
//	    log.Printf("API error %d: %s", apiErr.StatusCode, apiErr.BackendMessage())
//	}
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// AsValidationError extracts a ValidationError from the error chain.
// Returns the ValidationError and true if found, nil and false otherwise.
func AsValidationError(err error) (*ValidationError, bool) {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr, true
	}
	return nil, false
}

// AsIncompleteResult extracts an IncompleteResultError from the error chain.
// Returns the IncompleteResultError and true if found, nil and false otherwise.
func AsIncompleteResult(err error) (*IncompleteResultError, bool) {
	var incErr *IncompleteResultError
	if errors.As(err, &incErr) {
		return incErr, true
	}
	return nil, false
}

// ErrorCodeOf returns the error code for an error.
// It checks if the error implements ClientError, then falls back to
// inferring the code from sentinel errors.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}

	var coded ClientError
	if errors.As(err, &coded) {
		return coded.Code()
	}

	switch {
	case errors.Is(err, ErrMissingBaseURL),
		errors.Is(err, ErrInvalidConfig):
		return ErrCodeConfig

	case errors.Is(err, ErrNoActiveExperiment),
		errors.Is(err, ErrExperimentActive),
		errors.Is(err, ErrNotReady),
		errors.Is(err, ErrNoProposedTrial),
		errors.Is(err, ErrSingleObjective):
		return ErrCodeState
	}

	return ErrCodeInternal
}

// WrapError wraps an error with additional context.
// It returns nil if err is nil.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("seqopt: %s: %w", message, err)
}
