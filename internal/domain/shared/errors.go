package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
)

// Query stages that can fail while assembling a filtered result.
// A multi-stage read either completes fully or fails with the stage
// that broke; partial results are never returned.
const (
	StageLocationLookup = "location_lookup"
	StageMovementLookup = "movement_lookup"
	StageBatchLookup    = "batch_lookup"
	StagePrimaryFetch   = "primary_fetch"
	StageCount          = "count"
)

// StageError tags a remote query failure with the stage it occurred in
type StageError struct {
	Stage string
	Err   error
}

// Error implements the error interface
func (e *StageError) Error() string {
	return fmt.Sprintf("query stage %s failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error
func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with the failing query stage
func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}
