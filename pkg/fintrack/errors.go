package fintrack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eshaffer321/fintrack-go/internal/storage"
	internalTypes "github.com/eshaffer321/fintrack-go/internal/types"
)

var (
	// ErrNotLoaded is returned when the client is used before Load completes
	ErrNotLoaded = errors.New("finance state not loaded")

	// ErrNotFound is returned when a record does not exist
	ErrNotFound = internalTypes.ErrNotFound

	// ErrNothingToExport is returned by CSV export when there are no transactions
	ErrNothingToExport = errors.New("no transactions to export")

	// ErrNoRate is returned by Convert when the target currency has no rate
	ErrNoRate = errors.New("exchange rate not available")

	// ErrRatesUnavailable is returned when the exchange-rate fetch fails
	ErrRatesUnavailable = errors.New("exchange rates unavailable")

	// ErrRateLimited is returned when the rates endpoint rate limits
	ErrRateLimited = internalTypes.ErrRateLimited

	// ErrTimeout is returned on timeout
	ErrTimeout = internalTypes.ErrTimeout

	// ErrServerError is returned for server errors
	ErrServerError = internalTypes.ErrServerError

	// ErrSlotEmpty is returned by a Slot when nothing is stored under the key
	ErrSlotEmpty = storage.ErrNotFound
)

// Error represents a coded failure, typically from the rates endpoint
type Error struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"statusCode"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Err        error                  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}

	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Code == t.Code
}

// ValidationError represents a single invalid field
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []*ValidationError `json:"errors"`
}

// Error implements the error interface
func (e *ValidationErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "validation failed"
	case 1:
		return e.Errors[0].Error()
	}
	fields := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		fields[i] = fe.Field
	}
	return fmt.Sprintf("%d validation errors occurred: %s", len(e.Errors), strings.Join(fields, ", "))
}

// Field returns the error for the named field, or nil
func (e *ValidationErrors) Field(name string) *ValidationError {
	for _, fe := range e.Errors {
		if fe.Field == name {
			return fe
		}
	}
	return nil
}

func (e *ValidationErrors) add(field, message string, value interface{}) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message, Value: value})
}

// err returns nil when no field failed
func (e *ValidationErrors) err() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// WrapError wraps an error with additional context
func WrapError(err error, code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsValidationError checks if err carries validation failures
func IsValidationError(err error) bool {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *ValidationError
	return errors.As(err, &single)
}

// IsRetryable checks if error is retryable
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrServerError) {
		return true
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}

	var transportErr *internalTypes.Error
	if errors.As(err, &transportErr) {
		return transportErr.Retryable()
	}

	return false
}
