package types

import (
	"errors"
	"time"
)

const (
	// DefaultRatesURL is the public exchange-rate endpoint
	DefaultRatesURL = "https://api.exchangerate-api.com"

	// BaseCurrency is the fixed base all exchange rates are relative to
	BaseCurrency = "USD"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// UserAgent is the user agent string
	UserAgent = "fintrack-go/1.0.0"
)

// Common errors
var (
	// ErrRateLimited is returned when rate limited
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout is returned on timeout
	ErrTimeout = errors.New("request timeout")

	// ErrNotFound is returned when resource not found
	ErrNotFound = errors.New("resource not found")

	// ErrServerError is returned for server errors
	ErrServerError = errors.New("server error")

	// ErrInvalidResponse is returned when a response body lacks required fields
	ErrInvalidResponse = errors.New("invalid response")
)
