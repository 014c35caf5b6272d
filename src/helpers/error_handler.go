package helpers

import (
	"errors"
	"fmt"
	"sync"

	"portfolio-viewer/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type PortfolioError struct {
	Message string
	Cause   error
}

func (e *PortfolioError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PortfolioError) Unwrap() error {
	return e.Cause
}

// Helper to define distinct error types for type assertions if needed
type ConfigurationError struct{ PortfolioError }
type ValidationError struct{ PortfolioError }
type DatabaseError struct{ PortfolioError }

// FetchError is returned by the portfolio fetcher. StatusCode is the HTTP
// status of the last response, or 0 when no response was received.
type FetchError struct {
	PortfolioError
	StatusCode int
}

// -----------------------------------------------------------------------------

func NewFetchError(statusCode int, message string, cause error) *FetchError {
	return &FetchError{
		PortfolioError: PortfolioError{Message: message, Cause: cause},
		StatusCode:     statusCode,
	}
}

// -----------------------------------------------------------------------------

func NewConfigurationError(message string, cause error) *ConfigurationError {
	return &ConfigurationError{PortfolioError{Message: message, Cause: cause}}
}

// -----------------------------------------------------------------------------

func NewValidationError(message string, cause error) *ValidationError {
	return &ValidationError{PortfolioError{Message: message, Cause: cause}}
}

// -----------------------------------------------------------------------------

func NewDatabaseError(message string, cause error) *DatabaseError {
	return &DatabaseError{PortfolioError{Message: message, Cause: cause}}
}

// -----------------------------------------------------------------------------

// StatusCode extracts the HTTP status carried by a FetchError anywhere in
// the chain, or 0.
func StatusCode(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

type ErrorHandler struct {
	Logger     *logger.Logger
	errorCount int
	mu         sync.Mutex
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{Logger: log}
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) ResetErrorCount() {
	e.mu.Lock()
	e.errorCount = 0
	e.mu.Unlock()
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) ErrorCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errorCount
}

// -----------------------------------------------------------------------------

// Handle logs err with its context and counts it. nil is ignored.
func (e *ErrorHandler) Handle(err error, context string) {
	if err == nil {
		return
	}
	e.mu.Lock()
	e.errorCount++
	e.mu.Unlock()

	var fe *FetchError
	var de *DatabaseError
	switch {
	case errors.As(err, &fe):
		e.Logger.Warning("Fetch failed in %s (status %d): %v", context, fe.StatusCode, err)
	case errors.As(err, &de):
		e.Logger.Error("Database error in %s: %v", context, err)
	default:
		e.Logger.Error("Error in %s: %v", context, err)
	}
}
