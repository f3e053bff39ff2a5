package api

import "fmt"

// ErrorType represents the category of an API error.
type ErrorType string

const (
	// ErrorTypeInvalidArgument covers malformed requests, parse and type
	// errors in the model, and command specifiers that do not resolve.
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"

	// ErrorTypeUnimplemented reports a requested backend that is not installed.
	ErrorTypeUnimplemented ErrorType = "unimplemented"

	// ErrorTypeInternal covers engine failures and anything unexpected.
	ErrorTypeInternal ErrorType = "internal"

	// ErrorTypeResourceExhausted is raised by transport limiters only. The
	// engine never produces it.
	ErrorTypeResourceExhausted ErrorType = "resource_exhausted"
)

// Error codes refine an ErrorType for clients that branch on the cause.
const (
	CodeModelTooLarge       = "model_too_large"
	CodeSolverUnavailable   = "solver_unavailable"
	CodeParseError          = "parse_error"
	CodeCommandNotFound     = "command_not_found"
	CodeNoCommandsAvailable = "no_commands_available"
	CodeSolveFailed         = "solve_failed"
	CodeRateLimited         = "rate_limited"
)

// APIError represents a structured API error with type, code, param, and message.
type APIError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// WithCode returns e with Code set. It mutates and returns the receiver so
// constructors can be chained.
func (e *APIError) WithCode(code string) *APIError {
	e.Code = code
	return e
}

// ErrorResponse wraps an APIError for JSON serialization as the top-level error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewInvalidArgumentError creates an APIError for invalid request input.
func NewInvalidArgumentError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidArgument,
		Param:   param,
		Message: message,
	}
}

// NewUnimplementedError creates an APIError for features or backends that
// are not available on this server.
func NewUnimplementedError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeUnimplemented,
		Message: message,
	}
}

// NewInternalError creates an APIError for engine failures and internal faults.
func NewInternalError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInternal,
		Message: message,
	}
}

// NewResourceExhaustedError creates an APIError for rejected load.
func NewResourceExhaustedError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeResourceExhausted,
		Code:    CodeRateLimited,
		Message: message,
	}
}
