package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"

	"github.com/rhuss/alloyrpc/pkg/api"
)

// HTTPStatusFromError maps an APIError type to the corresponding HTTP status
// code. Transport-level errors (body too large, unsupported content type,
// method not allowed) are handled separately by the HTTP adapter.
func HTTPStatusFromError(err *api.APIError) int {
	switch err.Type {
	case api.ErrorTypeInvalidArgument:
		return http.StatusBadRequest
	case api.ErrorTypeUnimplemented:
		return http.StatusNotImplemented
	case api.ErrorTypeResourceExhausted:
		return http.StatusTooManyRequests
	case api.ErrorTypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// GRPCCodeFromError maps an APIError type to the corresponding gRPC code.
func GRPCCodeFromError(err *api.APIError) codes.Code {
	switch err.Type {
	case api.ErrorTypeInvalidArgument:
		return codes.InvalidArgument
	case api.ErrorTypeUnimplemented:
		return codes.Unimplemented
	case api.ErrorTypeResourceExhausted:
		return codes.ResourceExhausted
	case api.ErrorTypeInternal:
		return codes.Internal
	default:
		return codes.Internal
	}
}

// ErrorTypeFromGRPCCode is the reverse of GRPCCodeFromError, used by
// clients. Codes outside the taxonomy map to internal.
func ErrorTypeFromGRPCCode(c codes.Code) api.ErrorType {
	switch c {
	case codes.InvalidArgument:
		return api.ErrorTypeInvalidArgument
	case codes.Unimplemented:
		return api.ErrorTypeUnimplemented
	case codes.ResourceExhausted:
		return api.ErrorTypeResourceExhausted
	default:
		return api.ErrorTypeInternal
	}
}

// AsAPIError returns err as an *api.APIError. Errors of any other type are
// wrapped as internal errors.
func AsAPIError(err error) *api.APIError {
	if err == nil {
		return nil
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return api.NewInternalError("Internal error: " + err.Error())
}

// WriteErrorResponse writes a JSON error response using the ErrorResponse
// wrapper format from pkg/api. It sets the Content-Type header and writes
// the HTTP status code.
func WriteErrorResponse(w http.ResponseWriter, apiErr *api.APIError, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: apiErr})
}

// WriteAPIError writes an APIError response, deriving the HTTP status code
// from the error type.
func WriteAPIError(w http.ResponseWriter, apiErr *api.APIError) {
	WriteErrorResponse(w, apiErr, HTTPStatusFromError(apiErr))
}
