package remote

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rhuss/alloyrpc/pkg/solver"
)

// mapHTTPError converts a non-2xx sidecar response into an error.
// 422 responses become *solver.ParseError; everything else is a plain
// error carrying the sidecar's message.
func mapHTTPError(resp *http.Response) error {
	body := extractErrorBody(resp.Body)

	if resp.StatusCode == http.StatusUnprocessableEntity {
		msg := body.Message
		if msg == "" {
			msg = "model could not be parsed"
		}
		return &solver.ParseError{Message: msg, Line: body.Line, Column: body.Column}
	}

	if body.Message == "" {
		return fmt.Errorf("engine sidecar error (HTTP %d)", resp.StatusCode)
	}
	return fmt.Errorf("%s", body.Message)
}

// mapNetworkError wraps connection-level failures.
func mapNetworkError(err error) error {
	return fmt.Errorf("engine sidecar connection error: %w", err)
}

func extractErrorBody(r io.Reader) errorBody {
	if r == nil {
		return errorBody{}
	}
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(data) == 0 {
		return errorBody{}
	}
	var er errorResponse
	if err := json.Unmarshal(data, &er); err != nil {
		return errorBody{}
	}
	return er.Error
}
