package api

import (
	"encoding/json"
	"testing"
)

func TestAPIErrorInterface(t *testing.T) {
	var _ error = &APIError{}
}

func TestAPIErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			"with param",
			&APIError{Type: ErrorTypeInvalidArgument, Param: "model_content", Message: "too large"},
			"invalid_argument: too large (param: model_content)",
		},
		{
			"without param",
			&APIError{Type: ErrorTypeInternal, Message: "Solve error: boom"},
			"internal: Solve error: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("APIError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name      string
		err       *APIError
		wantType  ErrorType
		wantParam string
	}{
		{"invalid argument", NewInvalidArgumentError("command", "Command not found: x"), ErrorTypeInvalidArgument, "command"},
		{"unimplemented", NewUnimplementedError("Solver minisat is not available on this system"), ErrorTypeUnimplemented, ""},
		{"internal", NewInternalError("Solve error: boom"), ErrorTypeInternal, ""},
		{"resource exhausted", NewResourceExhaustedError("slow down"), ErrorTypeResourceExhausted, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", tt.err.Type, tt.wantType)
			}
			if tt.err.Param != tt.wantParam {
				t.Errorf("Param = %q, want %q", tt.err.Param, tt.wantParam)
			}
		})
	}
}

func TestErrorResponseJSON(t *testing.T) {
	resp := ErrorResponse{Error: NewInvalidArgumentError("", "Parse error: bad").WithCode(CodeParseError)}
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"error":{"type":"invalid_argument","code":"parse_error","message":"Parse error: bad"}}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}
