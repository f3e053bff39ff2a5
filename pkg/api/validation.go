package api

import (
	"fmt"
	"strings"
)

// EmptyModelMessage is the in-band error text returned for blank model content.
const EmptyModelMessage = "Model content cannot be empty"

// ValidationConfig holds configurable limits for request validation.
type ValidationConfig struct {
	MaxModelBytes int
}

// DefaultValidationConfig returns a ValidationConfig with sensible defaults.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MaxModelBytes: 4 << 20, // 4 MiB
	}
}

// ValidateModelContent reports whether the model text is usable. It returns
// the in-band error message for blank content and "" otherwise.
func ValidateModelContent(text string) string {
	if strings.TrimSpace(text) == "" {
		return EmptyModelMessage
	}
	return ""
}

// ValidateRequest checks a SolveRequest for hard validation failures.
// Blank model content is not reported here; it is an in-band error (see
// ValidateModelContent).
func ValidateRequest(req *SolveRequest, cfg ValidationConfig) *APIError {
	if cfg.MaxModelBytes > 0 && len(req.ModelContent) > cfg.MaxModelBytes {
		return NewInvalidArgumentError("model_content",
			fmt.Sprintf("model content exceeds maximum of %d bytes", cfg.MaxModelBytes)).
			WithCode(CodeModelTooLarge)
	}
	return nil
}
