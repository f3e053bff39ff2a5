package solver

import "sync"

// Reporter receives non-fatal diagnostics while a model is parsed.
type Reporter interface {
	Warning(msg string)
}

// CollectingReporter keeps every warning it receives.
type CollectingReporter struct {
	mu       sync.Mutex
	warnings []string
}

// Warning records msg.
func (r *CollectingReporter) Warning(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
}

// Warnings returns a copy of the warnings collected so far.
func (r *CollectingReporter) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.warnings))
	copy(out, r.warnings)
	return out
}
