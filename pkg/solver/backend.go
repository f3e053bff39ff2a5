package solver

import (
	"slices"
	"strings"
)

// Backend identifies a SAT backend by its engine id.
type Backend string

const (
	BackendSAT4J         Backend = "sat4j"
	BackendMiniSat       Backend = "minisat"
	BackendGlucose       Backend = "glucose"
	BackendLingeling     Backend = "lingeling"
	BackendPLingeling    Backend = "plingeling"
	BackendCryptoMiniSat Backend = "cryptominisat"
)

// DefaultBackend is the built-in backend, always installed.
const DefaultBackend = BackendSAT4J

// KnownBackends lists every backend the service can name, default first.
var KnownBackends = []Backend{
	BackendSAT4J,
	BackendMiniSat,
	BackendGlucose,
	BackendLingeling,
	BackendPLingeling,
	BackendCryptoMiniSat,
}

// Registry records which backends are installed on this host.
// It is immutable after construction.
type Registry struct {
	installed []Backend
}

// NewRegistry returns a registry with the given installed backends. The
// default backend is always included and listed first; duplicates and
// empty ids are dropped, and ids are lowercased.
func NewRegistry(installed ...Backend) *Registry {
	r := &Registry{installed: []Backend{DefaultBackend}}
	for _, b := range installed {
		b = Backend(strings.ToLower(strings.TrimSpace(string(b))))
		if b == "" || slices.Contains(r.installed, b) {
			continue
		}
		r.installed = append(r.installed, b)
	}
	return r
}

// Available reports whether b is installed.
func (r *Registry) Available(b Backend) bool {
	return slices.Contains(r.installed, b)
}

// IDs returns the installed backend ids in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.installed))
	for i, b := range r.installed {
		ids[i] = string(b)
	}
	return ids
}
