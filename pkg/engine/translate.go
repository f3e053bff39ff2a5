package engine

import (
	"github.com/rhuss/alloyrpc/pkg/api"
	"github.com/rhuss/alloyrpc/pkg/solver"
)

// backendTable maps wire solver types to engine backend ids.
var backendTable = map[api.SolverType]solver.Backend{
	api.SolverTypeSAT4J:         solver.BackendSAT4J,
	api.SolverTypeMiniSat:       solver.BackendMiniSat,
	api.SolverTypeGlucose:       solver.BackendGlucose,
	api.SolverTypeLingeling:     solver.BackendLingeling,
	api.SolverTypePLingeling:    solver.BackendPLingeling,
	api.SolverTypeCryptoMiniSat: solver.BackendCryptoMiniSat,
}

// TranslateBackend maps a wire solver type to a backend id. Unspecified
// and unknown values map to the default backend.
func TranslateBackend(st api.SolverType) solver.Backend {
	if b, ok := backendTable[st]; ok {
		return b
	}
	return solver.DefaultBackend
}

// ToWireSolverType is the reverse of TranslateBackend. Backends outside the
// table map to SAT4J.
func ToWireSolverType(b solver.Backend) api.SolverType {
	for st, id := range backendTable {
		if id == b {
			return st
		}
	}
	return api.SolverTypeSAT4J
}

// TranslateOptions converts wire options into engine options. It never
// fails. Numeric fields override the engine default only when non-zero.
// A nil wire value keeps every default, including symmetry breaking.
func TranslateOptions(wire *api.SolverOptions, st api.SolverType) solver.Options {
	opts := solver.DefaultOptions()
	opts.Backend = TranslateBackend(st)

	if wire == nil {
		return opts
	}

	copyNonZero(&opts.Unrolls, wire.Unrolls)
	copyNonZero(&opts.SkolemDepth, wire.SkolemDepth)
	copyNonZero(&opts.CoreMinimization, wire.CoreMinimization)
	copyNonZero(&opts.CoreGranularity, wire.CoreGranularity)
	copyNonZero(&opts.DecomposeMode, wire.DecomposeMode)
	copyNonZero(&opts.DecomposeThreads, wire.DecomposeThreads)

	opts.Symmetry = 0
	if wire.SymmetryBreaking {
		opts.Symmetry = solver.DefaultSymmetryStrength
	}
	opts.NoOverflow = wire.NoOverflow
	opts.InferPartialInstance = wire.InferPartialInstance

	return opts
}

// ToWireOptions converts engine options back to the wire form. Any
// positive symmetry strength reads as symmetry breaking on.
func ToWireOptions(opts solver.Options) *api.SolverOptions {
	return &api.SolverOptions{
		Unrolls:              int32(opts.Unrolls),
		SkolemDepth:          int32(opts.SkolemDepth),
		CoreMinimization:     int32(opts.CoreMinimization),
		CoreGranularity:      int32(opts.CoreGranularity),
		DecomposeMode:        int32(opts.DecomposeMode),
		DecomposeThreads:     int32(opts.DecomposeThreads),
		SymmetryBreaking:     opts.Symmetry > 0,
		NoOverflow:           opts.NoOverflow,
		InferPartialInstance: opts.InferPartialInstance,
	}
}

func copyNonZero(dst *int, v int32) {
	if v != 0 {
		*dst = int(v)
	}
}
