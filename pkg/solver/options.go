package solver

// DefaultSymmetryStrength is the symmetry-breaking strength the engine
// applies when symmetry breaking is on.
const DefaultSymmetryStrength = 20

// Options is the engine's native configuration.
type Options struct {
	Unrolls              int     `json:"unrolls"`
	SkolemDepth          int     `json:"skolem_depth"`
	CoreMinimization     int     `json:"core_minimization"`
	CoreGranularity      int     `json:"core_granularity"`
	DecomposeMode        int     `json:"decompose_mode"`
	DecomposeThreads     int     `json:"decompose_threads"`
	Symmetry             int     `json:"symmetry"`
	NoOverflow           bool    `json:"no_overflow"`
	InferPartialInstance bool    `json:"infer_partial_instance"`
	Backend              Backend `json:"backend"`
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		Unrolls:          -1,
		SkolemDepth:      0,
		CoreMinimization: 2,
		CoreGranularity:  0,
		DecomposeMode:    0,
		DecomposeThreads: 4,
		Symmetry:         DefaultSymmetryStrength,
		Backend:          DefaultBackend,
	}
}
