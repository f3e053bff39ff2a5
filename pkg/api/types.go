package api

// SolveRequest asks the service to solve one or more commands of a model.
type SolveRequest struct {
	// ModelContent is the model source text. Required, non-blank.
	ModelContent string `json:"model_content"`

	// SolverType selects the SAT backend. UNSPECIFIED means the default backend.
	SolverType SolverType `json:"solver_type,omitempty"`

	// SolverOptions tunes the engine. Nil keeps every engine default.
	SolverOptions *SolverOptions `json:"solver_options,omitempty"`

	// Command selects what to execute: empty for the first command,
	// "*" or "ALL" for every command, an index, or a command label.
	Command string `json:"command,omitempty"`

	// OutputFormat selects how a satisfiable solution is rendered.
	OutputFormat OutputFormat `json:"output_format,omitempty"`
}

// SolverOptions carries the wire-level engine configuration.
// Numeric fields left at zero keep the engine default; zero cannot be
// requested explicitly.
type SolverOptions struct {
	Unrolls              int32 `json:"unrolls,omitempty"`
	SkolemDepth          int32 `json:"skolem_depth,omitempty"`
	CoreMinimization     int32 `json:"core_minimization,omitempty"`
	CoreGranularity      int32 `json:"core_granularity,omitempty"`
	DecomposeMode        int32 `json:"decompose_mode,omitempty"`
	DecomposeThreads     int32 `json:"decompose_threads,omitempty"`
	SymmetryBreaking     bool  `json:"symmetry_breaking"`
	NoOverflow           bool  `json:"no_overflow,omitempty"`
	InferPartialInstance bool  `json:"infer_partial_instance,omitempty"`
}

// SolveResponse is the result of a Solve call.
//
// SolutionData is empty when the outcome is unsatisfiable or when an
// in-band error occurred. ErrorMessage is empty on success.
type SolveResponse struct {
	Satisfiable  bool              `json:"satisfiable"`
	SolutionData string            `json:"solution_data"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Metadata     *SolutionMetadata `json:"metadata,omitempty"`
}

// SolutionMetadata describes how a response was produced.
type SolutionMetadata struct {
	SolvingTimeMs    int64  `json:"solving_time_ms"`
	SolverUsed       string `json:"solver_used"`
	Bitwidth         int32  `json:"bitwidth"`
	MaxSeq           int32  `json:"max_seq"`
	Unrolls          int32  `json:"unrolls"`
	SkolemDepth      int32  `json:"skolem_depth"`
	SymmetryBreaking bool   `json:"symmetry_breaking"`
	Incremental      bool   `json:"incremental"`
	ExecutedCommand  string `json:"executed_command"`
}

// PingRequest is the liveness probe input.
type PingRequest struct {
	Message string `json:"message,omitempty"`
}

// PingResponse reports server identity and installed backends.
type PingResponse struct {
	Message          string   `json:"message"`
	Timestamp        int64    `json:"timestamp"` // Unix milliseconds
	Version          string   `json:"version"`
	AvailableSolvers []string `json:"available_solvers"`
}
