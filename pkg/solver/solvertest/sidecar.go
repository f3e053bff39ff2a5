package solvertest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rhuss/alloyrpc/pkg/solver"
)

// Sidecar serves an Engine over the engine sidecar HTTP protocol used by
// package remote.
type Sidecar struct {
	Engine   *Engine
	Backends []string
	mux      *http.ServeMux
}

// NewSidecar returns a Sidecar for e advertising the given backends. The
// default backend is always advertised.
func NewSidecar(e *Engine, backends ...string) *Sidecar {
	s := &Sidecar{
		Engine:   e,
		Backends: solver.NewRegistry(toBackends(backends)...).IDs(),
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /v1/backends", s.handleBackends)
	s.mux.HandleFunc("POST /v1/parse", s.handleParse)
	s.mux.HandleFunc("POST /v1/solve", s.handleSolve)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return s
}

// ServeHTTP implements http.Handler.
func (s *Sidecar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type commandJSON struct {
	Kind    string `json:"kind"`
	Label   string `json:"label"`
	Display string `json:"display"`
}

type errorJSON struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func (s *Sidecar) handleBackends(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"backends": s.Backends})
}

func (s *Sidecar) handleParse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorJSON{Message: "invalid JSON: " + err.Error()})
		return
	}

	var rep solver.CollectingReporter
	m, err := s.Engine.Parse(r.Context(), req.Model, &rep)
	if err != nil {
		writeParseError(w, err)
		return
	}

	cmds := make([]commandJSON, len(m.Commands))
	for i, c := range m.Commands {
		cmds[i] = commandJSON{Kind: string(c.Kind), Label: c.Label, Display: c.Display}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"commands": cmds,
		"warnings": rep.Warnings(),
	})
}

func (s *Sidecar) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model   string         `json:"model"`
		Command int            `json:"command"`
		Options solver.Options `json:"options"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorJSON{Message: "invalid JSON: " + err.Error()})
		return
	}

	m, err := s.Engine.Parse(r.Context(), req.Model, nil)
	if err != nil {
		writeParseError(w, err)
		return
	}
	if req.Command < 0 || req.Command >= len(m.Commands) {
		writeError(w, http.StatusBadRequest, errorJSON{Message: "command index out of range"})
		return
	}

	sol, err := s.Engine.Solve(r.Context(), m, m.Commands[req.Command], req.Options)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errorJSON{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, solver.SolutionData{
		Satisfiable: sol.Satisfiable(),
		Bitwidth:    sol.Bitwidth(),
		MaxSeq:      sol.MaxSeq(),
		Unrolls:     sol.Unrolls(),
		Incremental: sol.Incremental(),
		Backend:     sol.Backend(),
		Text:        sol.String(),
		Table:       sol.Table(),
	})
}

func writeParseError(w http.ResponseWriter, err error) {
	var pe *solver.ParseError
	if errors.As(err, &pe) {
		writeError(w, http.StatusUnprocessableEntity, errorJSON{Message: pe.Message, Line: pe.Line, Column: pe.Column})
		return
	}
	writeError(w, http.StatusUnprocessableEntity, errorJSON{Message: err.Error()})
}

func writeError(w http.ResponseWriter, status int, body errorJSON) {
	writeJSON(w, status, map[string]errorJSON{"error": body})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func toBackends(ids []string) []solver.Backend {
	out := make([]solver.Backend, len(ids))
	for i, id := range ids {
		out[i] = solver.Backend(id)
	}
	return out
}
