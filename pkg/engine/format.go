package engine

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/rhuss/alloyrpc/pkg/api"
	"github.com/rhuss/alloyrpc/pkg/solver"
)

// unknownBackend is reported when no solve produced the response.
const unknownBackend = "unknown"

// renderSolution renders sol in the requested format. Unsatisfiable
// solutions render as "". It never fails: rendering problems, including
// panics in the solution's own renderers, come back as an inline marker.
func renderSolution(sol solver.Solution, format api.OutputFormat, buildDate string) (out string) {
	if sol == nil || !sol.Satisfiable() {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("Failed to render solution: %v", r)
		}
	}()

	switch format {
	case api.OutputFormatXML:
		return renderXML(sol, buildDate)
	case api.OutputFormatText:
		return sol.String()
	case api.OutputFormatTable:
		return sol.Table()
	default:
		return renderJSON(sol)
	}
}

// renderJSON wraps the default text rendering in a small JSON envelope.
// The envelope is for human consumption; the solution is not structured.
func renderJSON(sol solver.Solution) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(sol.String()); err != nil {
		return fmt.Sprintf(`{ "satisfiable": true, "error": "Failed to generate JSON: %s" }`, err)
	}
	text := strings.TrimSuffix(buf.String(), "\n")
	return `{ "satisfiable": true, "solution": ` + text + ` }`
}

// renderXML writes the fixed instance skeleton: banner, instance header
// and the four built-in signatures. Atoms and relations of the solved
// instance are not exported. Unsatisfiable solutions never reach here, but
// the self-closing form is kept for them.
func renderXML(sol solver.Solution, buildDate string) string {
	if !sol.Satisfiable() {
		return `<instance satisfiable="false"/>`
	}

	var b strings.Builder
	b.WriteString(`<alloy builddate="`)
	if err := xml.EscapeText(&b, []byte(buildDate)); err != nil {
		return "<?xml version=\"1.0\"?>\n<error>Failed to generate XML: " + err.Error() + "</error>"
	}
	b.WriteString("\">\n")
	b.WriteString(`<instance bitwidth="4" maxseq="4" command="run" filename="">` + "\n")
	b.WriteString(`<sig label="univ" ID="0" builtin="yes" abstract="yes"/>` + "\n")
	b.WriteString(`<sig label="Int" ID="1" builtin="yes"/>` + "\n")
	b.WriteString(`<sig label="seq/Int" ID="2" builtin="yes"/>` + "\n")
	b.WriteString(`<sig label="String" ID="3" builtin="yes"/>` + "\n")
	b.WriteString("</instance>\n")
	b.WriteString("</alloy>\n")
	return b.String()
}

// newMetadata assembles response metadata for one outcome. The backend
// field records the literal that outcome carries, not the backend the
// engine actually used.
func newMetadata(o outcome, opts solver.Options) *api.SolutionMetadata {
	md := &api.SolutionMetadata{
		SolvingTimeMs:    o.elapsed.Milliseconds(),
		SolverUsed:       o.backend,
		SkolemDepth:      int32(opts.SkolemDepth),
		SymmetryBreaking: opts.Symmetry > 0,
		ExecutedCommand:  o.command,
	}
	if o.solution != nil {
		md.Bitwidth = int32(o.solution.Bitwidth())
		md.MaxSeq = int32(o.solution.MaxSeq())
		md.Unrolls = int32(o.solution.Unrolls())
		md.Incremental = o.solution.Incremental()
	}
	return md
}

// softErrorResponse reports a request problem in-band: the call succeeds,
// the response is unsatisfiable and carries the message.
func softErrorResponse(msg string, elapsedMs int64) *api.SolveResponse {
	return &api.SolveResponse{
		Satisfiable:  false,
		ErrorMessage: msg,
		Metadata: &api.SolutionMetadata{
			SolvingTimeMs: elapsedMs,
			SolverUsed:    unknownBackend,
		},
	}
}
