package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SolverType identifies a SAT backend on the wire.
type SolverType int32

const (
	SolverTypeUnspecified   SolverType = 0
	SolverTypeSAT4J         SolverType = 1
	SolverTypeMiniSat       SolverType = 2
	SolverTypeGlucose       SolverType = 3
	SolverTypeLingeling     SolverType = 4
	SolverTypePLingeling    SolverType = 5
	SolverTypeCryptoMiniSat SolverType = 6
)

var solverTypeNames = map[SolverType]string{
	SolverTypeUnspecified:   "SOLVER_TYPE_UNSPECIFIED",
	SolverTypeSAT4J:         "SOLVER_TYPE_SAT4J",
	SolverTypeMiniSat:       "SOLVER_TYPE_MINISAT",
	SolverTypeGlucose:       "SOLVER_TYPE_GLUCOSE",
	SolverTypeLingeling:     "SOLVER_TYPE_LINGELING",
	SolverTypePLingeling:    "SOLVER_TYPE_PLINGELING",
	SolverTypeCryptoMiniSat: "SOLVER_TYPE_CRYPTOMINISAT",
}

// String returns the canonical enum name.
func (s SolverType) String() string {
	if name, ok := solverTypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SOLVER_TYPE_%d", int32(s))
}

// ParseSolverType converts a backend name to a SolverType. Matching is
// case-insensitive and accepts both short names ("minisat") and canonical
// names ("SOLVER_TYPE_MINISAT"). Anything else yields SolverTypeUnspecified.
func ParseSolverType(s string) SolverType {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "SOLVER_TYPE_")
	switch name {
	case "SAT4J":
		return SolverTypeSAT4J
	case "MINISAT":
		return SolverTypeMiniSat
	case "GLUCOSE":
		return SolverTypeGlucose
	case "LINGELING":
		return SolverTypeLingeling
	case "PLINGELING":
		return SolverTypePLingeling
	case "CRYPTOMINISAT":
		return SolverTypeCryptoMiniSat
	default:
		return SolverTypeUnspecified
	}
}

// MarshalJSON encodes the canonical enum name.
func (s SolverType) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts a name (see ParseSolverType) or an integer.
func (s *SolverType) UnmarshalJSON(data []byte) error {
	n, name, err := decodeEnum(data)
	if err != nil {
		return fmt.Errorf("solver_type: %w", err)
	}
	if name != "" {
		*s = ParseSolverType(name)
		return nil
	}
	*s = SolverType(n)
	if _, ok := solverTypeNames[*s]; !ok {
		*s = SolverTypeUnspecified
	}
	return nil
}

// OutputFormat selects the rendering of a satisfiable solution.
type OutputFormat int32

const (
	OutputFormatUnspecified OutputFormat = 0
	OutputFormatJSON        OutputFormat = 1
	OutputFormatXML         OutputFormat = 2
	OutputFormatText        OutputFormat = 3
	OutputFormatTable       OutputFormat = 4
)

var outputFormatNames = map[OutputFormat]string{
	OutputFormatUnspecified: "OUTPUT_FORMAT_UNSPECIFIED",
	OutputFormatJSON:        "OUTPUT_FORMAT_JSON",
	OutputFormatXML:         "OUTPUT_FORMAT_XML",
	OutputFormatText:        "OUTPUT_FORMAT_TEXT",
	OutputFormatTable:       "OUTPUT_FORMAT_TABLE",
}

// String returns the canonical enum name.
func (f OutputFormat) String() string {
	if name, ok := outputFormatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("OUTPUT_FORMAT_%d", int32(f))
}

// ParseOutputFormat converts a format name to an OutputFormat, with the
// same matching rules as ParseSolverType.
func ParseOutputFormat(s string) OutputFormat {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "OUTPUT_FORMAT_")
	switch name {
	case "JSON":
		return OutputFormatJSON
	case "XML":
		return OutputFormatXML
	case "TEXT":
		return OutputFormatText
	case "TABLE":
		return OutputFormatTable
	default:
		return OutputFormatUnspecified
	}
}

// MarshalJSON encodes the canonical enum name.
func (f OutputFormat) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON accepts a name (see ParseOutputFormat) or an integer.
func (f *OutputFormat) UnmarshalJSON(data []byte) error {
	n, name, err := decodeEnum(data)
	if err != nil {
		return fmt.Errorf("output_format: %w", err)
	}
	if name != "" {
		*f = ParseOutputFormat(name)
		return nil
	}
	*f = OutputFormat(n)
	if _, ok := outputFormatNames[*f]; !ok {
		*f = OutputFormatUnspecified
	}
	return nil
}

// decodeEnum reads a JSON string or number. Exactly one of the results is
// meaningful: name is non-empty for strings, n holds the number otherwise.
// JSON null decodes as zero.
func decodeEnum(data []byte) (n int32, name string, err error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return 0, "", nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, "", err
		}
		if v, convErr := strconv.ParseInt(strings.TrimSpace(s), 10, 32); convErr == nil {
			return int32(v), "", nil
		}
		if strings.TrimSpace(s) == "" {
			return 0, "", nil
		}
		return 0, s, nil
	}
	v, err := strconv.ParseInt(trimmed, 10, 32)
	if err != nil {
		return 0, "", fmt.Errorf("invalid enum value %s", trimmed)
	}
	return int32(v), "", nil
}
