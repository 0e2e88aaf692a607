package researcher

import "errors"

// TextFormat defines how labelled sections are structured in the model output.
// It handles the "envelope": how sections are delimited and extracted.
//
// # Event Requirements for Implementors
//
// On parse error implementations MUST call:
//
//	execCtx.PublishParseError(ParseErrorTypeFormat, output, err)
//
// On successful parse:
//
//	execCtx.Stats().ResetCounter(KeyFormatParseErrorConsecutive)
type TextFormat interface {
	// Parse extracts raw content for each section from the model output.
	// Returns map of lower-cased section name -> content strings (a label may repeat).
	// Sections not present in output will not appear in the map.
	//
	// The execCtx parameter may be nil (e.g. in unit tests).
	Parse(execCtx *ExecutionContext, output string) (map[string][]string, error)

	// FormatSection renders a single labelled section, e.g. "Observation: 84".
	FormatSection(name, content string) string
}

// Parse errors
var (
	ErrNoSectionsFound = errors.New("no recognized sections found in output")
)
