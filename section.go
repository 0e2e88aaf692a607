package researcher

// TextSection defines a labelled section within the model's text output.
type TextSection interface {
	// Name returns the section label (e.g. "Final Answer").
	Name() string

	// ParseSection parses the raw text content extracted for this section.
	ParseSection(execCtx *ExecutionContext, content string) (any, error)
}
