package react

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/rickchristie/researcher"
)

//go:embed react.tmpl
var reactTemplateContent string

// TemplateData contains the data passed to the ReAct prompt template.
type TemplateData struct {
	// Tools is the "name: description" catalog (from ToolChain).
	Tools string

	// ToolNames is the comma separated tool list placed in "one of [...]".
	ToolNames string

	// Input is the user's question.
	Input string

	// Scratchpad holds the previous Thought/Action/Observation steps. It is empty on the
	// first iteration, and otherwise ends with a dangling "Thought: ".
	Scratchpad string

	// Time provides access to time-related functions in templates.
	// Use {{.Time.Today}}, {{.Time.Weekday}}, {{.Time.Format "2006-01-02"}}, etc.
	Time researcher.TimeProvider
}

// DefaultTemplate is the single-message ReAct prompt. It ends with "Thought:" followed by
// the scratchpad, so the model continues the trace from where it stopped.
//
// The template file is located at agents/react/react.tmpl.
var DefaultTemplate = template.Must(
	template.New("react").Option("missingkey=error").Parse(reactTemplateContent),
)

// ExecuteTemplate executes a template with the given data and returns the result.
func ExecuteTemplate(tmpl *template.Template, data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
