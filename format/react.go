package format

import (
	"regexp"
	"strings"

	"github.com/rickchristie/researcher"
)

// Section labels understood by [ReAct].
const (
	LabelThought     = "Thought"
	LabelAction      = "Action"
	LabelActionInput = "Action Input"
	LabelFinalAnswer = "Final Answer"
	LabelObservation = "Observation"
)

// defaultLabels is ordered so that longer labels sharing a prefix are tried first.
var defaultLabels = []string{
	LabelActionInput,
	LabelAction,
	LabelFinalAnswer,
	LabelThought,
	LabelObservation,
}

// ReAct parses labelled "Label: content" output. A label is recognised wherever it
// starts a word, not only at the start of a line.
//
// Example output:
//
//	 I need to compute the product.
//	Action: Calculator
//	Action Input: 12 * 7
//
// parses to:
//
//	{"thought": ["I need to compute the product."],
//	 "action": ["Calculator"], "action input": ["12 * 7"]}
type ReAct struct {
	labels  []string
	pattern *regexp.Regexp
}

// NewReAct creates a ReAct format with the standard labels.
func NewReAct() *ReAct {
	f := &ReAct{}
	for _, l := range defaultLabels {
		f.RegisterLabel(l)
	}
	return f
}

// RegisterLabel adds a label to the format. Registering a label twice is a no-op.
// Returns self for chaining.
func (f *ReAct) RegisterLabel(label string) *ReAct {
	for _, l := range f.labels {
		if strings.EqualFold(l, label) {
			return f
		}
	}
	f.labels = append(f.labels, label)

	alts := make([]string, len(f.labels))
	for i, l := range f.labels {
		alts[i] = strings.ReplaceAll(regexp.QuoteMeta(l), " ", `\s+`)
	}
	// Labels may start mid-line ("... final answer. Final Answer: 84"). "Action 1:" style
	// numbering is tolerated, as models sometimes emit it.
	f.pattern = regexp.MustCompile(`(?i)\b(` + strings.Join(alts, "|") + `)[ \t]*\d*[ \t]*:`)
	return f
}

// Parse extracts raw content for each labelled section from the model output.
func (f *ReAct) Parse(
	execCtx *researcher.ExecutionContext,
	output string,
) (map[string][]string, error) {
	result, err := f.doParse(output)
	if err != nil {
		if execCtx != nil {
			execCtx.PublishParseError(researcher.ParseErrorTypeFormat, output, err)
		}
		return nil, err
	}

	if execCtx != nil {
		execCtx.Stats().ResetCounter(researcher.KeyFormatParseErrorConsecutive)
	}

	return result, nil
}

func (f *ReAct) doParse(output string) (map[string][]string, error) {
	matches := f.pattern.FindAllStringSubmatchIndex(output, -1)
	if len(matches) == 0 {
		return nil, researcher.ErrNoSectionsFound
	}

	result := make(map[string][]string)

	if lead := strings.TrimSpace(output[:matches[0][0]]); lead != "" {
		result[strings.ToLower(LabelThought)] = append(result[strings.ToLower(LabelThought)], lead)
	}

	for i, match := range matches {
		name := normalizeLabel(output[match[2]:match[3]])

		contentEnd := len(output)
		if i+1 < len(matches) {
			contentEnd = matches[i+1][0]
		}

		// Empty sections are kept, so "Action Input:" with nothing after it is still seen.
		content := strings.TrimSpace(output[match[1]:contentEnd])
		result[name] = append(result[name], content)
	}

	return result, nil
}

// FormatSection renders a single section, e.g. "Observation: 84".
func (f *ReAct) FormatSection(name, content string) string {
	return name + ": " + content
}

// normalizeLabel lower-cases a label and collapses inner whitespace.
func normalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

var _ researcher.TextFormat = (*ReAct)(nil)
