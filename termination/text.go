package termination

import (
	"strings"

	"github.com/rickchristie/researcher"
)

// DefaultSectionName is the label the ReAct prompt asks the model to answer under.
const DefaultSectionName = "Final Answer"

// Text implements [researcher.Termination] for plain text answers.
//
// Any non-empty text in the answer section triggers termination:
//
//	agent := react.NewAgent(model, toolChain).
//	    WithTermination(termination.NewText("Final Answer"))
//
// # Termination Behavior
//
//   - Empty content: Returns [researcher.TerminationContinue]
//   - Non-empty content: Returns [researcher.TerminationAnswerAccepted]
type Text struct {
	sectionName string
}

// NewText creates a new Text termination with the given section name.
func NewText(name string) *Text {
	return &Text{sectionName: name}
}

// Name returns the section label.
func (t *Text) Name() string {
	return t.sectionName
}

// ParseSection returns the trimmed content as a string.
func (t *Text) ParseSection(_ *researcher.ExecutionContext, content string) (any, error) {
	return strings.TrimSpace(content), nil
}

// ShouldTerminate checks if the content indicates termination.
// Panics if execCtx is nil.
func (t *Text) ShouldTerminate(
	execCtx *researcher.ExecutionContext,
	content string,
) *researcher.TerminationResult {
	if execCtx == nil {
		panic("termination: ShouldTerminate called with nil ExecutionContext")
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return &researcher.TerminationResult{Status: researcher.TerminationContinue}
	}

	return &researcher.TerminationResult{
		Status:  researcher.TerminationAnswerAccepted,
		Content: trimmed,
	}
}

var _ researcher.Termination = (*Text)(nil)
