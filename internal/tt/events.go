package tt

import (
	"fmt"

	"github.com/rickchristie/researcher"
)

// Action renders a ReAct step that calls a tool, as a model would produce it after the
// trailing "Thought:" of the prompt.
func Action(thought, tool, input string) string {
	return fmt.Sprintf(" %s\nAction: %s\nAction Input: %s", thought, tool, input)
}

// FinalAnswer renders a ReAct step that ends the loop.
func FinalAnswer(answer string) string {
	return " I now know the final answer\nFinal Answer: " + answer
}

// CountEventNames counts recorded events by EventName.
func CountEventNames(execCtx *researcher.ExecutionContext) map[string]int {
	counts := make(map[string]int)
	for _, e := range execCtx.Events() {
		counts[e.EventName()]++
	}
	return counts
}

// EventNames returns the names of all recorded events in order.
func EventNames(execCtx *researcher.ExecutionContext) []string {
	events := execCtx.Events()
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.EventName()
	}
	return names
}
