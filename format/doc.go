// Package format provides the text format used to parse ReAct model output.
//
// # Overview
//
// A TextFormat defines how labelled sections are delimited in the model's output and how
// an observation is rendered back into the scratchpad. [ReAct] understands the classic
// line-labelled layout:
//
//	Thought: I should look this up
//	Action: Search
//	Action Input: weather in Lisbon today
//
// Text before the first label is attributed to "thought", because the prompt always ends
// with a dangling "Thought:" the model continues from.
//
// # Parsing and Error Handling
//
// Parse publishes a [researcher.ParseErrorEvent] when given an ExecutionContext and the
// output contains no recognized label:
//
//	sections, err := f.Parse(execCtx, llmOutput)
//	if errors.Is(err, researcher.ErrNoSectionsFound) {
//	    // Error recorded, stats updated
//	}
//
// Deciding whether the sections form a valid action is left to the agent loop.
package format
