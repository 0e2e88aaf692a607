// Package react implements the ReAct (Reasoning and Acting) agent loop.
//
// # Overview
//
// Each iteration renders one prompt holding the tool catalog, the question and the
// scratchpad of previous steps, then lets the model continue from "Thought:". Generation
// stops at "\nObservation:" so the loop, not the model, supplies observations:
//
//	Question: What is 12 * 7?
//	Thought: I should multiply.
//	Action: Calculator
//	Action Input: 12 * 7
//	Observation: 84
//	Thought: I now know the final answer
//	Final Answer: 84
//
// # Agent Loop Behavior
//
//   - A "Final Answer:" section without an action terminates the loop.
//   - An "Action:" with an "Action Input:" is dispatched to the tool chain. Tool failures
//     come back as observations and never end the loop.
//   - Output holding both a final answer and an action, or neither, is a
//     [researcher.ParseError]. Output naming an unknown tool is a
//     [researcher.UnknownToolError].
//
// With HandleParsingErrors enabled (the default) both errors become corrective
// observations and the loop carries on, so a malformed first step still gets a second
// iteration. Disabled, Next returns them and the execution fails.
//
// # Templates
//
// The prompt is a Go text/template with access to [TemplateData]:
//   - {{.Tools}}, {{.ToolNames}}, {{.Input}}, {{.Scratchpad}}
//   - Time provider functions: {{.Time.Today}}, {{.Time.Weekday}}, {{.Time.Format "layout"}}
package react
