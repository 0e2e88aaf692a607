package react

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/rickchristie/researcher"
	"github.com/rickchristie/researcher/format"
	"github.com/rickchristie/researcher/termination"
	"github.com/tmc/langchaingo/llms"
)

// Corrective observations shown to the model when its output is not a valid step.
const (
	MissingActionObservation      = "Invalid Format: Missing 'Action:' after 'Thought:'"
	MissingActionInputObservation = "Invalid Format: Missing 'Action Input:' after 'Action:'"
)

// StopWord ends generation before the model invents its own observation.
const StopWord = "\nObservation:"

// LoopData implements researcher.LoopData for the ReAct agent loop.
type LoopData struct {
	task             string
	iterationHistory []*researcher.Iteration
	scratchpad       []*researcher.Iteration
}

// NewLoopData creates a new LoopData for the given question.
func NewLoopData(question string) *LoopData {
	return &LoopData{
		task:             question,
		iterationHistory: make([]*researcher.Iteration, 0),
		scratchpad:       make([]*researcher.Iteration, 0),
	}
}

// GetTask returns the question.
func (d *LoopData) GetTask() string {
	return d.task
}

// GetIterationHistory returns all recorded iterations, including the final one.
func (d *LoopData) GetIterationHistory() []*researcher.Iteration {
	return d.iterationHistory
}

// AddIterationHistory adds a new Iteration to the full history.
func (d *LoopData) AddIterationHistory(iter *researcher.Iteration) {
	d.iterationHistory = append(d.iterationHistory, iter)
}

// GetScratchPad returns the iterations rendered into the next prompt.
func (d *LoopData) GetScratchPad() []*researcher.Iteration {
	return d.scratchpad
}

// SetScratchPad sets the iterations rendered into the next prompt.
func (d *LoopData) SetScratchPad(iterations []*researcher.Iteration) {
	d.scratchpad = iterations
}

var _ researcher.LoopData = (*LoopData)(nil)

// ----------------------------------------------------------------------------
// Agent - ReAct AgentLoop Implementation
// ----------------------------------------------------------------------------

// Agent implements the ReAct (Reasoning and Acting) agent loop.
// Flow: Think -> Act -> Observe -> Repeat until a final answer.
//
// Each iteration renders the whole prompt (question, tool catalog, scratchpad) as a
// single user message and lets the model continue the trace from "Thought:".
//
// Agent holds no per-question state; all of it lives in [LoopData]. One Agent can serve
// every turn of a session.
type Agent struct {
	model               researcher.Model
	format              researcher.TextFormat
	toolChain           researcher.ToolChain
	termination         researcher.Termination
	template            *template.Template
	timeProvider        researcher.TimeProvider
	handleParsingErrors bool
	temperature         float64
	stopWords           []string
}

// NewAgent creates a new Agent with the given model and tool chain.
// Defaults:
//   - Format: format.NewReAct()
//   - Termination: termination.NewText("Final Answer")
//   - Template: DefaultTemplate
//   - TimeProvider: researcher.NewDefaultTimeProvider()
//   - HandleParsingErrors: true
//   - Temperature: 0
func NewAgent(model researcher.Model, toolChain researcher.ToolChain) *Agent {
	return &Agent{
		model:               model,
		format:              format.NewReAct(),
		toolChain:           toolChain,
		termination:         termination.NewText(termination.DefaultSectionName),
		template:            DefaultTemplate,
		timeProvider:        researcher.NewDefaultTimeProvider(),
		handleParsingErrors: true,
		temperature:         0,
		stopWords:           []string{StopWord},
	}
}

// WithFormat sets the text output format.
func (r *Agent) WithFormat(f researcher.TextFormat) *Agent {
	r.format = f
	return r
}

// WithTermination sets the termination handler.
func (r *Agent) WithTermination(t researcher.Termination) *Agent {
	r.termination = t
	return r
}

// WithTemplate sets a custom prompt template. See [TemplateData] for the fields.
func (r *Agent) WithTemplate(tmpl *template.Template) *Agent {
	r.template = tmpl
	return r
}

// WithTemplateString sets a custom prompt template from a string.
// Returns error if the template string is invalid.
func (r *Agent) WithTemplateString(tmplStr string) (*Agent, error) {
	tmpl, err := template.New("react").Parse(tmplStr)
	if err != nil {
		return r, fmt.Errorf("failed to parse template: %w", err)
	}
	r.template = tmpl
	return r, nil
}

// WithTimeProvider sets the time provider.
// Use this to inject a fixed time provider for testing.
func (r *Agent) WithTimeProvider(tp researcher.TimeProvider) *Agent {
	r.timeProvider = tp
	return r
}

// WithHandleParsingErrors controls what happens when the model output is not a valid step
// or names an unknown tool. When true the problem is fed back to the model as the
// observation and the loop continues. When false Next returns the error.
func (r *Agent) WithHandleParsingErrors(enabled bool) *Agent {
	r.handleParsingErrors = enabled
	return r
}

// WithTemperature sets the sampling temperature passed to the model.
func (r *Agent) WithTemperature(t float64) *Agent {
	r.temperature = t
	return r
}

// Next executes one iteration of the ReAct loop.
//
// The order of operations:
//  1. Render the prompt and call the model, stopping at "\nObservation:"
//  2. Parse the output into labelled sections
//  3. A final answer (without an action) terminates the loop
//  4. An action with its input is dispatched to the tool chain, and the observation is
//     appended to the scratchpad
//  5. Anything else is a [researcher.ParseError]
func (r *Agent) Next(execCtx *researcher.ExecutionContext) (*researcher.AgentLoopResult, error) {
	data := execCtx.Data()

	prompt, err := r.BuildPrompt(data)
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	messages := []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}
	response, err := r.model.GenerateContent(
		execCtx,
		messages,
		llms.WithStopWords(r.stopWords),
		llms.WithTemperature(r.temperature),
	)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	output := r.cutAtStopWord(response.Text())

	answer, call, parseErr := r.parseStep(execCtx, output)
	if parseErr != nil {
		if !r.handleParsingErrors {
			return nil, parseErr
		}
		return r.observe(data, &researcher.Iteration{
			Log:         output,
			Observation: parseErr.Observation(),
		}), nil
	}

	if call == nil {
		data.AddIterationHistory(&researcher.Iteration{Log: output})
		return &researcher.AgentLoopResult{
			Action: researcher.LATerminate,
			Result: answer,
		}, nil
	}

	var observation string
	result, err := r.toolChain.Execute(execCtx, *call)
	if err != nil {
		var unknown *researcher.UnknownToolError
		if !errors.As(err, &unknown) || !r.handleParsingErrors {
			return nil, err
		}
		observation = unknown.Observation()
	} else {
		observation = result.Observation
	}

	return r.observe(data, &researcher.Iteration{
		Log:         output,
		Call:        call,
		Observation: observation,
	}), nil
}

// BuildPrompt renders the prompt for the next model call.
func (r *Agent) BuildPrompt(data researcher.LoopData) (string, error) {
	return ExecuteTemplate(r.template, TemplateData{
		Tools:      r.toolChain.AvailableToolsPrompt(),
		ToolNames:  r.toolChain.ToolNames(),
		Input:      data.GetTask(),
		Scratchpad: r.buildScratchpad(data.GetScratchPad()),
		Time:       r.timeProvider,
	})
}

// buildScratchpad renders previous steps as
// "<model output>\nObservation: <obs>\nThought: " per step.
func (r *Agent) buildScratchpad(iterations []*researcher.Iteration) string {
	var sb strings.Builder
	for _, iter := range iterations {
		sb.WriteString(iter.Log)
		sb.WriteString("\n")
		sb.WriteString(r.format.FormatSection(format.LabelObservation, iter.Observation))
		sb.WriteString("\n")
		sb.WriteString(format.LabelThought)
		sb.WriteString(": ")
	}
	return sb.String()
}

// parseStep turns model output into either a final answer or a tool call.
func (r *Agent) parseStep(
	execCtx *researcher.ExecutionContext,
	output string,
) (string, *researcher.ToolCall, *researcher.ParseError) {
	sections, formatErr := r.format.Parse(execCtx, output)
	if formatErr != nil {
		// The format already recorded this parse error.
		return "", nil, &researcher.ParseError{
			Output:      output,
			Reason:      MissingActionObservation,
			SendToModel: true,
		}
	}

	answers := sections[strings.ToLower(r.termination.Name())]
	actions := sections[strings.ToLower(format.LabelAction)]
	inputs := sections[strings.ToLower(format.LabelActionInput)]
	hasAction := len(actions) > 0 && actions[0] != ""

	fail := func(reason string, sendToModel bool) (string, *researcher.ToolCall, *researcher.ParseError) {
		err := &researcher.ParseError{Output: output, Reason: reason, SendToModel: sendToModel}
		if execCtx != nil {
			execCtx.PublishParseError(researcher.ParseErrorTypeAction, output, err)
		}
		return "", nil, err
	}

	if len(answers) > 0 && hasAction {
		return fail("Parsing LLM output produced both a final answer and a parse-able action: "+output, false)
	}

	for _, content := range answers {
		if result := r.termination.ShouldTerminate(execCtx, content); result.Status ==
			researcher.TerminationAnswerAccepted {
			return result.Content, nil, nil
		}
	}

	if !hasAction {
		return fail(MissingActionObservation, true)
	}
	if len(inputs) == 0 {
		return fail(MissingActionInputObservation, true)
	}

	return "", &researcher.ToolCall{
		Name:  strings.TrimSpace(actions[0]),
		Input: cleanActionInput(inputs[0]),
	}, nil
}

// observe records a non-final step and continues the loop with its observation.
func (r *Agent) observe(data researcher.LoopData, iter *researcher.Iteration) *researcher.AgentLoopResult {
	data.AddIterationHistory(iter)
	data.SetScratchPad(append(data.GetScratchPad(), iter))
	return &researcher.AgentLoopResult{
		Action:     researcher.LAContinue,
		NextPrompt: iter.Observation,
	}
}

// cutAtStopWord drops anything from the first stop word on, for providers that do not
// honor stop sequences.
func (r *Agent) cutAtStopWord(output string) string {
	for _, stop := range r.stopWords {
		if idx := strings.Index(output, stop); idx >= 0 {
			output = output[:idx]
		}
	}
	return output
}

// cleanActionInput strips surrounding spaces and double quotes.
func cleanActionInput(input string) string {
	return strings.Trim(strings.TrimSpace(input), `"`)
}

var _ researcher.AgentLoop[*LoopData] = (*Agent)(nil)
