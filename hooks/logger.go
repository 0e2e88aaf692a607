package hooks

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rickchristie/researcher"
	"github.com/tmc/langchaingo/llms"
	"gopkg.in/yaml.v3"
)

// Logger traces every step of an execution as YAML blocks. It is the verbose mode of the
// agent: the prompt sent, the raw model output, each tool call and the final outcome.
// Nothing is truncated.
//
// Output of one block:
//
//	>>> [AfterToolCall: Calculator]: 2025-02-15 14:30:00.000
//	input: 12 * 7
//	output: "84"
//	duration: 1.2ms
type Logger struct {
	mu  sync.Mutex
	out io.Writer
}

// NewLogger creates a Logger that writes to stderr.
func NewLogger() *Logger {
	return &Logger{out: os.Stderr}
}

// NewLoggerWithWriter creates a Logger that writes to w.
func NewLoggerWithWriter(w io.Writer) *Logger {
	return &Logger{out: w}
}

// block writes a header line followed by v marshalled as YAML, as one unit.
func (h *Logger) block(name string, v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		data = []byte(fmt.Sprintf("(failed to marshal: %v)\n", err))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	fmt.Fprintf(h.out, "\n>>> [%s]: %s\n", name, timestamp)
	fmt.Fprint(h.out, string(data))
}

// OnBeforeExecution logs the question.
func (h *Logger) OnBeforeExecution(
	execCtx *researcher.ExecutionContext,
	event *researcher.BeforeExecutionEvent,
) {
	h.block("BeforeExecution", map[string]any{
		"name": execCtx.Name(),
		"task": event.Task,
	})
}

// OnAfterExecution logs the outcome and final stats.
func (h *Logger) OnAfterExecution(
	execCtx *researcher.ExecutionContext,
	event *researcher.AfterExecutionEvent,
) {
	data := map[string]any{
		"termination_reason": string(event.TerminationReason),
		"result":             event.Result,
		"iterations":         execCtx.Iteration(),
		"counters":           counterMap(execCtx.Stats().Counters()),
	}
	if event.Error != nil {
		data["error"] = event.Error.Error()
	}
	h.block("AfterExecution", data)
}

// OnBeforeModelCall logs the prompt text.
func (h *Logger) OnBeforeModelCall(
	execCtx *researcher.ExecutionContext,
	event *researcher.BeforeModelCallEvent,
) {
	data := map[string]any{"model": event.Model, "execution": execCtx.Name()}
	if messages, ok := event.Request.([]llms.MessageContent); ok {
		var prompt []map[string]string
		for _, msg := range messages {
			for _, part := range msg.Parts {
				if tc, ok := part.(llms.TextContent); ok {
					prompt = append(prompt, map[string]string{
						"role": string(msg.Role),
						"text": tc.Text,
					})
				}
			}
		}
		data["messages"] = prompt
	}
	h.block("BeforeModelCall", data)
}

// OnAfterModelCall logs the raw model output and token usage.
func (h *Logger) OnAfterModelCall(
	_ *researcher.ExecutionContext,
	event *researcher.AfterModelCallEvent,
) {
	data := map[string]any{
		"model":    event.Model,
		"duration": event.Duration.String(),
	}
	if event.Error != nil {
		data["error"] = event.Error.Error()
	}
	if event.Response != nil {
		data["output"] = event.Response.Text()
		if info := event.Response.Info; info != nil {
			data["tokens"] = map[string]int{
				"input":  info.InputTokens,
				"output": info.OutputTokens,
				"total":  info.TotalTokens,
			}
		}
	}
	h.block("AfterModelCall", data)
}

// OnAfterToolCall logs the tool input and observation.
func (h *Logger) OnAfterToolCall(
	_ *researcher.ExecutionContext,
	event *researcher.AfterToolCallEvent,
) {
	data := map[string]any{
		"input":    event.Input,
		"output":   event.Output,
		"duration": event.Duration.String(),
	}
	if event.Error != nil {
		data["error"] = event.Error.Error()
	}
	h.block("AfterToolCall: "+event.ToolName, data)
}

// OnParseError logs output the agent could not interpret.
func (h *Logger) OnParseError(
	_ *researcher.ExecutionContext,
	event *researcher.ParseErrorEvent,
) {
	h.block("ParseError", map[string]any{
		"type":  string(event.ErrorType),
		"raw":   event.RawContent,
		"error": errString(event.Error),
	})
}

// OnLimitExceeded logs the limit that stopped the loop.
func (h *Logger) OnLimitExceeded(
	_ *researcher.ExecutionContext,
	event *researcher.LimitExceededEvent,
) {
	h.block("LimitExceeded", map[string]any{
		"key":     string(event.MatchedKey),
		"max":     event.Limit.MaxValue,
		"current": event.CurrentValue,
	})
}

// OnError logs a loop failure.
func (h *Logger) OnError(_ *researcher.ExecutionContext, event *researcher.ErrorEvent) {
	h.block("Error", map[string]any{
		"iteration": event.Iteration,
		"error":     errString(event.Err),
	})
}

func counterMap(counters map[researcher.StatKey]int64) map[string]int64 {
	out := make(map[string]int64, len(counters))
	for k, v := range counters {
		out[string(k)] = v
	}
	return out
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

var (
	_ researcher.BeforeExecutionHook = (*Logger)(nil)
	_ researcher.AfterExecutionHook  = (*Logger)(nil)
	_ researcher.BeforeModelCallHook = (*Logger)(nil)
	_ researcher.AfterModelCallHook  = (*Logger)(nil)
	_ researcher.AfterToolCallHook   = (*Logger)(nil)
	_ researcher.ParseErrorHook      = (*Logger)(nil)
	_ researcher.LimitExceededHook   = (*Logger)(nil)
	_ researcher.ErrorHook           = (*Logger)(nil)
)
