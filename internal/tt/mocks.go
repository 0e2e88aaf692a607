package tt

import (
	"context"
	"sync"
	"time"

	"github.com/rickchristie/researcher"
	"github.com/tmc/langchaingo/llms"
)

// -----------------------------------------------------------------------------
// MockModel - implements researcher.Model with proper event publishing
// -----------------------------------------------------------------------------

// MockModel is a configurable mock that implements researcher.Model.
// It publishes BeforeModelCall and AfterModelCall events as required by the interface.
type MockModel struct {
	mu        sync.Mutex
	name      string
	responses []*researcher.ContentResponse
	errors    []error
	panics    []any
	callCount int

	// CapturedMessages stores the messages passed to each
	// GenerateContent call. Populated automatically on
	// every call.
	CapturedMessages [][]llms.MessageContent

	// CapturedOptions stores the resolved call options of each call.
	CapturedOptions []llms.CallOptions
}

// NewMockModel creates a new MockModel with the default name "test-model".
func NewMockModel() *MockModel {
	return &MockModel{name: "test-model"}
}

// WithName sets the model name used for event publishing.
func (m *MockModel) WithName(name string) *MockModel {
	m.name = name
	return m
}

// AddResponse queues a response with the specified content and token counts.
func (m *MockModel) AddResponse(content string, inputTokens, outputTokens int) *MockModel {
	m.responses = append(m.responses, &researcher.ContentResponse{
		Choices: []*researcher.ContentChoice{{Content: content}},
		Info: &researcher.GenerationInfo{
			InputTokens:  inputTokens,
			OutputTokens: outputTokens,
			TotalTokens:  inputTokens + outputTokens,
		},
	})
	m.errors = append(m.errors, nil)
	m.panics = append(m.panics, nil)
	return m
}

// AddResponses queues several responses with zero token counts.
func (m *MockModel) AddResponses(contents ...string) *MockModel {
	for _, c := range contents {
		m.AddResponse(c, 0, 0)
	}
	return m
}

// AddError queues an error for the next call.
func (m *MockModel) AddError(err error) *MockModel {
	m.responses = append(m.responses, nil)
	m.errors = append(m.errors, err)
	m.panics = append(m.panics, nil)
	return m
}

// AddPanic queues a panic for the next call.
func (m *MockModel) AddPanic(v any) *MockModel {
	m.responses = append(m.responses, nil)
	m.errors = append(m.errors, nil)
	m.panics = append(m.panics, v)
	return m
}

// CallCount returns the number of times GenerateContent has been called.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// PromptAt returns the text of the first message of the idx-th call.
func (m *MockModel) PromptAt(idx int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx >= len(m.CapturedMessages) || len(m.CapturedMessages[idx]) == 0 {
		return ""
	}
	for _, part := range m.CapturedMessages[idx][0].Parts {
		if tc, ok := part.(llms.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// GenerateContent implements researcher.Model with proper event publishing.
// Once the queue is exhausted every call returns a final answer of "done".
func (m *MockModel) GenerateContent(
	execCtx *researcher.ExecutionContext,
	messages []llms.MessageContent,
	opts ...llms.CallOption,
) (*researcher.ContentResponse, error) {
	m.mu.Lock()
	idx := m.callCount
	m.callCount++
	m.CapturedMessages = append(m.CapturedMessages, messages)
	var resolved llms.CallOptions
	for _, opt := range opts {
		opt(&resolved)
	}
	m.CapturedOptions = append(m.CapturedOptions, resolved)
	m.mu.Unlock()

	if execCtx != nil {
		execCtx.PublishBeforeModelCall(m.name, messages)
	}

	if idx < len(m.panics) && m.panics[idx] != nil {
		panic(m.panics[idx])
	}

	startTime := time.Now()

	var err error
	if idx < len(m.errors) {
		err = m.errors[idx]
	}

	var resp *researcher.ContentResponse
	if err == nil {
		if idx < len(m.responses) && m.responses[idx] != nil {
			resp = m.responses[idx]
		} else {
			resp = &researcher.ContentResponse{
				Choices: []*researcher.ContentChoice{
					{Content: " I now know the final answer\nFinal Answer: done"},
				},
				Info: &researcher.GenerationInfo{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
			}
		}
	}

	duration := time.Since(startTime)

	if execCtx != nil {
		execCtx.PublishAfterModelCall(m.name, messages, resp, duration, err)
	}

	return resp, err
}

var _ researcher.Model = (*MockModel)(nil)

// -----------------------------------------------------------------------------
// MockTool - implements researcher.Tool and records inputs
// -----------------------------------------------------------------------------

// MockTool is a configurable researcher.Tool that records every input it receives.
type MockTool struct {
	mu          sync.Mutex
	name        string
	description string
	fn          func(ctx context.Context, input string) (string, error)

	// Inputs stores the input of each call in order.
	Inputs []string
}

// NewMockTool creates a MockTool that answers every call with output.
func NewMockTool(name, output string) *MockTool {
	return &MockTool{
		name:        name,
		description: "mock " + name + " tool",
		fn: func(context.Context, string) (string, error) {
			return output, nil
		},
	}
}

// NewMockToolFunc creates a MockTool backed by fn.
func NewMockToolFunc(name string, fn func(ctx context.Context, input string) (string, error)) *MockTool {
	return &MockTool{name: name, description: "mock " + name + " tool", fn: fn}
}

// WithDescription sets the description shown in the prompt.
func (t *MockTool) WithDescription(desc string) *MockTool {
	t.description = desc
	return t
}

func (t *MockTool) Name() string { return t.name }

func (t *MockTool) Description() string { return t.description }

// Call implements researcher.Tool.
func (t *MockTool) Call(ctx context.Context, input string) (string, error) {
	t.mu.Lock()
	t.Inputs = append(t.Inputs, input)
	t.mu.Unlock()
	return t.fn(ctx, input)
}

// CallCount returns the number of calls received.
func (t *MockTool) CallCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.Inputs)
}

var _ researcher.Tool = (*MockTool)(nil)
