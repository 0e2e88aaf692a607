package researcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDispatcher collects every dispatched event name.
type recordingDispatcher struct {
	names []string
}

func (r *recordingDispatcher) Dispatch(_ *ExecutionContext, event Event) {
	r.names = append(r.names, event.EventName())
}

// -----------------------------------------------------------------------------
// Limits
// -----------------------------------------------------------------------------

func TestExecutionContext_Limits(t *testing.T) {
	type input struct {
		limits  []Limit
		counter StatKey
		incr    int64
	}

	type expected struct {
		exceeded   bool
		matchedKey StatKey
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "below exact limit",
			input: input{
				limits:  []Limit{{Type: LimitExactKey, Key: KeyModelCalls, MaxValue: 3}},
				counter: KeyModelCalls,
				incr:    3,
			},
			expected: expected{exceeded: false},
		},
		{
			name: "above exact limit",
			input: input{
				limits:  []Limit{{Type: LimitExactKey, Key: KeyModelCalls, MaxValue: 3}},
				counter: KeyModelCalls,
				incr:    4,
			},
			expected: expected{exceeded: true, matchedKey: KeyModelCalls},
		},
		{
			name: "prefix limit matches the specific key",
			input: input{
				limits:  []Limit{{Type: LimitKeyPrefix, Key: KeyToolCallsFor, MaxValue: 1}},
				counter: KeyToolCallsFor + "Search",
				incr:    2,
			},
			expected: expected{exceeded: true, matchedKey: KeyToolCallsFor + "Search"},
		},
		{
			name: "unrelated counter",
			input: input{
				limits:  []Limit{{Type: LimitExactKey, Key: KeyModelCalls, MaxValue: 0}},
				counter: KeyToolCalls,
				incr:    10,
			},
			expected: expected{exceeded: false},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			execCtx := NewExecutionContext(context.Background(), "test", nil)
			defer execCtx.Close()
			execCtx.SetLimits(tc.input.limits)

			execCtx.Stats().IncrCounter(tc.input.counter, tc.input.incr)

			limit := execCtx.ExceededLimit()
			if !tc.expected.exceeded {
				assert.Nil(t, limit)
				assert.NoError(t, execCtx.Context().Err())
				return
			}

			require.NotNil(t, limit)
			assert.ErrorIs(t, execCtx.Context().Err(), context.Canceled)

			var event *LimitExceededEvent
			for _, e := range execCtx.Events() {
				if le, ok := e.(*LimitExceededEvent); ok {
					event = le
				}
			}
			require.NotNil(t, event)
			assert.Equal(t, tc.expected.matchedKey, event.MatchedKey)
			assert.Equal(t, float64(tc.input.incr), event.CurrentValue)
		})
	}
}

func TestExecutionContext_IterationLimit(t *testing.T) {
	execCtx := NewExecutionContext(context.Background(), "test", nil)
	defer execCtx.Close()
	execCtx.SetLimits(DefaultLimits(2))

	execCtx.StartIteration()
	execCtx.StartIteration()
	assert.Nil(t, execCtx.ExceededLimit())

	execCtx.StartIteration()
	require.NotNil(t, execCtx.ExceededLimit())
	assert.True(t, execCtx.ExceededLimit().IsIterationLimit())
	assert.Equal(t, 3, execCtx.Iteration())
	assert.Equal(t, int64(3), execCtx.Stats().GetIterations())
}

func TestExecutionContext_LimitExceededPublishedOnce(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	execCtx := NewExecutionContext(context.Background(), "test", nil)
	defer execCtx.Close()
	execCtx.SetHookDispatcher(dispatcher)
	execCtx.SetLimits([]Limit{{Type: LimitExactKey, Key: KeyToolCalls, MaxValue: 0}})

	for i := 0; i < 3; i++ {
		execCtx.Stats().IncrCounter(KeyToolCalls, 1)
	}

	assert.Equal(t, []string{EventNameLimitExceeded}, dispatcher.names)
}

// -----------------------------------------------------------------------------
// Stats
// -----------------------------------------------------------------------------

func TestExecutionStats(t *testing.T) {
	stats := NewExecutionStats()

	stats.IncrCounter(KeyToolCalls, 2)
	stats.IncrCounter(KeyToolCalls, 3)
	assert.Equal(t, int64(5), stats.GetCounter(KeyToolCalls))

	stats.IncrCounter(KeyIterations, 7)
	assert.Equal(t, int64(0), stats.GetIterations(), "iterations are protected")

	stats.ResetCounter(KeyToolCalls)
	assert.Equal(t, int64(0), stats.GetCounter(KeyToolCalls))

	snapshot := stats.Counters()
	snapshot[KeyModelCalls] = 99
	assert.Equal(t, int64(0), stats.GetCounter(KeyModelCalls), "Counters returns a copy")

	assert.Panics(t, func() { stats.IncrCounter(KeyToolCalls, -1) })
}

func TestExecutionContext_PublishUpdatesStats(t *testing.T) {
	type expected struct {
		counters map[StatKey]int64
		events   []string
	}

	tests := []struct {
		name     string
		publish  func(execCtx *ExecutionContext)
		expected expected
	}{
		{
			name: "model call with usage",
			publish: func(execCtx *ExecutionContext) {
				execCtx.PublishBeforeModelCall("gpt-4o-mini", "prompt")
				execCtx.PublishAfterModelCall("gpt-4o-mini", "prompt", &ContentResponse{
					Info: &GenerationInfo{InputTokens: 120, OutputTokens: 30},
				}, time.Millisecond, nil)
			},
			expected: expected{
				counters: map[StatKey]int64{
					KeyModelCalls:                    1,
					KeyInputTokens:                   120,
					KeyOutputTokens:                  30,
					KeyInputTokensFor + "gpt-4o-mini":  120,
					KeyOutputTokensFor + "gpt-4o-mini": 30,
				},
				events: []string{EventNameModelCallBefore, EventNameModelCallAfter},
			},
		},
		{
			name: "failed model call",
			publish: func(execCtx *ExecutionContext) {
				execCtx.PublishAfterModelCall("gpt-4o-mini", "prompt", nil, 0, errors.New("503"))
			},
			expected: expected{
				counters: map[StatKey]int64{KeyModelCalls: 1, KeyModelCallErrors: 1},
				events:   []string{EventNameModelCallAfter},
			},
		},
		{
			name: "tool error then success resets consecutive errors",
			publish: func(execCtx *ExecutionContext) {
				execCtx.PublishAfterToolCall("Search", "q", "", 0, errors.New("timeout"))
				execCtx.PublishAfterToolCall("Calculator", "1+1", "2", 0, nil)
			},
			expected: expected{
				counters: map[StatKey]int64{
					KeyToolCalls:                   2,
					KeyToolCallsFor + "Search":     1,
					KeyToolCallsFor + "Calculator": 1,
					KeyToolCallsErrorTotal:         1,
				},
				events: []string{EventNameToolCallAfter, EventNameToolCallAfter},
			},
		},
		{
			name: "parse error",
			publish: func(execCtx *ExecutionContext) {
				execCtx.PublishParseError(ParseErrorTypeFormat, "gibberish", errors.New("no sections"))
			},
			expected: expected{
				counters: map[StatKey]int64{
					KeyFormatParseErrorTotal:       1,
					KeyFormatParseErrorConsecutive: 1,
				},
				events: []string{EventNameParseError},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dispatcher := &recordingDispatcher{}
			execCtx := NewExecutionContext(context.Background(), "test", nil)
			defer execCtx.Close()
			execCtx.SetHookDispatcher(dispatcher)

			tc.publish(execCtx)

			assert.Equal(t, tc.expected.counters, execCtx.Stats().Counters())
			assert.Equal(t, tc.expected.events, dispatcher.names)
			assert.Len(t, execCtx.Events(), len(tc.expected.events))
		})
	}
}

// -----------------------------------------------------------------------------
// Events and termination
// -----------------------------------------------------------------------------

func TestExecutionContext_PublishFillsBaseEvent(t *testing.T) {
	execCtx := NewExecutionContext(context.Background(), "test", nil)
	defer execCtx.Close()

	execCtx.StartIteration()
	execCtx.StartIteration()
	execCtx.Publish(&BeforeIterationEvent{})

	stamped := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)
	execCtx.Publish(&ErrorEvent{BaseEvent: BaseEvent{Timestamp: stamped, Iteration: 1}})

	events := execCtx.Events()
	require.Len(t, events, 2)

	first := events[0].(*BeforeIterationEvent)
	assert.Equal(t, 2, first.Iteration)
	assert.False(t, first.Timestamp.IsZero())

	second := events[1].(*ErrorEvent)
	assert.Equal(t, 1, second.Iteration, "explicit iteration is kept")
	assert.Equal(t, stamped, second.Timestamp)
}

func TestExecutionContext_Termination(t *testing.T) {
	execCtx := NewExecutionContext(context.Background(), "test", nil)
	assert.Equal(t, "test", execCtx.Name())
	assert.Equal(t, TerminationReason(""), execCtx.TerminationReason())

	failure := errors.New("boom")
	execCtx.SetTermination(TerminationError, "partial", failure)

	assert.Equal(t, TerminationError, execCtx.TerminationReason())
	assert.Equal(t, "partial", execCtx.FinalResult())
	assert.Equal(t, failure, execCtx.Error())

	d := execCtx.Duration()
	assert.Equal(t, d, execCtx.Duration(), "duration is frozen once terminated")

	execCtx.Close()
	execCtx.Close()
	assert.ErrorIs(t, execCtx.Context().Err(), context.Canceled)
}
