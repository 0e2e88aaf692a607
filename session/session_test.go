package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rickchristie/researcher"
	"github.com/rickchristie/researcher/assistant"
	"github.com/rickchristie/researcher/config"
	"github.com/rickchristie/researcher/internal/tt"
	"github.com/rickchristie/researcher/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = researcher.NewFixedTimeProvider(time.Date(2025, 2, 15, 14, 30, 0, 0, time.UTC))

type agentFunc func(ctx context.Context, question string) (string, error)

func (f agentFunc) Answer(ctx context.Context, question string) (string, error) {
	return f(ctx, question)
}

// countingBuilder records every credential it is asked to build for.
type countingBuilder struct {
	mu          sync.Mutex
	credentials []string
	agent       session.Agent
	err         error
}

func (b *countingBuilder) Build(_ context.Context, credential string) (session.Agent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.credentials = append(b.credentials, credential)
	if b.err != nil {
		return nil, b.err
	}
	return b.agent, nil
}

func echoAgent() session.Agent {
	return agentFunc(func(_ context.Context, q string) (string, error) {
		return "answer to " + q, nil
	})
}

func newReadySession(t *testing.T, agent session.Agent) *session.Session {
	t.Helper()
	s := session.New("s1", &countingBuilder{agent: agent}, session.WithTimeProvider(fixedTime))
	require.NoError(t, s.SetCredential(context.Background(), "sk-test"))
	return s
}

func TestSession_SetCredential(t *testing.T) {
	tests := []struct {
		name       string
		credential string
		buildErr   error
		expected   session.State
		errIs      error
		errAs      bool
		builds     int
	}{
		{name: "empty", credential: "", expected: session.StateAwaitingCredential, errIs: researcher.ErrMissingCredential},
		{name: "blank", credential: "  \t", expected: session.StateAwaitingCredential, errIs: researcher.ErrMissingCredential},
		{name: "accepted", credential: " sk-test ", expected: session.StateReady, builds: 1},
		{
			name:       "builder failure",
			credential: "sk-test",
			buildErr:   errors.New("invalid base url"),
			expected:   session.StateAwaitingCredential,
			errAs:      true,
			builds:     1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := &countingBuilder{agent: echoAgent(), err: tc.buildErr}
			s := session.New("s1", b)

			err := s.SetCredential(context.Background(), tc.credential)
			switch {
			case tc.errIs != nil:
				assert.ErrorIs(t, err, tc.errIs)
			case tc.errAs:
				var initErr *researcher.InitializationError
				assert.True(t, errors.As(err, &initErr), "got %v", err)
			default:
				assert.NoError(t, err)
			}

			assert.Equal(t, tc.expected, s.State())
			assert.Len(t, b.credentials, tc.builds)
			assert.Equal(t, tc.expected == session.StateReady, s.HasCredential())
			if tc.builds == 1 {
				assert.Equal(t, "sk-test", b.credentials[0], "credential is trimmed and passed explicitly")
			}
		})
	}
}

func TestSession_EmptyCredentialMakesNoCalls(t *testing.T) {
	model := tt.NewMockModel()
	search := tt.NewMockTool("Search", "irrelevant")
	b := assistant.NewBuilder(config.Default()).
		WithModelFactory(func(context.Context, string) (researcher.Model, error) { return model, nil }).
		WithSearchTool(search)
	s := session.New("s1", b.SessionBuilder())

	assert.ErrorIs(t, s.SetCredential(context.Background(), ""), researcher.ErrMissingCredential)
	_, err := s.Submit(context.Background(), "What is 12 * 7?")
	assert.ErrorIs(t, err, session.ErrNotReady)

	assert.Equal(t, session.StateAwaitingCredential, s.State())
	assert.Empty(t, s.Messages())
	assert.Equal(t, 0, model.CallCount())
	assert.Equal(t, 0, search.CallCount())
}

func TestSession_FailedCredentialChangeKeepsPreviousAgent(t *testing.T) {
	b := &countingBuilder{agent: echoAgent()}
	s := session.New("s1", b)
	require.NoError(t, s.SetCredential(context.Background(), "sk-good"))

	b.err = errors.New("rejected")
	assert.Error(t, s.SetCredential(context.Background(), "sk-bad"))
	assert.Equal(t, session.StateReady, s.State())

	reply, err := s.Submit(context.Background(), "still there?")
	require.NoError(t, err)
	assert.Equal(t, "answer to still there?", reply.Content)
}

func TestSession_TranscriptAlternates(t *testing.T) {
	failing := errors.New("model unavailable")
	calls := 0
	agent := agentFunc(func(_ context.Context, q string) (string, error) {
		calls++
		switch calls % 3 {
		case 1:
			return "answer to " + q, nil
		case 2:
			return "", failing
		default:
			panic("tool exploded")
		}
	})
	s := newReadySession(t, agent)

	const n = 7
	for i := 0; i < n; i++ {
		reply, err := s.Submit(context.Background(), fmt.Sprintf("question %d", i))
		assert.Equal(t, session.RoleAssistant, reply.Role)
		if err != nil {
			var turnErr *researcher.TurnError
			require.True(t, errors.As(err, &turnErr))
			assert.True(t, reply.Error)
		}
		assert.Equal(t, session.StateReady, s.State())
	}

	messages := s.Messages()
	require.Len(t, messages, 2*n)
	for i, m := range messages {
		if i%2 == 0 {
			assert.Equal(t, session.RoleUser, m.Role, "message %d", i)
			assert.Equal(t, fmt.Sprintf("question %d", i/2), m.Content)
		} else {
			assert.Equal(t, session.RoleAssistant, m.Role, "message %d", i)
		}
	}

	assert.Equal(t, "answer to question 0", messages[1].Content)
	assert.False(t, messages[1].Error)
	assert.Equal(t, "An error occurred: model unavailable. Please try again.", messages[3].Content)
	assert.True(t, messages[3].Error)
	assert.Equal(t, "An error occurred: panic: tool exploded. Please try again.", messages[5].Content)
	assert.True(t, messages[5].Error)
	assert.Equal(t, fixedTime.Now(), messages[0].Time)
}

func TestSession_UserMessageRecordedBeforeAgentRuns(t *testing.T) {
	var s *session.Session
	var seen []session.Message
	s = newReadySession(t, agentFunc(func(context.Context, string) (string, error) {
		seen = s.Messages()
		assert.Equal(t, session.StateProcessing, s.State())
		return "ok", nil
	}))

	_, err := s.Submit(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, session.Message{Role: session.RoleUser, Content: "hello", Time: fixedTime.Now()}, seen[0])
}

func TestSession_Busy(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	s := newReadySession(t, agentFunc(func(context.Context, string) (string, error) {
		close(started)
		<-release
		return "done", nil
	}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Submit(context.Background(), "slow question")
	}()
	<-started

	_, err := s.Submit(context.Background(), "impatient")
	assert.ErrorIs(t, err, session.ErrBusy)
	assert.ErrorIs(t, s.SetCredential(context.Background(), "sk-other"), session.ErrBusy)
	assert.ErrorIs(t, s.Reset(), session.ErrBusy)

	close(release)
	<-done
	assert.Len(t, s.Messages(), 2)
	assert.Equal(t, session.StateReady, s.State())
}

func TestSession_EmptyQuestion(t *testing.T) {
	s := newReadySession(t, echoAgent())

	_, err := s.Submit(context.Background(), "   ")
	assert.ErrorIs(t, err, session.ErrEmptyQuestion)
	assert.Empty(t, s.Messages())
	assert.Equal(t, session.StateReady, s.State())
}

func TestSession_Reset(t *testing.T) {
	s := newReadySession(t, echoAgent())
	_, err := s.Submit(context.Background(), "hi")
	require.NoError(t, err)

	require.NoError(t, s.Reset())
	assert.Equal(t, session.StateAwaitingCredential, s.State())
	assert.False(t, s.HasCredential())
	assert.Empty(t, s.Messages())

	_, err = s.Submit(context.Background(), "hi")
	assert.ErrorIs(t, err, session.ErrNotReady)
}

func TestSession_EndToEnd(t *testing.T) {
	model := tt.NewMockModel().AddResponses(
		tt.Action("I need to multiply", "Calculator", "12 * 7"),
		tt.FinalAnswer("12 * 7 = 84"),
		" gibberish without labels",
		tt.FinalAnswer("recovered"),
	)
	search := tt.NewMockTool("Search", "unused")

	b := assistant.NewBuilder(config.Default()).
		WithModelFactory(func(context.Context, string) (researcher.Model, error) { return model, nil }).
		WithSearchTool(search).
		WithVerboseWriter(nil)
	s := session.New("s1", b.SessionBuilder())
	require.NoError(t, s.SetCredential(context.Background(), "sk-test"))

	reply, err := s.Submit(context.Background(), "What is 12 * 7?")
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "84")
	assert.Contains(t, model.PromptAt(1), "Observation: 84")

	reply, err = s.Submit(context.Background(), "Try again")
	require.NoError(t, err)
	assert.Equal(t, "recovered", reply.Content)

	assert.Equal(t, 4, model.CallCount())
	assert.Equal(t, 0, search.CallCount())
	assert.Len(t, s.Messages(), 4)
}
