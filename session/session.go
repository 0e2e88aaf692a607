// Package session holds the per-user chat state: the credential, the assistant built
// from it, and the transcript.
//
// A Session moves through three states:
//
//	AwaitingCredential --SetCredential(non-blank)--> Ready
//	Ready --Submit--> Processing --(answer or failure)--> Ready
//
// The credential lives only inside the Session value. It is handed to the Builder
// explicitly and never written to disk, logs or the process environment.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rickchristie/researcher"
)

var (
	// ErrNotReady is returned by Submit before a credential was accepted.
	ErrNotReady = errors.New("session: no credential set")

	// ErrBusy is returned while a question is being processed.
	ErrBusy = errors.New("session: a question is already being processed")

	// ErrEmptyQuestion is returned by Submit for a blank question. Nothing is recorded.
	ErrEmptyQuestion = errors.New("session: empty question")
)

// State is the position of a Session in its lifecycle.
type State int

const (
	StateAwaitingCredential State = iota
	StateReady
	StateProcessing
)

func (s State) String() string {
	switch s {
	case StateAwaitingCredential:
		return "awaiting_credential"
	case StateReady:
		return "ready"
	case StateProcessing:
		return "processing"
	default:
		return "unknown"
	}
}

// Agent answers one question.
type Agent interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Builder creates the Agent for a credential.
type Builder interface {
	Build(ctx context.Context, credential string) (Agent, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(ctx context.Context, credential string) (Agent, error)

func (f BuilderFunc) Build(ctx context.Context, credential string) (Agent, error) {
	return f(ctx, credential)
}

// Option configures a Session.
type Option func(s *Session)

// WithTimeProvider sets the clock used to stamp messages.
func WithTimeProvider(tp researcher.TimeProvider) Option {
	return func(s *Session) { s.clock = tp }
}

// WithLogger sets the logger used to report failed turns.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// Session is one user's chat. All methods are safe for concurrent use; a second Submit
// while one is processing is rejected with ErrBusy rather than queued.
type Session struct {
	id      string
	builder Builder
	clock   researcher.TimeProvider
	logger  *slog.Logger

	mu           sync.Mutex
	state        State
	credential   string
	agent        Agent
	conversation Conversation
}

// New creates a Session awaiting its credential.
func New(id string, builder Builder, opts ...Option) *Session {
	s := &Session{
		id:      id,
		builder: builder,
		clock:   researcher.NewDefaultTimeProvider(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HasCredential reports whether a credential was accepted.
func (s *Session) HasCredential() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential != ""
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversation.Messages()
}

// SetCredential builds the agent for credential and moves the session to Ready.
//
// A blank credential returns [researcher.ErrMissingCredential] and builds nothing. A
// build failure is returned as an [*researcher.InitializationError]. In both cases the
// session is left exactly as it was, including any previously accepted credential.
func (s *Session) SetCredential(ctx context.Context, credential string) error {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return researcher.ErrMissingCredential
	}

	s.mu.Lock()
	if s.state == StateProcessing {
		s.mu.Unlock()
		return ErrBusy
	}
	s.mu.Unlock()

	agent, err := s.builder.Build(ctx, credential)
	if err != nil {
		var initErr *researcher.InitializationError
		if errors.As(err, &initErr) || errors.Is(err, researcher.ErrMissingCredential) {
			return err
		}
		return &researcher.InitializationError{Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateProcessing {
		return ErrBusy
	}
	s.credential = credential
	s.agent = agent
	s.state = StateReady
	return nil
}

// Reset forgets the credential and the transcript.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateProcessing {
		return ErrBusy
	}
	s.credential = ""
	s.agent = nil
	s.conversation = Conversation{}
	s.state = StateAwaitingCredential
	return nil
}

// Submit runs one turn. The question is appended to the transcript before the agent
// runs; exactly one assistant message follows, holding either the answer or the
// [researcher.TurnError] text. A failed turn returns the assistant message together with
// the *researcher.TurnError, and the session is Ready again either way.
func (s *Session) Submit(ctx context.Context, question string) (Message, error) {
	question = strings.TrimSpace(question)

	s.mu.Lock()
	switch {
	case s.state == StateAwaitingCredential:
		s.mu.Unlock()
		return Message{}, ErrNotReady
	case s.state == StateProcessing:
		s.mu.Unlock()
		return Message{}, ErrBusy
	case question == "":
		s.mu.Unlock()
		return Message{}, ErrEmptyQuestion
	}
	s.conversation.Append(Message{Role: RoleUser, Content: question, Time: s.clock.Now()})
	s.state = StateProcessing
	agent := s.agent
	s.mu.Unlock()

	answer, turnErr := s.runTurn(ctx, agent, question)

	reply := Message{Role: RoleAssistant, Content: answer}
	if turnErr != nil {
		reply.Content = turnErr.Error()
		reply.Error = true
		s.logger.Error("turn failed", "session", s.id, "error", turnErr.Err)
	}

	s.mu.Lock()
	reply.Time = s.clock.Now()
	s.conversation.Append(reply)
	s.state = StateReady
	s.mu.Unlock()

	if turnErr != nil {
		return reply, turnErr
	}
	return reply, nil
}

// runTurn calls the agent, converting errors and panics into a TurnError.
func (s *Session) runTurn(ctx context.Context, agent Agent, question string) (answer string, turnErr *researcher.TurnError) {
	defer func() {
		if r := recover(); r != nil {
			answer = ""
			turnErr = &researcher.TurnError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	answer, err := agent.Answer(ctx, question)
	if err != nil {
		return "", &researcher.TurnError{Err: err}
	}
	return answer, nil
}
