// Package assistant assembles the researcher from a configuration and a credential:
// model, tools, tool registry, ReAct agent and executor.
//
//	b := assistant.NewBuilder(cfg)
//	a, err := b.Build(ctx, credential)
//	if err != nil {
//	    // researcher.ErrMissingCredential or *researcher.InitializationError
//	}
//	answer, err := a.Answer(ctx, "What is 12 * 7?")
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rickchristie/researcher"
	"github.com/rickchristie/researcher/agents/react"
	"github.com/rickchristie/researcher/config"
	"github.com/rickchristie/researcher/executor"
	"github.com/rickchristie/researcher/hooks"
	"github.com/rickchristie/researcher/models"
	"github.com/rickchristie/researcher/session"
	"github.com/rickchristie/researcher/tools/calculator"
	"github.com/rickchristie/researcher/tools/search"
	"github.com/rickchristie/researcher/toolchain"
)

// ExecutionName names the ExecutionContext of every question.
const ExecutionName = "researcher"

// ModelFactory builds the model for a credential.
type ModelFactory func(ctx context.Context, credential string) (researcher.Model, error)

// Builder creates an Assistant per credential. A Builder holds no credential and may be
// shared by every session.
type Builder struct {
	agent        config.AgentConfig
	temperature  float64
	newModel     ModelFactory
	searchTool   researcher.Tool
	timeProvider researcher.TimeProvider
	verboseOut   io.Writer
	extraHooks   []any
}

// NewBuilder creates a Builder from cfg. The model comes from [models.New] and the
// search tool from cfg.Search.
func NewBuilder(cfg *config.Config) *Builder {
	modelCfg := cfg.Model
	return &Builder{
		agent:       cfg.Agent,
		temperature: cfg.Model.Temperature,
		newModel: func(ctx context.Context, credential string) (researcher.Model, error) {
			return models.New(ctx, modelCfg, credential)
		},
		searchTool:   search.New(cfg.Search),
		timeProvider: researcher.NewDefaultTimeProvider(),
		verboseOut:   os.Stderr,
	}
}

// WithModelFactory replaces how the model is built from the credential.
func (b *Builder) WithModelFactory(f ModelFactory) *Builder {
	b.newModel = f
	return b
}

// WithSearchTool replaces the web search tool.
func (b *Builder) WithSearchTool(t researcher.Tool) *Builder {
	b.searchTool = t
	return b
}

// WithTimeProvider sets the clock rendered into the prompt.
func (b *Builder) WithTimeProvider(tp researcher.TimeProvider) *Builder {
	b.timeProvider = tp
	return b
}

// WithVerboseWriter sets where the verbose trace is written when verbose is enabled.
func (b *Builder) WithVerboseWriter(w io.Writer) *Builder {
	b.verboseOut = w
	return b
}

// RegisterHook adds a hook to every Assistant built afterwards.
func (b *Builder) RegisterHook(hook any) *Builder {
	b.extraHooks = append(b.extraHooks, hook)
	return b
}

// Build creates an Assistant for credential. The components are built in order: model,
// tools, tool registry, agent, executor. A blank credential returns
// [researcher.ErrMissingCredential] without touching any component. Any other failure is
// an [*researcher.InitializationError].
func (b *Builder) Build(ctx context.Context, credential string) (*Assistant, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, researcher.ErrMissingCredential
	}
	if b.newModel == nil {
		return nil, &researcher.InitializationError{Err: errors.New("no model factory configured")}
	}
	if b.searchTool == nil {
		return nil, &researcher.InitializationError{Err: errors.New("no search tool configured")}
	}

	model, err := b.newModel(ctx, credential)
	if err != nil {
		if errors.Is(err, researcher.ErrMissingCredential) {
			return nil, err
		}
		return nil, &researcher.InitializationError{Err: fmt.Errorf("model: %w", err)}
	}

	registryHooks := hooks.NewRegistry()
	if b.agent.Verbose && b.verboseOut != nil {
		registryHooks.Register(hooks.NewLoggerWithWriter(b.verboseOut))
	}
	for _, h := range b.extraHooks {
		registryHooks.Register(h)
	}

	calc := calculator.New().WithModel(model).WithHooks(registryHooks)
	registry, err := toolchain.NewRegistry(b.searchTool, calc)
	if err != nil {
		return nil, &researcher.InitializationError{Err: fmt.Errorf("tools: %w", err)}
	}

	agent := react.NewAgent(model, registry).
		WithHandleParsingErrors(b.agent.HandleParsingErrors).
		WithTemperature(b.temperature).
		WithTimeProvider(b.timeProvider)

	exec := executor.New[*react.LoopData](agent, executor.Config{
		MaxIterations: b.agent.MaxIterations,
	}).WithHooks(registryHooks)

	return &Assistant{
		exec:          exec,
		tools:         registry,
		maxIterations: b.agent.MaxIterations,
	}, nil
}

// SessionBuilder adapts b to [session.Builder].
func (b *Builder) SessionBuilder() session.Builder {
	return session.BuilderFunc(func(ctx context.Context, credential string) (session.Agent, error) {
		a, err := b.Build(ctx, credential)
		if err != nil {
			// A nil *Assistant must not become a non-nil session.Agent.
			return nil, err
		}
		return a, nil
	})
}

// Assistant answers questions with the ReAct loop. It is immutable after Build and safe
// for concurrent use; each question runs on its own ExecutionContext.
type Assistant struct {
	exec          *executor.Executor[*react.LoopData]
	tools         *toolchain.Registry
	maxIterations int
}

// Result is the outcome of one question.
type Result struct {
	Output     string
	Reason     researcher.TerminationReason
	Iterations int
	Duration   time.Duration
	Stats      map[researcher.StatKey]int64
}

// ToolNames returns the names of the available tools.
func (a *Assistant) ToolNames() []string {
	return a.tools.Names()
}

// Run answers question. Reaching the iteration cap is not an error: the output is
// [researcher.StoppedEarlyOutput]. Model failures, fatal parse errors and cancellation
// are returned as errors.
func (a *Assistant) Run(ctx context.Context, question string) (*Result, error) {
	data := react.NewLoopData(question)
	execCtx := researcher.NewExecutionContext(ctx, ExecutionName, data)
	defer execCtx.Close()

	a.exec.Execute(execCtx)

	// Starting iteration k+1 is what trips the cap, so clamp to the rounds that ran.
	iterations := execCtx.Iteration()
	if a.maxIterations > 0 && iterations > a.maxIterations {
		iterations = a.maxIterations
	}

	result := &Result{
		Output:     execCtx.FinalResult(),
		Reason:     execCtx.TerminationReason(),
		Iterations: iterations,
		Duration:   execCtx.Duration(),
		Stats:      execCtx.Stats().Counters(),
	}
	if err := execCtx.Error(); err != nil {
		return result, err
	}
	return result, nil
}

// Answer is Run returning only the output text.
func (a *Assistant) Answer(ctx context.Context, question string) (string, error) {
	result, err := a.Run(ctx, question)
	if err != nil {
		return "", err
	}
	return result.Output, nil
}
