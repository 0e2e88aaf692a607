package executor

import (
	"fmt"
	"time"

	"github.com/rickchristie/researcher"
	"github.com/rickchristie/researcher/hooks"
)

// Config holds configuration options for the Executor.
type Config struct {
	// MaxIterations caps the number of AgentLoop.Next calls. It is installed as an
	// iteration limit on executions that carry no limits of their own. Zero means no cap.
	MaxIterations int
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{MaxIterations: 5}
}

// Executor orchestrates the execution of an AgentLoop, managing the lifecycle events and
// termination bookkeeping on the ExecutionContext.
//
// The Executor is responsible for:
//   - Running the AgentLoop repeatedly until it returns [researcher.LATerminate]
//   - Publishing lifecycle events, which the hook registry dispatches
//   - Handling context cancellation and limit exceeded signals
//
// An Executor holds no per-execution state and may run many executions concurrently.
type Executor[Data researcher.LoopData] struct {
	loop   researcher.AgentLoop[Data]
	config Config
	hooks  *hooks.Registry
}

// New creates a new Executor with the given AgentLoop and configuration.
func New[Data researcher.LoopData](loop researcher.AgentLoop[Data], config Config) *Executor[Data] {
	return &Executor[Data]{
		loop:   loop,
		config: config,
		hooks:  hooks.NewRegistry(),
	}
}

// WithHooks replaces the executor's hook registry with the provided one.
// Returns the executor for chaining.
func (e *Executor[Data]) WithHooks(h *hooks.Registry) *Executor[Data] {
	e.hooks = h
	return e
}

// RegisterHook adds a hook to the executor's existing hook registry.
// Returns the executor for chaining.
//
//	exec := executor.New(loop, config).
//	    RegisterHook(hooks.NewLogger())
func (e *Executor[Data]) RegisterHook(hook any) *Executor[Data] {
	e.hooks.Register(hook)
	return e
}

// Execute runs the AgentLoop until termination.
//
// The execution flow:
//  1. Publish BeforeExecutionEvent
//  2. Repeatedly start an iteration and call AgentLoop.Next until:
//     - It returns LATerminate
//     - A limit is exceeded (the iteration cap yields a best-effort result)
//     - Context is canceled
//     - An error occurs
//  3. Publish AfterExecutionEvent
//
// The outcome is read from execCtx afterwards:
//
//	execCtx := researcher.NewExecutionContext(ctx, "chat", data)
//	exec.Execute(execCtx)
//	if err := execCtx.Error(); err != nil {
//	    // handle error
//	}
//	answer := execCtx.FinalResult()
func (e *Executor[Data]) Execute(execCtx *researcher.ExecutionContext) {
	if e.hooks != nil {
		execCtx.SetHookDispatcher(e.hooks)
	}
	if len(execCtx.Limits()) == 0 && e.config.MaxIterations > 0 {
		execCtx.SetLimits(researcher.DefaultLimits(e.config.MaxIterations))
	}

	task := ""
	if data := execCtx.Data(); data != nil {
		task = data.GetTask()
	}
	execCtx.Publish(&researcher.BeforeExecutionEvent{Task: task})

	defer func() {
		execCtx.Publish(&researcher.AfterExecutionEvent{
			TerminationReason: execCtx.TerminationReason(),
			Result:            execCtx.FinalResult(),
			Error:             execCtx.Error(),
		})
	}()

	for {
		if execCtx.ExceededLimit() != nil {
			e.terminateOnLimit(execCtx)
			return
		}
		if err := execCtx.Context().Err(); err != nil {
			execCtx.SetTermination(researcher.TerminationContextCanceled, "", err)
			return
		}

		// The increment may trip the iteration cap, in which case Next is never called.
		execCtx.StartIteration()
		if execCtx.ExceededLimit() != nil {
			e.terminateOnLimit(execCtx)
			return
		}

		iterStart := time.Now()
		execCtx.Publish(&researcher.BeforeIterationEvent{})

		loopResult, loopErr := e.loop.Next(execCtx)
		iterDuration := time.Since(iterStart)

		if loopErr != nil {
			switch {
			case execCtx.ExceededLimit() != nil:
				e.terminateOnLimit(execCtx)
			case execCtx.Context().Err() != nil:
				execCtx.SetTermination(
					researcher.TerminationContextCanceled,
					"",
					execCtx.Context().Err(),
				)
			default:
				execErr := fmt.Errorf(
					"AgentLoop.Next (iteration %d): %w",
					execCtx.Iteration(),
					loopErr,
				)
				execCtx.Publish(&researcher.ErrorEvent{Err: execErr})
				execCtx.SetTermination(researcher.TerminationError, "", execErr)
			}
			return
		}

		execCtx.Publish(&researcher.AfterIterationEvent{
			Result:   loopResult,
			Duration: iterDuration,
		})

		if loopResult.Action == researcher.LATerminate {
			execCtx.SetTermination(researcher.TerminationSuccess, loopResult.Result, nil)
			return
		}
	}
}

// terminateOnLimit ends the execution after a limit was crossed. Hitting the iteration
// cap is not an error: the execution ends with [researcher.StoppedEarlyOutput].
func (e *Executor[Data]) terminateOnLimit(execCtx *researcher.ExecutionContext) {
	limit := execCtx.ExceededLimit()
	if limit.IsIterationLimit() {
		execCtx.SetTermination(
			researcher.TerminationLimitExceeded,
			researcher.StoppedEarlyOutput,
			nil,
		)
		return
	}
	execCtx.SetTermination(
		researcher.TerminationLimitExceeded,
		"",
		fmt.Errorf("%w: %s > %v", researcher.ErrLimitExceeded, limit.Key, limit.MaxValue),
	)
}
