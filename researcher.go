// Package researcher is an agentic web researcher: a ReAct loop that answers questions by
// searching the web and doing arithmetic, behind a browser UI and a terminal UI.
//
// The root package defines the framework types. The packages that implement them are:
//
//   - agents/react: the ReAct [AgentLoop] (prompt, model call, parse, tool dispatch)
//   - executor: runs an AgentLoop under limits and publishes lifecycle events
//   - format, termination, toolchain: output parsing, final answers, tool dispatch
//   - tools/search, tools/calculator: the two tools
//   - models: OpenAI, GitHub Models and Gemini backends behind [Model]
//   - hooks: the hook registry and the verbose YAML trace
//   - assistant: builds all of the above from a config and a credential
//   - session, server: per-user state and the gin web surface
//
// # Quick Start
//
//	cfg := config.Default()
//	a, err := assistant.NewBuilder(cfg).Build(ctx, apiKey)
//	if err != nil {
//	    return err
//	}
//	answer, err := a.Answer(ctx, "What is 12 * 7?")
//
// Building by hand looks like this:
//
//	model, _ := models.New(ctx, cfg.Model, apiKey)
//	tools, _ := toolchain.NewRegistry(search.New(cfg.Search), calculator.New().WithModel(model))
//	agent := react.NewAgent(model, tools).WithHandleParsingErrors(true)
//
//	exec := executor.New[*react.LoopData](agent, executor.Config{MaxIterations: 5})
//	execCtx := researcher.NewExecutionContext(ctx, "researcher", react.NewLoopData(question))
//	defer execCtx.Close()
//	exec.Execute(execCtx)
//
//	fmt.Println(execCtx.TerminationReason(), execCtx.FinalResult())
//
// # Tools
//
// The tool set is closed: [ToolSearch] and [ToolMath]. A [ToolChain] maps the names the
// model writes after "Action:" to those kinds and runs the tool. Tool failures never stop
// the loop; they come back to the model as the observation "Error: <err>".
//
// # Termination
//
// The loop ends when the model writes a "Final Answer:" section ([TerminationSuccess]),
// when a [Limit] is exceeded ([TerminationLimitExceeded]), when the Go context is canceled
// ([TerminationContextCanceled]) or when the loop fails ([TerminationError]). Reaching the
// iteration cap is not an error: the result is [StoppedEarlyOutput].
//
// # Stats and Limits
//
// Every model call, tool call and parse error updates the [ExecutionStats] of the
// [ExecutionContext]. Limits are checked on each update; the default is only the
// iteration cap (see [DefaultLimits]).
//
// # Hooks
//
// Everything that happens during an execution is published as an [Event]. Hooks register
// with hooks.Registry and implement one or more of the interfaces in hooks.go, such as
// [AfterModelCallHook] or [AfterToolCallHook].
//
// # Errors
//
// [ErrMissingCredential] blocks the assistant until a credential arrives.
// [*InitializationError] reports a failed build. Within a turn, [*UnknownToolError],
// [*ParseError], [*NetworkError] and [*EvaluationError] describe what went wrong, and the
// session wraps whatever escapes a turn in [*TurnError].
package researcher
