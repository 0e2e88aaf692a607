// Package termination decides when the agent loop should stop.
//
// A Termination is a labelled section of the model output. When the agent finds the
// section, it asks the Termination whether the content is an acceptable final answer:
//
//	term := termination.NewText("Final Answer")
//	result := term.ShouldTerminate(execCtx, content)
//	if result.Status == researcher.TerminationAnswerAccepted {
//	    // result.Content is the answer shown to the user
//	}
package termination
