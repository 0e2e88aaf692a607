// Command researcher-cli is the terminal front end of the researcher.
//
// The API key is taken from RESEARCHER_API_KEY when set, otherwise it is read with a
// masked prompt. Type /history to print the transcript and /quit to leave.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/chzyer/readline"
	"github.com/rickchristie/researcher"
	"github.com/rickchristie/researcher/assistant"
	"github.com/rickchristie/researcher/config"
	"github.com/rickchristie/researcher/session"
)

// EnvAPIKey optionally supplies the credential.
const EnvAPIKey = "RESEARCHER_API_KEY"

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
	colorDim   = "\033[2m"
	colorBold  = "\033[1m"
)

func main() {
	if err := run(); err != nil {
		ancli.PrintErr(fmt.Sprintf("%v\n", err))
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", os.Getenv(config.EnvConfigPath), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger := cfg.Log.Logger(os.Stderr)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          colorCyan + "> " + colorReset,
		InterruptPrompt: "^C",
		EOFPrompt:       "/quit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	sess := session.New("cli", assistant.NewBuilder(cfg).SessionBuilder(), session.WithLogger(logger))

	if err := setCredential(rl, sess); err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	ancli.PrintOK(fmt.Sprintf("ready (%s, %s). Ask a question, /history or /quit.\n",
		cfg.Model.Provider, cfg.Model.ModelName()))

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) && line != "" {
				continue
			}
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		switch input := strings.TrimSpace(line); input {
		case "":
			continue
		case "/quit":
			return nil
		case "/history":
			printHistory(rl.Stdout(), sess.Messages())
		default:
			ask(rl.Stdout(), sess, input)
		}
	}
}

// setCredential prompts until a credential is accepted. RESEARCHER_API_KEY is tried
// first.
func setCredential(rl *readline.Instance, sess *session.Session) error {
	if key := os.Getenv(EnvAPIKey); key != "" {
		err := sess.SetCredential(context.Background(), key)
		if err == nil {
			return nil
		}
		ancli.PrintWarn(fmt.Sprintf("%s rejected: %v\n", EnvAPIKey, err))
	}

	for {
		secret, err := rl.ReadPassword("API key: ")
		if err != nil {
			return err
		}
		err = sess.SetCredential(context.Background(), string(secret))
		switch {
		case err == nil:
			return nil
		case errors.Is(err, researcher.ErrMissingCredential):
			ancli.PrintWarn("an API key is required to start\n")
		default:
			ancli.PrintErr(fmt.Sprintf("%v\n", err))
		}
	}
}

// ask runs one turn. Ctrl-C cancels the turn, not the program.
func ask(w io.Writer, sess *session.Session, question string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reply, err := sess.Submit(ctx, question)
	var turnErr *researcher.TurnError
	switch {
	case err == nil:
		fmt.Fprintf(w, "%s%s%s\n\n", colorBold, reply.Content, colorReset)
	case errors.As(err, &turnErr):
		ancli.PrintErr(reply.Content + "\n")
	default:
		ancli.PrintWarn(fmt.Sprintf("%v\n", err))
	}
}

func printHistory(w io.Writer, messages []session.Message) {
	if len(messages) == 0 {
		ancli.PrintOK("no messages yet\n")
		return
	}
	for _, m := range messages {
		fmt.Fprintf(w, "%s[%s] %s:%s %s\n",
			colorDim, m.Time.Format("15:04:05"), m.Role, colorReset, m.Content)
	}
	fmt.Fprintln(w)
}
