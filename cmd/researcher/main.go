// Command researcher serves the web researcher UI.
//
//	researcher -config researcher.yaml -addr :8080
//
// The config path may also come from RESEARCHER_CONFIG. Each browser session enters its
// own API key; the server never reads one from the environment.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rickchristie/researcher/assistant"
	"github.com/rickchristie/researcher/config"
	"github.com/rickchristie/researcher/server"
	"github.com/rickchristie/researcher/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "researcher: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", os.Getenv(config.EnvConfigPath), "path to the YAML config file")
	addr := flag.String("addr", "", "listen address, overrides server.addr")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger := cfg.Log.Logger(os.Stderr)
	logger.Info("starting",
		"provider", cfg.Model.Provider,
		"model", cfg.Model.ModelName(),
		"max_iterations", cfg.Agent.MaxIterations,
	)

	builder := assistant.NewBuilder(cfg)
	sessions := session.NewManager(
		builder.SessionBuilder(),
		cfg.Server.SessionTTL,
		session.WithLogger(logger),
	)

	srv, err := server.New(cfg.Server, sessions, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
