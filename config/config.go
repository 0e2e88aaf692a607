// Package config loads the researcher configuration from YAML.
//
// A missing file is not an error: every field has a default. A present file is
// validated against a JSON Schema reflected from [Config] before it is decoded, so
// unknown keys and out-of-range values are rejected with the offending path.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rickchristie/researcher/models"
	"github.com/rickchristie/researcher/schema"
	"github.com/rickchristie/researcher/tools/search"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "RESEARCHER_CONFIG"

// Config is the YAML structure of the config file. There is deliberately no field for
// the credential: it is only ever supplied interactively.
type Config struct {
	Agent  AgentConfig   `yaml:"agent" json:"agent,omitempty"`
	Model  models.Config `yaml:"model" json:"model,omitempty"`
	Search search.Config `yaml:"search" json:"search,omitempty"`
	Server ServerConfig  `yaml:"server" json:"server,omitempty"`
	Log    LogConfig     `yaml:"log" json:"log,omitempty"`
}

// AgentConfig controls the reasoning loop.
type AgentConfig struct {
	// MaxIterations caps the model-query rounds per question.
	MaxIterations int `yaml:"max_iterations" json:"max_iterations,omitempty" jsonschema:"minimum=1"`

	// HandleParsingErrors feeds unparsable model output back as an observation instead
	// of failing the turn.
	HandleParsingErrors bool `yaml:"handle_parsing_errors" json:"handle_parsing_errors"`

	// Verbose traces every step of the loop to stderr.
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// ServerConfig configures the web surface.
type ServerConfig struct {
	Addr         string        `yaml:"addr" json:"addr,omitempty"`
	SessionTTL   time.Duration `yaml:"session_ttl" json:"session_ttl,omitempty"`
	AllowOrigins []string      `yaml:"allow_origins" json:"allow_origins,omitempty"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level" json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	Format string `yaml:"format" json:"format,omitempty" jsonschema:"enum=text,enum=json"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			MaxIterations:       5,
			HandleParsingErrors: true,
			Verbose:             true,
		},
		Model:  models.DefaultConfig(),
		Search: search.DefaultConfig(),
		Server: ServerConfig{
			Addr:       ":8080",
			SessionTTL: 30 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

var fileSchema = schema.MustReflect(&Config{})

// Load reads the config file at path over the defaults. An empty path, or a path that
// does not exist, yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults, expanding ${ENV_VAR} references first.
func Parse(data []byte) (*Config, error) {
	expanded := []byte(os.ExpandEnv(string(data)))

	var doc any
	if err := yaml.Unmarshal(expanded, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if doc != nil {
		if err := fileSchema.Validate(doc); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the semantic constraints the schema cannot express and normalizes
// case-insensitive values.
func (c *Config) Validate() error {
	if c.Agent.MaxIterations < 1 {
		return fmt.Errorf("agent.max_iterations must be at least 1, got %d", c.Agent.MaxIterations)
	}

	provider, err := models.ParseProvider(string(c.Model.Provider))
	if err != nil {
		return fmt.Errorf("model.provider: %w", err)
	}
	c.Model.Provider = provider

	if c.Model.Temperature < 0 {
		return fmt.Errorf("model.temperature must not be negative, got %v", c.Model.Temperature)
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl must be positive, got %s", c.Server.SessionTTL)
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr is required")
	}
	return nil
}

// Logger builds the process logger writing to w.
func (l LogConfig) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
