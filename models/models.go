// Package models adapts provider clients to researcher.Model.
//
// Three providers are supported:
//   - "openai": any OpenAI-compatible chat completions API through LangChainGo.
//   - "github": the GitHub Models inference API (OpenAI-compatible) through LangChainGo.
//   - "gemini": Google Gemini through the google.golang.org/genai client.
//
// The credential is always passed explicitly. Nothing here reads or writes the
// process environment.
package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/rickchristie/researcher"
)

// Provider names a model backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGitHub Provider = "github"
	ProviderGemini Provider = "gemini"
)

// Providers lists the supported providers.
var Providers = []Provider{ProviderOpenAI, ProviderGitHub, ProviderGemini}

const (
	DefaultOpenAIModel = ModelOpenAIGPT4oMini
	DefaultGitHubModel = GitHubPublisherOpenAI + ModelOpenAIGPT4oMini
	DefaultGeminiModel = ModelGoogleGemini20Flash
)

// Config selects and configures the model backend.
type Config struct {
	Provider Provider `yaml:"provider" json:"provider,omitempty"`
	Name     string   `yaml:"name" json:"name,omitempty"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible proxies, tests).
	BaseURL string `yaml:"base_url" json:"base_url,omitempty"`

	Temperature float64 `yaml:"temperature" json:"temperature" jsonschema:"minimum=0,maximum=2"`
}

// DefaultConfig returns the OpenAI configuration with temperature 0.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderOpenAI,
		Name:     DefaultOpenAIModel,
	}
}

// ParseProvider validates a provider name.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown model provider %q", s)
}

// ModelName returns cfg.Name, or the provider's default model when unset.
func (cfg Config) ModelName() string {
	if cfg.Name != "" {
		return cfg.Name
	}
	switch cfg.Provider {
	case ProviderGitHub:
		return DefaultGitHubModel
	case ProviderGemini:
		return DefaultGeminiModel
	default:
		return DefaultOpenAIModel
	}
}

// New builds the model for cfg using credential. A blank credential returns
// researcher.ErrMissingCredential.
func New(ctx context.Context, cfg Config, credential string) (researcher.Model, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, researcher.ErrMissingCredential
	}

	provider := cfg.Provider
	if provider == "" {
		provider = ProviderOpenAI
	}

	switch provider {
	case ProviderOpenAI:
		return NewOpenAI(cfg, credential)
	case ProviderGitHub:
		return NewGitHub(cfg, credential)
	case ProviderGemini:
		return NewGemini(ctx, cfg, credential)
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}
