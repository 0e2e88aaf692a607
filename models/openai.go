package models

import (
	"fmt"

	"github.com/tmc/langchaingo/llms/openai"
)

// NewOpenAI creates an LCG backed by an OpenAI-compatible chat completions API.
// Additional openai.Option values are applied after the ones derived from cfg.
func NewOpenAI(cfg Config, credential string, opts ...openai.Option) (*LCG, error) {
	name := cfg.ModelName()

	baseOpts := []openai.Option{
		openai.WithToken(credential),
		openai.WithModel(name),
	}
	if cfg.BaseURL != "" {
		baseOpts = append(baseOpts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(append(baseOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return NewLCG(llm).WithModelName(name), nil
}
