package models

import (
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms/openai"
)

// GitHubModelsBaseURL is the base URL for the GitHub Models API. The OpenAI-compatible
// chat completions endpoint is at {baseURL}/chat/completions.
const GitHubModelsBaseURL = "https://models.github.ai/inference"

// githubHeaderTransport injects GitHub-specific headers into every request.
type githubHeaderTransport struct {
	base http.RoundTripper
}

func (t *githubHeaderTransport) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	return t.base.RoundTrip(req)
}

// NewGitHub creates an LCG backed by the GitHub Models API.
//
// The credential must be a fine-grained GitHub Personal Access Token with the
// models:read permission. Model names use the publisher/model format, for example
// "openai/gpt-4o-mini" or "meta/llama-4-scout".
func NewGitHub(cfg Config, credential string, opts ...openai.Option) (*LCG, error) {
	name := cfg.ModelName()
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = GitHubModelsBaseURL
	}

	baseOpts := []openai.Option{
		openai.WithBaseURL(baseURL),
		openai.WithToken(credential),
		openai.WithModel(name),
		openai.WithHTTPClient(&githubHeaderTransport{base: http.DefaultTransport}),
	}

	llm, err := openai.New(append(baseOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub Models client: %w", err)
	}
	return NewLCG(llm).WithModelName(name), nil
}
