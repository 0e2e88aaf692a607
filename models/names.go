package models

// =============================================================================
// OpenAI Models
// https://platform.openai.com/docs/models/
// GitHub Models serves the same names under the "openai/" publisher prefix.
// =============================================================================

const (
	ModelOpenAIGPT41     = "gpt-4.1"
	ModelOpenAIGPT41Mini = "gpt-4.1-mini"
	ModelOpenAIGPT41Nano = "gpt-4.1-nano"

	ModelOpenAIGPT4o     = "gpt-4o"
	ModelOpenAIGPT4oMini = "gpt-4o-mini"
)

// GitHubPublisherOpenAI prefixes OpenAI model names on GitHub Models.
const GitHubPublisherOpenAI = "openai/"

// =============================================================================
// Google Gemini Models
// https://ai.google.dev/gemini-api/docs/models
// =============================================================================

const (
	ModelGoogleGemini25Pro       = "gemini-2.5-pro"
	ModelGoogleGemini25Flash     = "gemini-2.5-flash"
	ModelGoogleGemini25FlashLite = "gemini-2.5-flash-lite"

	ModelGoogleGemini20Flash     = "gemini-2.0-flash"
	ModelGoogleGemini20FlashLite = "gemini-2.0-flash-lite"
)
