package provider

import (
	"fmt"
	"time"
)

// Settings selects and configures an inference backend.
type Settings struct {
	Provider string // "openai" or "anthropic"

	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string

	AnthropicAPIKey string
	AnthropicModel  string

	Timeout time.Duration
}

// New builds the ChatClient named by s.Provider.
func New(s Settings) (ChatClient, error) {
	switch s.Provider {
	case "openai":
		if s.OpenAIBaseURL == "" {
			return nil, fmt.Errorf("openai provider requires a base URL")
		}
		return NewOpenAIClient(s.OpenAIBaseURL, s.OpenAIAPIKey, s.OpenAIModel, s.Timeout), nil
	case "anthropic":
		return NewAnthropicClient(s.AnthropicAPIKey, s.AnthropicModel), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want openai or anthropic)", s.Provider)
	}
}
