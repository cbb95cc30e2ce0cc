package llm

import (
	"fmt"
	"strings"
)

// NewClient creates a provider client from its configuration.
func NewClient(cfg ProviderConfig) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
