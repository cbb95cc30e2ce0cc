package llm

import (
	"context"
	"time"
)

// Role tags a chat message.
type Role string

// Message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged message in a completion request.
type Message struct {
	Role    Role
	Content string
}

// ToolSchema describes an optional function/tool the model may call.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON schema for the tool arguments
}

// Request is a single structured completion request. The gateway sends
// the identical message list to the fallback provider when the primary
// fails.
type Request struct {
	Messages    []Message
	Tools       []ToolSchema
	MaxTokens   int
	Temperature float64
}

// Usage reports token consumption for one call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ToolCall is the model's invocation of a declared tool.
type ToolCall struct {
	Name      string
	Arguments string // raw JSON arguments
}

// Response is the result of one successful provider call.
type Response struct {
	Content  string
	ToolCall *ToolCall
	Usage    Usage
	Latency  time.Duration
}

// Client is the interface every provider implements. A client is a
// pure transport: it never reinterprets amounts, timestamps or
// currencies in the payload.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// ProviderConfig identifies one provider/model pair plus its transport
// settings.
type ProviderConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	RateLimit   int // requests per minute, 0 means default
}
