package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const anthropicDefaultURL = "https://api.anthropic.com/v1/messages"

// anthropicClient implements the Client interface for the Anthropic API.
type anthropicClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

// newAnthropicClient creates a new Anthropic API client.
func newAnthropicClient(cfg ProviderConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "claude-3-5-haiku-20241022"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 512
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = anthropicDefaultURL
	}

	return &anthropicClient{
		apiKey:      cfg.APIKey,
		model:       model,
		baseURL:     baseURL,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// Complete sends a messages request to Anthropic. System messages are
// lifted into the top-level system field; tool schemas map onto
// Anthropic's tool definitions.
func (c *anthropicClient) Complete(ctx context.Context, req Request) (*Response, error) {
	var system string
	messages := make([]map[string]string, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n"
			}
			system += m.Content
			continue
		}
		messages = append(messages, map[string]string{
			"role":    string(m.Role),
			"content": m.Content,
		})
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}

	requestBody := map[string]any{
		"model":       c.model,
		"max_tokens":  maxTokens,
		"temperature": temperature,
		"messages":    messages,
	}
	if system != "" {
		requestBody["system"] = system
	}

	if len(req.Tools) > 0 {
		tools := make([]map[string]any, 0, len(req.Tools))
		for _, t := range req.Tools {
			tools = append(tools, map[string]any{
				"name":         t.Name,
				"description":  t.Description,
				"input_schema": t.Parameters,
			})
		}
		requestBody["tools"] = tools
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, c.fail(FailureMalformed, 0, fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(string(jsonBody)))
	if err != nil {
		return nil, c.fail(FailureNetwork, 0, fmt.Errorf("failed to create request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.fail(FailureNetwork, 0, fmt.Errorf("request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()
	latency := time.Since(start)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(FailureNetwork, 0, fmt.Errorf("failed to read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, c.fail(FailureAuth, resp.StatusCode, fmt.Errorf("anthropic API auth error: %s", string(body)))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, c.fail(FailureRateLimit, resp.StatusCode, fmt.Errorf("anthropic API rate limited: %s", string(body)))
	case resp.StatusCode != http.StatusOK:
		return nil, c.fail(FailureStatus, resp.StatusCode, fmt.Errorf("anthropic API error: %s", string(body)))
	}

	var response anthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, c.fail(FailureMalformed, resp.StatusCode, fmt.Errorf("failed to parse response: %w", err))
	}

	if len(response.Content) == 0 {
		return nil, c.fail(FailureMalformed, resp.StatusCode, fmt.Errorf("no content in response"))
	}

	out := &Response{
		Usage: Usage{
			PromptTokens:     response.Usage.InputTokens,
			CompletionTokens: response.Usage.OutputTokens,
			TotalTokens:      response.Usage.InputTokens + response.Usage.OutputTokens,
		},
		Latency: latency,
	}

	for _, block := range response.Content {
		switch block.Type {
		case "text":
			out.Content += block.Text
		case "tool_use":
			args, marshalErr := json.Marshal(block.Input)
			if marshalErr != nil {
				continue
			}
			out.ToolCall = &ToolCall{Name: block.Name, Arguments: string(args)}
		}
	}

	return out, nil
}

func (c *anthropicClient) fail(kind FailureKind, status int, err error) *ProviderError {
	return &ProviderError{
		Provider: "anthropic",
		Model:    c.model,
		Kind:     kind,
		Status:   status,
		Err:      err,
	}
}

// anthropicResponse represents the Anthropic API response structure.
type anthropicResponse struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Role       string `json:"role"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type  string         `json:"type"`
		Text  string         `json:"text"`
		Name  string         `json:"name"`
		Input map[string]any `json:"input"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}
