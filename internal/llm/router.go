package llm

import (
	"fmt"
)

// Well-known task names. Tasks are semantic categories of inference
// work; the router maps each to a primary and a fallback provider.
const (
	TaskExtract  = "extract-structured-data"
	TaskQuick    = "quick-response"
	TaskAnalysis = "deep-analysis"
)

// Route is one routing table entry.
type Route struct {
	Primary  ProviderConfig
	Fallback ProviderConfig
}

// Router maps task names to provider/model pairs. The table is built
// once at startup and read-only afterwards.
type Router struct {
	routes map[string]Route
}

// NewRouter builds a router from an explicit routing table.
func NewRouter(routes map[string]Route) (*Router, error) {
	if len(routes) == 0 {
		return nil, fmt.Errorf("routing table is empty")
	}
	table := make(map[string]Route, len(routes))
	for task, route := range routes {
		if route.Primary.Provider == "" {
			return nil, fmt.Errorf("task %q has no primary provider", task)
		}
		if route.Fallback.Provider == "" {
			return nil, fmt.Errorf("task %q has no fallback provider", task)
		}
		table[task] = route
	}
	return &Router{routes: table}, nil
}

// DefaultRoutes builds the standard routing table from provider
// credentials: extraction and quick turns go to the fast models,
// analysis to the larger ones, and each task falls back to the other
// vendor.
func DefaultRoutes(openAIKey, anthropicKey string) map[string]Route {
	openai := func(model string) ProviderConfig {
		return ProviderConfig{Provider: "openai", Model: model, APIKey: openAIKey}
	}
	anthropic := func(model string) ProviderConfig {
		return ProviderConfig{Provider: "anthropic", Model: model, APIKey: anthropicKey}
	}
	return map[string]Route{
		TaskExtract: {
			Primary:  openai("gpt-4o-mini"),
			Fallback: anthropic("claude-3-5-haiku-20241022"),
		},
		TaskQuick: {
			Primary:  anthropic("claude-3-5-haiku-20241022"),
			Fallback: openai("gpt-4o-mini"),
		},
		TaskAnalysis: {
			Primary:  anthropic("claude-sonnet-4-20250514"),
			Fallback: openai("gpt-4o"),
		},
	}
}

// Route resolves a task name to its provider pair.
func (r *Router) Route(task string) (Route, error) {
	route, ok := r.routes[task]
	if !ok {
		return Route{}, fmt.Errorf("no route configured for task %q", task)
	}
	return route, nil
}

// Tasks lists the configured task names.
func (r *Router) Tasks() []string {
	tasks := make([]string, 0, len(r.routes))
	for task := range r.routes {
		tasks = append(tasks, task)
	}
	return tasks
}
