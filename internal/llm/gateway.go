package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fernwell/ledgerchat/internal/service"
)

// CallStats accumulates per-provider observability counters.
type CallStats struct {
	Calls        int64
	Failures     int64
	TotalTokens  int64
	TotalLatency time.Duration
}

// Gateway issues routed completion calls with a one-shot fallback. The
// call budget comes from the retry policy: one primary attempt plus at
// most one fallback attempt, never a retry loop.
type Gateway struct {
	router    *Router
	logger    *slog.Logger
	factory   func(ProviderConfig) (Client, error)
	clients   map[string]Client
	limiters  map[string]*rateLimiter
	stats     map[string]*CallStats
	retryOpts service.RetryOptions
	mu        sync.Mutex
}

// NewGateway creates a gateway over the given routing table.
func NewGateway(router *Router, opts service.RetryOptions, logger *slog.Logger) *Gateway {
	if opts.MaxAttempts <= 0 {
		opts = service.DefaultRetryOptions()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		router:    router,
		logger:    logger,
		factory:   NewClient,
		clients:   make(map[string]Client),
		limiters:  make(map[string]*rateLimiter),
		stats:     make(map[string]*CallStats),
		retryOpts: opts,
	}
}

// WithFactory overrides client construction. Used by tests to inject
// fake providers.
func (g *Gateway) WithFactory(factory func(ProviderConfig) (Client, error)) *Gateway {
	g.factory = factory
	return g
}

// Complete routes the task and issues the primary call; on any typed
// failure it issues exactly one fallback call with an identical message
// payload. Both failing yields a single aggregated error.
func (g *Gateway) Complete(ctx context.Context, task string, req Request) (*Response, error) {
	route, err := g.router.Route(task)
	if err != nil {
		return nil, err
	}

	resp, primaryErr := g.call(ctx, route.Primary, req)
	if primaryErr == nil {
		return resp, nil
	}

	if g.retryOpts.MaxAttempts < 2 {
		return nil, &FallbackError{Task: task, Primary: primaryErr, Fallback: fmt.Errorf("fallback disabled")}
	}

	g.logger.Warn("primary provider failed, trying fallback",
		"task", task,
		"primary", route.Primary.Provider,
		"fallback", route.Fallback.Provider,
		"error", primaryErr)

	resp, fallbackErr := g.call(ctx, route.Fallback, req)
	if fallbackErr == nil {
		return resp, nil
	}

	return nil, &FallbackError{Task: task, Primary: primaryErr, Fallback: fallbackErr}
}

// call issues one provider call, enforcing the per-provider rate limit
// and recording stats.
func (g *Gateway) call(ctx context.Context, cfg ProviderConfig, req Request) (*Response, error) {
	if g.retryOpts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.retryOpts.Timeout)
		defer cancel()
	}

	client, limiter, stats, err := g.resolve(cfg)
	if err != nil {
		return nil, err
	}

	if err := limiter.wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := client.Complete(ctx, req)
	elapsed := time.Since(start)

	g.mu.Lock()
	stats.Calls++
	stats.TotalLatency += elapsed
	if err != nil {
		stats.Failures++
	} else {
		stats.TotalTokens += int64(resp.Usage.TotalTokens)
	}
	g.mu.Unlock()

	if err != nil {
		return nil, err
	}

	g.logger.Debug("provider call completed",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"tokens", resp.Usage.TotalTokens,
		"latency", elapsed)

	return resp, nil
}

func (g *Gateway) resolve(cfg ProviderConfig) (Client, *rateLimiter, *CallStats, error) {
	key := cfg.Provider + "/" + cfg.Model

	g.mu.Lock()
	defer g.mu.Unlock()

	client, ok := g.clients[key]
	if !ok {
		var err error
		client, err = g.factory(cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
		}
		g.clients[key] = client
	}

	limiter, ok := g.limiters[cfg.Provider]
	if !ok {
		limiter = newRateLimiter(cfg.RateLimit)
		g.limiters[cfg.Provider] = limiter
	}

	stats, ok := g.stats[key]
	if !ok {
		stats = &CallStats{}
		g.stats[key] = stats
	}

	return client, limiter, stats, nil
}

// Stats returns a copy of the per-provider counters.
func (g *Gateway) Stats() map[string]CallStats {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[string]CallStats, len(g.stats))
	for key, s := range g.stats {
		out[key] = *s
	}
	return out
}

// Close stops the per-provider rate limiters.
func (g *Gateway) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, limiter := range g.limiters {
		limiter.Close()
	}
}
