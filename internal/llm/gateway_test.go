package llm

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwell/ledgerchat/internal/common"
	"github.com/fernwell/ledgerchat/internal/service"
)

type fakeClient struct {
	mu    sync.Mutex
	calls []Request
	resp  *Response
	err   error
}

func (f *fakeClient) Complete(_ context.Context, req Request) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testRouter(t *testing.T) *Router {
	t.Helper()
	router, err := NewRouter(map[string]Route{
		TaskExtract: {
			Primary:  ProviderConfig{Provider: "primary", Model: "fast"},
			Fallback: ProviderConfig{Provider: "fallback", Model: "fast"},
		},
	})
	require.NoError(t, err)
	return router
}

func testGateway(t *testing.T, primary, fallback Client) *Gateway {
	t.Helper()
	gw := NewGateway(testRouter(t), service.DefaultRetryOptions(), nil)
	gw.WithFactory(func(cfg ProviderConfig) (Client, error) {
		switch cfg.Provider {
		case "primary":
			return primary, nil
		default:
			return fallback, nil
		}
	})
	t.Cleanup(gw.Close)
	return gw
}

func TestGatewayPrimarySuccess(t *testing.T) {
	primary := &fakeClient{resp: &Response{Content: "ok", Usage: Usage{TotalTokens: 10}}}
	fallback := &fakeClient{resp: &Response{Content: "never"}}
	gw := testGateway(t, primary, fallback)

	resp, err := gw.Complete(context.Background(), TaskExtract, Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 1, primary.callCount())
	assert.Equal(t, 0, fallback.callCount(), "fallback must not be called when primary succeeds")
}

func TestGatewayFallbackCalledExactlyOnce(t *testing.T) {
	primary := &fakeClient{err: &ProviderError{Provider: "primary", Model: "fast", Kind: FailureStatus, Status: 500, Err: errors.New("boom")}}
	fallback := &fakeClient{resp: &Response{Content: "rescued"}}
	gw := testGateway(t, primary, fallback)

	req := Request{Messages: []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "extract this"},
	}}
	resp, err := gw.Complete(context.Background(), TaskExtract, req)

	require.NoError(t, err)
	assert.Equal(t, "rescued", resp.Content)
	assert.Equal(t, 1, primary.callCount())
	require.Equal(t, 1, fallback.callCount())
	assert.Equal(t, req.Messages, fallback.calls[0].Messages, "fallback must receive the identical message payload")
}

func TestGatewayBothFailAggregated(t *testing.T) {
	primaryErr := &ProviderError{Provider: "primary", Model: "fast", Kind: FailureRateLimit, Status: 429, Err: errors.New("slow down")}
	fallbackErr := &ProviderError{Provider: "fallback", Model: "fast", Kind: FailureNetwork, Err: errors.New("refused")}
	gw := testGateway(t, &fakeClient{err: primaryErr}, &fakeClient{err: fallbackErr})

	_, err := gw.Complete(context.Background(), TaskExtract, Request{})

	require.Error(t, err)
	var fbErr *FallbackError
	require.ErrorAs(t, err, &fbErr)
	assert.Equal(t, TaskExtract, fbErr.Task)
	assert.ErrorIs(t, fbErr.Primary, common.ErrRateLimit)
	assert.ErrorIs(t, err, common.ErrProviderUnavailable)
}

func TestGatewayFallbackDisabled(t *testing.T) {
	primary := &fakeClient{err: &ProviderError{Provider: "primary", Model: "fast", Kind: FailureStatus, Status: 503, Err: errors.New("down")}}
	fallback := &fakeClient{resp: &Response{Content: "never"}}

	gw := NewGateway(testRouter(t), service.RetryOptions{MaxAttempts: 1}, nil)
	gw.WithFactory(func(cfg ProviderConfig) (Client, error) {
		if cfg.Provider == "primary" {
			return primary, nil
		}
		return fallback, nil
	})
	t.Cleanup(gw.Close)

	_, err := gw.Complete(context.Background(), TaskExtract, Request{})

	require.Error(t, err)
	assert.Equal(t, 0, fallback.callCount())
}

func TestGatewayUnknownTask(t *testing.T) {
	gw := testGateway(t, &fakeClient{}, &fakeClient{})

	_, err := gw.Complete(context.Background(), "no-such-task", Request{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no route configured")
}

func TestGatewayStats(t *testing.T) {
	primary := &fakeClient{resp: &Response{Content: "ok", Usage: Usage{TotalTokens: 7}}}
	gw := testGateway(t, primary, &fakeClient{})

	_, err := gw.Complete(context.Background(), TaskExtract, Request{})
	require.NoError(t, err)
	_, err = gw.Complete(context.Background(), TaskExtract, Request{})
	require.NoError(t, err)

	stats := gw.Stats()
	s, ok := stats["primary/fast"]
	require.True(t, ok)
	assert.Equal(t, int64(2), s.Calls)
	assert.Equal(t, int64(0), s.Failures)
	assert.Equal(t, int64(14), s.TotalTokens)
}
