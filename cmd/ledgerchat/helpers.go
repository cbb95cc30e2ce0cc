package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fernwell/ledgerchat/internal/assistant"
	"github.com/fernwell/ledgerchat/internal/common"
	"github.com/fernwell/ledgerchat/internal/config"
	"github.com/fernwell/ledgerchat/internal/intent"
	"github.com/fernwell/ledgerchat/internal/llm"
	"github.com/fernwell/ledgerchat/internal/service"
	"github.com/fernwell/ledgerchat/internal/storage"
)

// initStorage opens the configured database and runs migrations.
func initStorage(ctx context.Context, settings *config.Settings) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initAssistant wires the full conversational stack: storage, the
// provider gateway, the classifier and the assistant. The returned
// cleanup closes everything in reverse order.
func initAssistant(ctx context.Context, settings *config.Settings) (*assistant.Assistant, func(), error) {
	if settings.OpenAIKey == "" && settings.AnthropicKey == "" {
		return nil, nil, common.NewUserError(
			"No LLM API key configured. Set llm.openai_api_key or llm.anthropic_api_key in the config file, or export LEDGERCHAT_LLM_OPENAI_API_KEY.",
			common.ErrMissingConfig)
	}

	store, err := initStorage(ctx, settings)
	if err != nil {
		return nil, nil, err
	}

	router, err := llm.NewRouter(llm.DefaultRoutes(settings.OpenAIKey, settings.AnthropicKey))
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to build provider routes: %w", err)
	}
	gateway := llm.NewGateway(router, service.DefaultRetryOptions(), slog.Default())

	classifier, err := intent.NewClassifier(gateway, slog.Default())
	if err != nil {
		gateway.Close()
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to build classifier: %w", err)
	}

	a := assistant.New(assistant.Config{
		Storage:    store,
		Classifier: classifier,
		Gateway:    gateway,
		Logger:     slog.Default(),
		PendingTTL: settings.PendingTTL,
	})

	cleanup := func() {
		gateway.Close()
		_ = store.Close()
	}
	return a, cleanup, nil
}
