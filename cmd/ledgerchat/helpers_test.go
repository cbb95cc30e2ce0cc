package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fernwell/ledgerchat/internal/common"
	"github.com/fernwell/ledgerchat/internal/config"
)

func TestInitAssistantRequiresAPIKey(t *testing.T) {
	settings := &config.Settings{
		DatabasePath: t.TempDir() + "/ledgerchat.db",
		UserID:       "default",
	}

	_, _, err := initAssistant(context.Background(), settings)

	assert.ErrorIs(t, err, common.ErrMissingConfig)
	assert.Contains(t, common.UserMessage(err, ""), "API key")
}

func TestInitAssistantWithKey(t *testing.T) {
	settings := &config.Settings{
		DatabasePath: t.TempDir() + "/ledgerchat.db",
		UserID:       "default",
		OpenAIKey:    "sk-test",
		AnthropicKey: "sk-ant-test",
		PendingTTL:   time.Minute,
	}

	a, cleanup, err := initAssistant(context.Background(), settings)
	assert.NoError(t, err)
	if cleanup != nil {
		defer cleanup()
	}
	assert.NotNil(t, a)
}
