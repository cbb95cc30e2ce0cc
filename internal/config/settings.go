package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/fernwell/ledgerchat/internal/common"
)

// Settings is the resolved application configuration. Values come from
// the config file, LEDGERCHAT_* environment variables and flags, in
// viper's usual precedence order.
type Settings struct {
	DatabasePath string
	UserID       string
	OpenAIKey    string
	AnthropicKey string
	PendingTTL   time.Duration
}

// Load resolves settings from viper, applying defaults and expanding
// paths. The database directory is created by the storage layer, not
// here.
func Load() (*Settings, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "ledgerchat", "ledgerchat.db")
	}

	userID := viper.GetString("user")
	if userID == "" {
		userID = "default"
	}

	pendingTTL := viper.GetDuration("conversation.pending_ttl")
	if pendingTTL < 0 {
		return nil, fmt.Errorf("conversation.pending_ttl must not be negative: %w", common.ErrInvalidConfig)
	}

	return &Settings{
		DatabasePath: ExpandPath(dbPath),
		UserID:       userID,
		OpenAIKey:    viper.GetString("llm.openai_api_key"),
		AnthropicKey: viper.GetString("llm.anthropic_api_key"),
		PendingTTL:   pendingTTL,
	}, nil
}
