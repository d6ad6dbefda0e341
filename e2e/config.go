package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_BASE_URL is the HTTP root of a running server, the suite is skipped when empty
	BaseURL string `envconfig:"E2E_BASE_URL"`
	// E2E_WS_URL defaults to the /ws route of E2E_BASE_URL
	WsURL string `envconfig:"E2E_WS_URL"`
	// Tokens and chat printed by the seed tool
	SenderToken    string `envconfig:"E2E_SENDER_TOKEN"`
	RecipientToken string `envconfig:"E2E_RECIPIENT_TOKEN"`
	ChatID         string `envconfig:"E2E_CHAT_ID"`
	// E2E_DEBUG_JSON dumps full response bodies
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
