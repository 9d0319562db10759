package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_SERVER_ADDR points at a live IRC server with the bot connected;
	// the suite skips itself when unset.
	ServerAddr string `envconfig:"E2E_SERVER_ADDR"`
	BotNick    string `envconfig:"E2E_BOT_NICK" default:"boot"`
	Channel    string `envconfig:"E2E_CHANNEL" default:"#bootbot-e2e"`
	// E2E_DEBUG_WIRE dumps every raw protocol line exchanged
	DebugWire bool `envconfig:"E2E_DEBUG_WIRE" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
