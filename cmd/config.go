package main

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	ServerAddr string `env:"SERVER_ADDR,required=true" validate:"hostname_port"`
	UseTLS     bool   `env:"USE_TLS,default=false"`
	Nick       string `env:"NICK,required=true" validate:"min=1,max=30"`
	Realname   string `env:"REALNAME,default=bootbot"`
	// Comma-separated channel list, e.g. "#general,#dev".
	Channels string `env:"CHANNELS,required=true"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	// 0 disables the HTTP store inspector.
	DebugPort int `env:"DEBUG_PORT,default=0" validate:"gte=0"`

	DialTimeout     time.Duration `env:"DIAL_TIMEOUT,default=10s"`
	BackoffBase     time.Duration `env:"BACKOFF_BASE,default=2s"`
	BackoffCap      time.Duration `env:"BACKOFF_CAP,default=5m"`
	JoinTimeout     time.Duration `env:"JOIN_TIMEOUT,default=10s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	ShutdownGrace   time.Duration `env:"SHUTDOWN_GRACE,default=5s"`
	StatsInterval   time.Duration `env:"STATS_INTERVAL,default=1m"`

	// Outbound flood control: sustained lines per second and burst ceiling.
	ThrottleRefill float64 `env:"THROTTLE_REFILL,default=0.5" validate:"gt=0"`
	ThrottleBurst  int     `env:"THROTTLE_BURST,default=4" validate:"gte=1"`

	// Memos delivered per utterance of the recipient; the rest wait for
	// the next line so one greeting cannot flood the channel.
	DeliveryCap    int           `env:"DELIVERY_CAP,default=2" validate:"gte=1"`
	HandlerTimeout time.Duration `env:"HANDLER_TIMEOUT,default=12s"`

	RepoURL        string `env:"REPO_URL,default=https://github.com/bootbot/bootbot"`
	WeatherBaseURL string `env:"WEATHER_BASE_URL,default=https://wttr.in"`
	PriceBaseURL   string `env:"PRICE_BASE_URL,default=https://api.coingecko.com/api/v3"`
}

// ChannelList splits and checks the configured channel names.
func ChannelList(str string) ([]string, error) {
	var channels []string
	for _, raw := range strings.Split(str, ",") {
		channel := strings.TrimSpace(raw)
		if channel == "" {
			continue
		}
		if !strings.HasPrefix(channel, "#") {
			return nil, fmt.Errorf("CHANNELS entries must start with '#', got %q", channel)
		}
		channels = append(channels, channel)
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("CHANNELS must name at least one channel")
	}
	return channels, nil
}
