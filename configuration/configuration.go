package configuration

import (
	"fmt"
	"log/slog"
	"strings"
)

type Configuration struct {
	HttpAddr          string  `usage:"HTTP address"`
	MaxSlots          int     `usage:"slot limit per collection, 0 means unlimited"`
	LogLevel          string  `usage:"storage log level [debug|info|warn|error]"`
	EnableCompression bool    `usage:"gzip responses when the client accepts it"`
	RateLimit         float64 `usage:"requests per second, 0 disables rate limiting"`
	RateBurst         int     `usage:"requests allowed in a burst"`
	ApiKey            string  `usage:"API key required in the X-Api-Key header"`
	ApiSecret         string  `usage:"API secret required in the X-Api-Secret header"`
	Version           bool    `usage:"show version and exit"`
	ShowBanner        bool    `usage:"show big banner"`
	ShowConfig        bool    `usage:"print config"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr:          "127.0.0.1:8080",
		LogLevel:          "info",
		EnableCompression: true,
		RateBurst:         100,
		ShowBanner:        true,
	}
}

// Level parses LogLevel.
func (c *Configuration) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel)))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("bad log level '%s': %w", c.LogLevel, err)
	}
	return level, nil
}
