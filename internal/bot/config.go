package bot

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Config holds the Telegram bot settings.
type Config struct {
	Token string

	// PollTimeout is the long-polling timeout in seconds.
	PollTimeout int

	// RetryMin and RetryMax bound the delay after a failed poll.
	RetryMin time.Duration
	RetryMax time.Duration

	// MaxMessageLen truncates replies; Telegram rejects more than 4096.
	MaxMessageLen int
}

// DefaultConfig returns the default bot configuration without a token.
func DefaultConfig() Config {
	return Config{
		PollTimeout:   30,
		RetryMin:      1 * time.Second,
		RetryMax:      15 * time.Second,
		MaxMessageLen: 3900,
	}
}

// ConfigFromEnv reads NUMINARY_TELEGRAM_TOKEN.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Token = strings.TrimSpace(os.Getenv("NUMINARY_TELEGRAM_TOKEN"))
	return cfg
}

func (c Config) Validate() error {
	if c.Token == "" {
		return errors.New("NUMINARY_TELEGRAM_TOKEN is required to run the bot")
	}
	return nil
}
