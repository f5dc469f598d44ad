// Package config loads runtime settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the server and console binaries read from the
// environment.
type Config struct {
	// DatabaseURL selects the account database: a sqlite file path, or a
	// postgres DSN.
	DatabaseURL string `env:"BLACKJACK_DB" envDefault:"./data/blackjack.db"`

	// Addr is the HTTP listen address of the session server.
	Addr string `env:"BLACKJACK_ADDR" envDefault:":8080"`

	// FrontendURL is the allowed CORS origin.
	FrontendURL string `env:"BLACKJACK_FRONTEND_URL" envDefault:"http://localhost:5173"`

	// SendGridKey enables real confirmation-code mail when set; codes are
	// logged otherwise.
	SendGridKey string `env:"SENDGRID_API_KEY"`

	// MailFrom is the sender address on confirmation mail.
	MailFrom string `env:"BLACKJACK_MAIL_FROM" envDefault:"bot@blackjack"`

	// DealerThreshold is the dealer's stopping score.
	DealerThreshold int `env:"BLACKJACK_DEALER_MIN" envDefault:"17"`

	// Payout is the win payout multiplier: 1 pays even money net of the
	// bet, 2 returns the bet on top of equal winnings.
	Payout int `env:"BLACKJACK_PAYOUT" envDefault:"1"`

	// Debug lowers the log level.
	Debug bool `env:"BLACKJACK_DEBUG"`
}

// Load reads .env (when present) and then the environment.
func Load() (Config, error) {
	// A missing .env file is not an error; explicit environment wins.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
