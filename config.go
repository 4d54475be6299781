package xchain

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvBaseURL   = "XCHAIN_URL"
	EnvAPIToken  = "XCHAIN_API_TOKEN"
	EnvAPISecret = "XCHAIN_API_SECRET"
)

var validate = validator.New()

// Config holds the connection settings for the XChain service.
type Config struct {
	// BaseURL is the service root, e.g. "https://xchain.tokenly.com".
	// The API version prefix is appended per request.
	BaseURL string `validate:"required,uri"`

	// APIToken identifies the consumer.
	APIToken string `validate:"required"`

	// APISecret signs outgoing requests and inbound webhook payloads.
	APISecret string `validate:"required"`
}

// Validate checks that the configuration is complete.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ConfigFromEnv loads configuration from the environment, reading a .env
// file first when one is present.
func ConfigFromEnv() (Config, error) {
	// missing .env is fine; the environment may be set directly
	_ = godotenv.Load()

	cfg := Config{
		BaseURL:   os.Getenv(EnvBaseURL),
		APIToken:  os.Getenv(EnvAPIToken),
		APISecret: os.Getenv(EnvAPISecret),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
