package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface. It is built
// once at startup and passed by reference to every component that needs it;
// nothing reads the environment after Load returns.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Messaging MessagingConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StoreConfig contains the connection parameters for the hosted record store.
type StoreConfig struct {
	URL     string
	AnonKey string
}

// MessagingConfig holds options for building WhatsApp deep links.
type MessagingConfig struct {
	LinkBaseURL string
	CountryCode string
	TrunkPrefix string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Store: StoreConfig{
			URL:     strings.TrimSuffix(os.Getenv("SUPABASE_URL"), "/"),
			AnonKey: os.Getenv("SUPABASE_ANON_KEY"),
		},
		Messaging: MessagingConfig{
			LinkBaseURL: getenvWithDefault("WHATSAPP_LINK_BASE_URL", "https://wa.me"),
			CountryCode: getenvWithDefault("WHATSAPP_COUNTRY_CODE", "966"),
			TrunkPrefix: getenvWithDefault("WHATSAPP_TRUNK_PREFIX", "0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.Store.URL == "":
		return errors.New("SUPABASE_URL must be provided")
	case c.Store.AnonKey == "":
		return errors.New("SUPABASE_ANON_KEY must be provided")
	}

	if c.Messaging.LinkBaseURL == "" {
		return errors.New("WHATSAPP_LINK_BASE_URL must not be empty")
	}

	if c.Messaging.CountryCode == "" {
		return errors.New("WHATSAPP_COUNTRY_CODE must not be empty")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
