package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override secrets and endpoints from the YAML
// file.
const (
	EnvDatabaseDSN     = "DINING_DATABASE_DSN"
	EnvFeedURL         = "DINING_FEED_URL"
	EnvVAPIDPublicKey  = "DINING_VAPID_PUBLIC_KEY"
	EnvVAPIDPrivateKey = "DINING_VAPID_PRIVATE_KEY"
)

// LoadDotEnv reads variables from the given .env files (".env" when none
// are named) into the process environment. Missing files are ignored and
// variables already set win.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (cfg *Config) applyEnv() {
	override(&cfg.Database.DSN, EnvDatabaseDSN)
	override(&cfg.Feed.URL, EnvFeedURL)
	override(&cfg.Push.PublicKey, EnvVAPIDPublicKey)
	override(&cfg.Push.PrivateKey, EnvVAPIDPrivateKey)
}

func override(field *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*field = v
	}
}
