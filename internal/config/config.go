package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a local .env file when one exists. A
// missing file is not an error: in production the environment comes
// from the host.
func LoadEnv() error {
	err := godotenv.Load(".env")
	if err != nil {
		log.Printf("no .env file loaded: %v", err)
		return err
	}
	return nil
}

// GetEnv returns a required environment variable and aborts startup
// when it is unset. Used for the secrets the bot cannot run without.
func GetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Environment variable %s is required but not set", key)
	}
	return value
}

// GetEnvOr returns the value of key, or fallback when unset.
func GetEnvOr(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
