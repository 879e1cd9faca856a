package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file from the working directory, if present.
// Variables already set in the environment take precedence.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load()
}
