package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from a .env file in the working directory
// or, failing that, its parent. Variables already present in the environment are
// not overridden. It returns the file that was loaded, or "" when none exists.
func LoadEnv() (string, error) {
	return loadEnvFrom(".env", filepath.Join("..", ".env"))
}

func loadEnvFrom(candidates ...string) (string, error) {
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return envFile, err
		}
		return envFile, nil
	}
	return "", nil
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
