package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// TokenEnvVar is the environment variable holding the API token.
	TokenEnvVar = "PROFF_API_TOKEN"

	// PlaceholderToken is the value shipped in the example .env file.
	// It is treated the same as a missing token.
	PlaceholderToken = "YOUR_API_TOKEN_HERE"

	// DefaultEnvFile is the dotenv file read for the token.
	DefaultEnvFile = ".env"
)

// LoadToken returns the API token.
// The process environment wins over envFile, matching the usual dotenv
// rule that existing variables are never overridden. A missing envFile
// is not an error; the token is then simply empty.
func LoadToken(envFile string) (string, error) {
	if token := strings.TrimSpace(os.Getenv(TokenEnvVar)); token != "" {
		return token, nil
	}
	if envFile == "" {
		return "", nil
	}

	values, err := godotenv.Read(envFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", envFile, err)
	}
	return strings.TrimSpace(values[TokenEnvVar]), nil
}

// HasToken reports whether token is a usable credential.
func HasToken(token string) bool {
	token = strings.TrimSpace(token)
	return token != "" && token != PlaceholderToken
}
