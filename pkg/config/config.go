package config

import (
	"fmt"
	"os"
)

const (
	// APIKeyEnvVar is the environment variable that holds the credential for
	// the chat-completions endpoint
	APIKeyEnvVar = "LLM_API_KEY"
	// BaseURLEnvVar is the environment variable that points at the root of an
	// OpenAI-compatible API, e.g. https://api.openai.com/v1
	BaseURLEnvVar = "LLM_BASE_URL"
	// ModelEnvVar is the environment variable that overrides the chat model
	ModelEnvVar = "LLM_MODEL"
	// LogLevelEnvVar is the environment variable that controls logging level
	LogLevelEnvVar = "MCPCHAT_LOG_LEVEL"
	// LogToFileEnvVar is the environment variable that specifies log file path
	LogToFileEnvVar = "MCPCHAT_LOG_FILE"
)

// DefaultModel is used when ModelEnvVar is not set
const DefaultModel = "gpt-4o-mini"

// Config represents the complete configuration for the chat client
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	LogLevel string
	LogFile  string
}

// GetLogLevel returns the configured log level from environment variables.
// Accepts zerolog level names (error, warn, info, debug, trace) and defaults
// to info.
func GetLogLevel() string {
	if level := os.Getenv(LogLevelEnvVar); level != "" {
		return level
	}
	return "info"
}

// GetLogFile returns the log file path from environment variables
func GetLogFile() string {
	return os.Getenv(LogToFileEnvVar)
}

// Load reads the client configuration from the environment. The API key and
// base URL are required; everything else has a default.
func Load() (*Config, error) {
	apiKey := os.Getenv(APIKeyEnvVar)
	if apiKey == "" {
		return nil, fmt.Errorf("environment variable %s not set", APIKeyEnvVar)
	}

	baseURL := os.Getenv(BaseURLEnvVar)
	if baseURL == "" {
		return nil, fmt.Errorf("environment variable %s not set", BaseURLEnvVar)
	}

	model := os.Getenv(ModelEnvVar)
	if model == "" {
		model = DefaultModel
	}

	return &Config{
		APIKey:   apiKey,
		BaseURL:  baseURL,
		Model:    model,
		LogLevel: GetLogLevel(),
		LogFile:  GetLogFile(),
	}, nil
}
