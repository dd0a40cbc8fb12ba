package config

import (
	"os"
	"reflect"
	"testing"
)

func clearEnv() {
	for _, envVar := range []string{APIKeyEnvVar, BaseURLEnvVar, ModelEnvVar, LogLevelEnvVar, LogToFileEnvVar} {
		os.Unsetenv(envVar)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantConfig *Config
		wantErr    bool
	}{
		{
			name: "All variables set",
			env: map[string]string{
				APIKeyEnvVar:    "sk-test-key",
				BaseURLEnvVar:   "https://llm.example.com/v1",
				ModelEnvVar:     "gpt-4o",
				LogLevelEnvVar:  "debug",
				LogToFileEnvVar: "/tmp/mcp-chat.log",
			},
			wantConfig: &Config{
				APIKey:   "sk-test-key",
				BaseURL:  "https://llm.example.com/v1",
				Model:    "gpt-4o",
				LogLevel: "debug",
				LogFile:  "/tmp/mcp-chat.log",
			},
		},
		{
			name: "Defaults applied",
			env: map[string]string{
				APIKeyEnvVar:  "sk-test-key",
				BaseURLEnvVar: "https://llm.example.com/v1",
			},
			wantConfig: &Config{
				APIKey:   "sk-test-key",
				BaseURL:  "https://llm.example.com/v1",
				Model:    DefaultModel,
				LogLevel: "info",
			},
		},
		{
			name:    "Missing API key",
			env:     map[string]string{BaseURLEnvVar: "https://llm.example.com/v1"},
			wantErr: true,
		},
		{
			name:    "Missing base URL",
			env:     map[string]string{APIKeyEnvVar: "sk-test-key"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv()
			for envVar, value := range tt.env {
				t.Setenv(envVar, value)
			}

			gotConfig, err := Load()
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(gotConfig, tt.wantConfig) {
				t.Errorf("Load() = %+v, want %+v", gotConfig, tt.wantConfig)
			}
		})
	}
}

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "Default", value: "", want: "info"},
		{name: "Explicit level", value: "trace", want: "trace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv(LogLevelEnvVar)
			if tt.value != "" {
				t.Setenv(LogLevelEnvVar, tt.value)
			}
			if got := GetLogLevel(); got != tt.want {
				t.Errorf("GetLogLevel() = %q, want %q", got, tt.want)
			}
		})
	}
}
