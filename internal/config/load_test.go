package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv sets up environment variables for testing
func setupEnv(t *testing.T, envVars map[string]string) func() {
	// Save current environment values
	originalValues := make(map[string]string)
	for name := range envVars {
		originalValues[name] = os.Getenv(name)
	}

	// Set new environment variables
	for name, value := range envVars {
		err := os.Setenv(name, value)
		require.NoError(t, err, "Failed to set environment variable %s", name)
	}

	// Return cleanup function
	return func() {
		// Restore original environment
		for name, value := range originalValues {
			if value == "" {
				os.Unsetenv(name)
			} else {
				os.Setenv(name, value)
			}
		}
	}
}

// TestLoadDefaults verifies that the Load function sets the expected default
// values when no environment variables are set.
func TestLoadDefaults(t *testing.T) {
	cleanup := setupEnv(t, map[string]string{
		"MAE_SERVER_PORT":        "",
		"MAE_SERVER_LOG_LEVEL":   "",
		"MAE_EXTRACTOR_PROVIDER": "",
	})
	defer cleanup()

	// Load configuration
	cfg, err := Load()

	// Verify
	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg, "Load() should return a non-nil config")
	assert.Equal(t, 8080, cfg.Server.Port, "Default server port should be 8080")
	assert.Equal(t, "info", cfg.Server.LogLevel, "Default log level should be 'info'")
	assert.Equal(t, "development", cfg.Server.Mode, "Default mode should be 'development'")
	assert.Equal(t, "data", cfg.Store.DataDir, "Default data dir should be 'data'")
	assert.Equal(t, time.Second, cfg.Worker.Interval, "Default worker interval should be 1s")
	assert.Equal(t, 5, cfg.Worker.MaxJobs, "Default worker batch size should be 5")
	assert.Equal(t, 3, cfg.Worker.MaxAttempts, "Default attempt budget should be 3")
	assert.Equal(t, 5*time.Minute, cfg.Worker.LockTTL, "Default lock TTL should be 5m")
	assert.Equal(t, "rules", cfg.Extractor.Provider, "Default extractor provider should be 'rules'")
}

// TestLoadFromEnv verifies that the Load function correctly reads values from environment variables.
func TestLoadFromEnv(t *testing.T) {
	// Setup environment
	cleanup := setupEnv(t, map[string]string{
		"MAE_SERVER_PORT":              "9090",
		"MAE_SERVER_LOG_LEVEL":         "debug",
		"MAE_SERVER_MODE":              "production",
		"MAE_STORE_DATA_DIR":           "/tmp/mae-data",
		"MAE_WORKER_INTERVAL":          "250ms",
		"MAE_WORKER_MAX_JOBS":          "10",
		"MAE_WORKER_MAX_ATTEMPTS":      "5",
		"MAE_WORKER_LOCK_TTL":          "30s",
		"MAE_EXTRACTOR_PROVIDER":       "gemini",
		"MAE_EXTRACTOR_GEMINI_API_KEY": "test-api-key",
	})
	defer cleanup()

	// Load configuration
	cfg, err := Load()

	// Verify
	require.NoError(t, err, "Load() should not return an error with valid environment variables")
	require.NotNil(t, cfg, "Load() should return a non-nil config")
	assert.Equal(t, 9090, cfg.Server.Port, "Server port should be loaded from environment variables")
	assert.Equal(t, "debug", cfg.Server.LogLevel, "Log level should be loaded from environment variables")
	assert.Equal(t, "production", cfg.Server.Mode, "Mode should be loaded from environment variables")
	assert.False(t, cfg.Server.IsDevelopment(), "Production mode should not report development")
	assert.Equal(t, "/tmp/mae-data", cfg.Store.DataDir, "Data dir should be loaded from environment variables")
	assert.Equal(t, 250*time.Millisecond, cfg.Worker.Interval, "Worker interval should be parsed as a duration")
	assert.Equal(t, 10, cfg.Worker.MaxJobs, "Worker batch size should be loaded from environment variables")
	assert.Equal(t, 5, cfg.Worker.MaxAttempts, "Attempt budget should be loaded from environment variables")
	assert.Equal(t, 30*time.Second, cfg.Worker.LockTTL, "Lock TTL should be parsed as a duration")
	assert.Equal(t, "gemini", cfg.Extractor.Provider, "Extractor provider should be loaded from environment variables")
	assert.Equal(t, "test-api-key", cfg.Extractor.GeminiAPIKey, "Gemini API key should be loaded from environment variables")
}

// TestLoadValidationErrors verifies that the Load function correctly validates the configuration.
func TestLoadValidationErrors(t *testing.T) {
	// Test cases with invalid values
	testCases := []struct {
		name           string
		envVars        map[string]string
		expectError    bool
		errorSubstring string
	}{
		{
			name: "Invalid port number",
			envVars: map[string]string{
				"MAE_SERVER_PORT": "999999", // Port out of range
			},
			expectError:    true,
			errorSubstring: "validation failed",
		},
		{
			name: "Invalid log level",
			envVars: map[string]string{
				"MAE_SERVER_LOG_LEVEL": "invalid-level",
			},
			expectError:    true,
			errorSubstring: "validation failed",
		},
		{
			name: "Invalid mode",
			envVars: map[string]string{
				"MAE_SERVER_MODE": "staging",
			},
			expectError:    true,
			errorSubstring: "validation failed",
		},
		{
			name: "Unknown extractor provider",
			envVars: map[string]string{
				"MAE_EXTRACTOR_PROVIDER": "oracle",
			},
			expectError:    true,
			errorSubstring: "validation failed",
		},
		{
			name: "Gemini provider without API key",
			envVars: map[string]string{
				"MAE_EXTRACTOR_PROVIDER":       "gemini",
				"MAE_EXTRACTOR_GEMINI_API_KEY": "",
			},
			expectError:    true,
			errorSubstring: "validation failed",
		},
		{
			name: "Zero worker batch size",
			envVars: map[string]string{
				"MAE_WORKER_MAX_JOBS": "0",
			},
			expectError:    true,
			errorSubstring: "validation failed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Setup environment
			cleanup := setupEnv(t, tc.envVars)
			defer cleanup()

			// Load configuration
			cfg, err := Load()

			// Verify
			if tc.expectError {
				assert.Error(t, err, "Load() should return an error with invalid configuration")
				if err != nil {
					assert.Contains(t, err.Error(), tc.errorSubstring, "Error message should contain expected substring")
				}
				assert.Nil(t, cfg, "Config should be nil when an error occurs")
			} else {
				assert.NoError(t, err, "Load() should not return an error with valid configuration")
				assert.NotNil(t, cfg, "Load() should return a non-nil config")
			}
		})
	}
}
