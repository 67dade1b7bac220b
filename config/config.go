package config

import (
	"fmt"

	"github.com/spf13/viper"

	"nazcraft_server/internal/logger"
)

// Config holds all configuration for the application.
// Mapstructure tags are used to map environment variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress string `mapstructure:"SERVER_ADDRESS"` // e.g., "127.0.0.1:8080"
	AppEnv        string `mapstructure:"APP_ENV"`        // "production" switches gin to release mode

	// Logging
	LogLevel  string `mapstructure:"LOG_LEVEL"`  // debug, info, warn, error
	LogFormat string `mapstructure:"LOG_FORMAT"` // json or console

	// Generation service
	GeminiAPIKey          string  `mapstructure:"GEMINI_API_KEY"`          // first credential source
	CredentialEnvFallback string  `mapstructure:"CREDENTIAL_ENV_FALLBACK"` // env var polled when GEMINI_API_KEY is empty
	GenerationBaseURL     string  `mapstructure:"GENERATION_BASE_URL"`     // OpenAI-compatible endpoint
	GenerationModel       string  `mapstructure:"GENERATION_MODEL"`        // e.g., "gemini-2.5-flash"
	GenerationTemperature float32 `mapstructure:"GENERATION_TEMPERATURE"`

	// Local session storage
	StorePath string `mapstructure:"STORE_PATH"`

	// Mock admin login
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
}

var defaults = map[string]interface{}{
	"SERVER_ADDRESS":          "127.0.0.1:8080",
	"APP_ENV":                 "development",
	"LOG_LEVEL":               "info",
	"LOG_FORMAT":              "console",
	"GEMINI_API_KEY":          "",
	"CREDENTIAL_ENV_FALLBACK": "API_KEY",
	"GENERATION_BASE_URL":     "https://generativelanguage.googleapis.com/v1beta/openai",
	"GENERATION_MODEL":        "gemini-2.5-flash",
	"GENERATION_TEMPERATURE":  0.7,
	"STORE_PATH":              "nazcraft_store.json",
	"ADMIN_EMAIL":             "admin@nazcorp.tech",
	"ADMIN_PASSWORD":          "admin123",
}

// LoadConfig reads config.yaml from path, then overlays environment variables.
// A missing config file is not an error.
func LoadConfig(path string, log logger.Logger) (config Config, err error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Info("config.yaml not found, relying on environment variables", map[string]interface{}{"path": path})
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Info("using configuration file", map[string]interface{}{"file": v.ConfigFileUsed()})
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if config.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY is not set; generation will look at the fallback variable", map[string]interface{}{
			"fallback": config.CredentialEnvFallback,
		})
	}
	if config.StorePath == "" {
		return Config{}, fmt.Errorf("STORE_PATH must not be empty")
	}

	return
}
