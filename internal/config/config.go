package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"azure-functions-adapter/pkg/azure"
)

// Config holds all configuration for the handler process
type Config struct {
	// Mode is passed through to the application unmodified
	Mode     string
	Port     string
	LogLevel string
	Bindings BindingConfig
	JWT      JWTConfig
	Limit    RateLimitConfig
}

// BindingConfig names the trigger and output bindings from function.json
type BindingConfig struct {
	Request  string
	Response string
}

// JWTConfig holds bearer token verification settings for the load context
type JWTConfig struct {
	Secret string
	Issuer string
}

// RateLimitConfig configures the invoke endpoint limiter. Zero RPS disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("FUNCTIONS_CUSTOMHANDLER_PORT", "8080")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REQUEST_BINDING", azure.DefaultRequestBinding)
	v.SetDefault("RESPONSE_BINDING", azure.DefaultResponseBinding)
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("RATE_LIMIT_BURST", 10)

	config := &Config{
		Mode:     v.GetString("ENVIRONMENT"),
		Port:     v.GetString("FUNCTIONS_CUSTOMHANDLER_PORT"),
		LogLevel: v.GetString("LOG_LEVEL"),
		Bindings: BindingConfig{
			Request:  v.GetString("REQUEST_BINDING"),
			Response: v.GetString("RESPONSE_BINDING"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Issuer: v.GetString("JWT_ISSUER"),
		},
		Limit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	return config, nil
}

// GetEnvAsBool gets an environment variable as boolean with a fallback value
func GetEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
