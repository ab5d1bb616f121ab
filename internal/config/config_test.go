package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FUNCTIONS_CUSTOMHANDLER_PORT", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("RATE_LIMIT_RPS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "production", cfg.Mode)
	assert.Equal(t, "req", cfg.Bindings.Request)
	assert.Equal(t, "res", cfg.Bindings.Response)
	assert.Zero(t, cfg.Limit.RequestsPerSecond)
	assert.Equal(t, 10, cfg.Limit.Burst)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FUNCTIONS_CUSTOMHANDLER_PORT", "40123")
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REQUEST_BINDING", "request")
	t.Setenv("RESPONSE_BINDING", "$return")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "40123", cfg.Port)
	assert.Equal(t, "development", cfg.Mode)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "request", cfg.Bindings.Request)
	assert.Equal(t, "$return", cfg.Bindings.Response)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 2.5, cfg.Limit.RequestsPerSecond)
	assert.Equal(t, 4, cfg.Limit.Burst)
}

func TestDetectPlatform(t *testing.T) {
	t.Run("azure", func(t *testing.T) {
		t.Setenv("FUNCTIONS_CUSTOMHANDLER_PORT", "40123")
		t.Setenv("WEBSITE_SITE_NAME", "contoso-web")
		t.Setenv("WEBSITE_INSTANCE_ID", "a1b2c3")
		t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")

		p := DetectPlatform()
		assert.Equal(t, PlatformAzure, p.Platform)
		assert.Equal(t, "contoso-web", p.FunctionName)
		assert.Equal(t, "a1b2c3", p.InstanceID)
	})

	t.Run("lambda", func(t *testing.T) {
		t.Setenv("FUNCTIONS_CUSTOMHANDLER_PORT", "")
		t.Setenv("WEBSITE_SITE_NAME", "")
		t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "web-fn")
		t.Setenv("AWS_REGION", "eu-west-1")
		t.Setenv("AWS_LAMBDA_LOG_STREAM_NAME", "2024/03/01/[$LATEST]abc")

		p := DetectPlatform()
		assert.Equal(t, PlatformLambda, p.Platform)
		assert.Equal(t, "web-fn", p.FunctionName)
		assert.Equal(t, "eu-west-1", p.Region)
		assert.Equal(t, "2024/03/01/[$LATEST]abc", p.InstanceID)
	})

	t.Run("local", func(t *testing.T) {
		t.Setenv("FUNCTIONS_CUSTOMHANDLER_PORT", "")
		t.Setenv("WEBSITE_SITE_NAME", "")
		t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")

		assert.Equal(t, PlatformLocal, DetectPlatform().Platform)
	})
}

func TestDeploymentMode(t *testing.T) {
	tests := []struct {
		platform   Platform
		serverless bool
		mode       string
	}{
		{PlatformAzure, true, "serverless"},
		{PlatformLambda, true, "serverless"},
		{PlatformLocal, false, "server"},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			p := &PlatformConfig{Platform: tt.platform}
			assert.Equal(t, tt.serverless, p.IsServerless())
			assert.Equal(t, tt.mode, p.DeploymentMode())
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	err := ConfigureLogger(&Config{LogLevel: "warn"}, &PlatformConfig{Platform: PlatformAzure})
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	err = ConfigureLogger(&Config{LogLevel: "loud"}, &PlatformConfig{Platform: PlatformLocal})
	assert.Error(t, err)
}
