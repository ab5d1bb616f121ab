package config

import (
	"os"
	"sync"
)

// Platform identifies the host the process is running under
type Platform string

const (
	PlatformAzure  Platform = "azure"
	PlatformLambda Platform = "lambda"
	PlatformLocal  Platform = "local"
)

// PlatformConfig holds host-specific settings read from the environment
type PlatformConfig struct {
	Platform     Platform
	FunctionName string
	Region       string
	InstanceID   string
}

// Global platform configuration
var (
	platformConfig *PlatformConfig
	platformOnce   sync.Once
)

// GetPlatformConfig returns the platform configuration detected at first use
func GetPlatformConfig() *PlatformConfig {
	platformOnce.Do(func() {
		platformConfig = DetectPlatform()
	})
	return platformConfig
}

// DetectPlatform inspects the environment variables each host injects
func DetectPlatform() *PlatformConfig {
	switch {
	case isRunningInAzure():
		return &PlatformConfig{
			Platform:     PlatformAzure,
			FunctionName: os.Getenv("WEBSITE_SITE_NAME"),
			Region:       os.Getenv("REGION_NAME"),
			InstanceID:   os.Getenv("WEBSITE_INSTANCE_ID"),
		}
	case isRunningInLambda():
		return &PlatformConfig{
			Platform:     PlatformLambda,
			FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
			Region:       os.Getenv("AWS_REGION"),
			InstanceID:   os.Getenv("AWS_LAMBDA_LOG_STREAM_NAME"),
		}
	default:
		return &PlatformConfig{Platform: PlatformLocal}
	}
}

// isRunningInAzure detects the Functions host, including the local Core Tools
func isRunningInAzure() bool {
	return os.Getenv("FUNCTIONS_CUSTOMHANDLER_PORT") != "" || os.Getenv("WEBSITE_SITE_NAME") != ""
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// IsServerless reports whether a serverless host was detected
func (p *PlatformConfig) IsServerless() bool {
	return p.Platform != PlatformLocal
}

// DeploymentMode returns "serverless" under a host and "server" otherwise
func (p *PlatformConfig) DeploymentMode() string {
	if p.IsServerless() {
		return "serverless"
	}
	return "server"
}
