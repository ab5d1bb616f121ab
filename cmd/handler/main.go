package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"azure-functions-adapter/internal/app"
	"azure-functions-adapter/internal/config"
	"azure-functions-adapter/internal/host"
	"azure-functions-adapter/pkg/adapter"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	platform := config.GetPlatformConfig()
	if err := config.ConfigureLogger(cfg, platform); err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	var auth *app.AuthService
	if cfg.JWT.Secret != "" {
		auth = app.NewAuthService(cfg.JWT.Secret, cfg.JWT.Issuer)
	}

	handle, err := adapter.CreateRequestHandler(adapter.Options{
		Build:          app.New(cfg.Mode),
		GetLoadContext: app.NewLoadContextFunc(auth),
		Mode:           cfg.Mode,
	})
	if err != nil {
		logrus.Fatalf("Failed to create request handler: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"mode":            cfg.Mode,
		"platform":        platform.Platform,
		"deployment_mode": platform.DeploymentMode(),
		"site":            platform.FunctionName,
		"region":          platform.Region,
		"instance_id":     platform.InstanceID,
	}).Info("Starting custom handler")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := host.NewServer(cfg, handle).Run(ctx); err != nil {
		logrus.Fatalf("Custom handler stopped: %v", err)
	}

	logrus.Info("Custom handler exited")
}
