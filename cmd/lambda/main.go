package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"azure-functions-adapter/internal/app"
	"azure-functions-adapter/internal/config"
	"azure-functions-adapter/pkg/adapter"
	"azure-functions-adapter/pkg/awslambda"
)

var handle adapter.RequestHandler

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := config.ConfigureLogger(cfg, config.GetPlatformConfig()); err != nil {
		panic("Failed to configure logging: " + err.Error())
	}

	var auth *app.AuthService
	if cfg.JWT.Secret != "" {
		auth = app.NewAuthService(cfg.JWT.Secret, cfg.JWT.Issuer)
	}

	handle, err = adapter.CreateRequestHandler(adapter.Options{
		Build:          app.New(cfg.Mode),
		GetLoadContext: app.NewLoadContextFunc(auth),
		Mode:           cfg.Mode,
	})
	if err != nil {
		panic("Failed to create request handler: " + err.Error())
	}
}

func main() {
	lambda.Start(awslambda.Wrap(handle))
}
