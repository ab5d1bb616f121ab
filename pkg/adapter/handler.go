// Package adapter serves Azure Functions HTTP invocations with a net/http
// application, translating the platform request in and the response out.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"azure-functions-adapter/pkg/azure"
)

// GetLoadContextFunc returns the value route handlers see as their load
// context. It is an escape hatch for passing platform specific values through
// to the application.
type GetLoadContextFunc func(actx *azure.Context, req *azure.HTTPRequest) (any, error)

// RequestHandler serves one platform invocation.
type RequestHandler func(ctx context.Context, actx *azure.Context, req *azure.HTTPRequest) (*azure.HTTPResponse, error)

// Options configure CreateRequestHandler. Build and GetLoadContext are shared
// by every invocation and must not be mutated after creation.
type Options struct {
	// Build is the compiled application.
	Build http.Handler

	// Framework overrides the entry point created from Build and Mode.
	Framework Framework

	GetLoadContext GetLoadContextFunc

	// Mode is passed through to the framework unmodified.
	Mode string
}

// CreateRequestHandler returns a handler that serves platform invocations
// with the configured application.
func CreateRequestHandler(opts Options) (RequestHandler, error) {
	framework := opts.Framework
	if framework == nil {
		if opts.Build == nil {
			return nil, errors.New("adapter: Build or Framework is required")
		}
		framework = NewFramework(opts.Build, opts.Mode)
	}
	getLoadContext := opts.GetLoadContext

	return func(ctx context.Context, actx *azure.Context, req *azure.HTTPRequest) (*azure.HTTPResponse, error) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		request, err := CreateRequest(ctx, req)
		if err != nil {
			return nil, err
		}

		var loadContext any
		if getLoadContext != nil {
			loadContext, err = getLoadContext(actx, req)
			if err != nil {
				return nil, newError("load_context", fmt.Errorf("%w: %w", ErrContextLoader, err))
			}
		}

		response, err := framework.HandleRequest(request, loadContext)
		if err != nil {
			return nil, newError("handle_request", err)
		}
		if response == nil {
			return nil, newError("handle_request", errors.New("framework returned no response"))
		}

		return SendResponse(ctx, response)
	}, nil
}
