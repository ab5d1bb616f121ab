package app

import (
	"errors"

	"azure-functions-adapter/pkg/adapter"
	"azure-functions-adapter/pkg/azure"
)

var errNoSecret = errors.New("bearer token presented but no JWT secret is configured")

// LoadContext is what route handlers receive as their load context
type LoadContext struct {
	InvocationID string
	FunctionName string

	// Claims is nil for anonymous callers
	Claims *Claims
}

// NewLoadContextFunc returns the loader passed to the adapter. auth may be nil
// when no secret is configured; a bearer token then fails the invocation.
func NewLoadContextFunc(auth *AuthService) adapter.GetLoadContextFunc {
	return func(actx *azure.Context, req *azure.HTTPRequest) (any, error) {
		lc := &LoadContext{
			InvocationID: actx.InvocationID,
			FunctionName: actx.FunctionName,
		}

		token := bearerToken(req.Headers.Get("Authorization"))
		if token == "" {
			return lc, nil
		}
		if auth == nil {
			return nil, errNoSecret
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			if actx.Log != nil {
				actx.Log.WithError(err).Debug("Ignoring invalid bearer token")
			}
			return lc, nil
		}

		lc.Claims = claims
		return lc, nil
	}
}
