package adapter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"azure-functions-adapter/pkg/azure"
)

// CreateRequest builds the standard request for one invocation. ctx is the
// invocation's cancellation scope and becomes the request context.
func CreateRequest(ctx context.Context, req *azure.HTTPRequest) (*http.Request, error) {
	target, err := resolveURL(req)
	if err != nil {
		return nil, newError("create_request", err)
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 && method != http.MethodGet && method != http.MethodHead {
		body = bytes.NewReader(req.Body)
	}

	out, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, newError("create_request", fmt.Errorf("%w: %w", ErrInvalidURL, err))
	}
	out.Header = CreateHeaders(req.Headers)

	return out, nil
}

// resolveURL prefers the original URL header over the request's own URL.
// A present but unparseable override is an error; there is no fallback.
func resolveURL(req *azure.HTTPRequest) (*url.URL, error) {
	raw := req.Headers.Get(azure.OriginalURLHeader)
	if raw == "" {
		raw = req.URL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidURL, raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, raw)
	}

	return u, nil
}
