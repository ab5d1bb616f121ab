package adapter

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/text/encoding/unicode"

	"azure-functions-adapter/pkg/azure"
)

// SendResponse converts a framework response into the platform envelope.
// ctx is the invocation's cancellation scope; if it is already done the
// connection is marked for closing. The response body is always closed.
func SendResponse(ctx context.Context, res *http.Response) (*azure.HTTPResponse, error) {
	if res == nil {
		return nil, newError("send_response", errors.New("no response to send"))
	}
	if res.Header == nil {
		res.Header = make(http.Header)
	}
	if res.Body != nil {
		defer res.Body.Close()
	}

	if ctx.Err() != nil {
		res.Header.Set("Connection", "close")
	}

	isBase64Encoded := IsBinaryType(res.Header.Get("Content-Type"))

	var body *string
	if res.Body != nil && res.Body != http.NoBody {
		data, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, newError("send_response", fmt.Errorf("%w: %w", ErrBodyRead, err))
		}

		if len(data) > 0 {
			var encoded string
			if isBase64Encoded {
				encoded = base64.StdEncoding.EncodeToString(data)
			} else {
				encoded, err = decodeText(data)
				if err != nil {
					return nil, newError("send_response", fmt.Errorf("%w: %w", ErrBodyRead, err))
				}
			}
			body = &encoded
		}
	}

	return &azure.HTTPResponse{
		Status:  res.StatusCode,
		Headers: azure.OutboundHeaders(res.Header.Clone()),
		Cookies: nil,
		Body:    body,
	}, nil
}

// decodeText decodes a body as UTF-8. A leading byte order mark is dropped and
// every invalid byte becomes U+FFFD.
func decodeText(data []byte) (string, error) {
	decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
