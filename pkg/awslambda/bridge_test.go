package awslambda

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"azure-functions-adapter/pkg/adapter"
	"azure-functions-adapter/pkg/azure"
)

func TestToAzureRequest(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/api/upload",
		Headers: map[string]string{
			"Host":              "api.contoso.example",
			"X-Forwarded-Proto": "https",
		},
		MultiValueHeaders: map[string][]string{
			"Accept": {"text/html", "application/json"},
		},
		QueryStringParameters: map[string]string{"page": "2"},
		PathParameters:        map[string]string{"proxy": "upload"},
		Body:                  base64.StdEncoding.EncodeToString([]byte{0xde, 0xad}),
		IsBase64Encoded:       true,
	}

	req, err := ToAzureRequest(event)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "https://api.contoso.example/api/upload?page=2", req.URL)
	assert.Equal(t, "text/html, application/json", req.Headers["Accept"])
	assert.Equal(t, azure.Body{0xde, 0xad}, req.Body)
	assert.Equal(t, map[string]string{"proxy": "upload"}, req.Params)
}

func TestToAzureRequestFallsBackToDomainName(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodGet,
		Path:       "/",
		RequestContext: events.APIGatewayProxyRequestContext{
			DomainName: "abc123.execute-api.eu-west-1.amazonaws.com",
		},
	}

	req, err := ToAzureRequest(event)
	require.NoError(t, err)
	assert.Equal(t, "https://abc123.execute-api.eu-west-1.amazonaws.com/", req.URL)
	assert.Nil(t, req.Body)
}

func TestToAzureRequestBadBase64(t *testing.T) {
	_, err := ToAzureRequest(events.APIGatewayProxyRequest{Body: "%%%", IsBase64Encoded: true})
	assert.Error(t, err)
}

func TestFromEnvelope(t *testing.T) {
	body := "iVBORw0K"
	res := FromEnvelope(&azure.HTTPResponse{
		Status:  http.StatusOK,
		Headers: azure.OutboundHeaders{"Content-Type": {"image/png"}},
		Body:    &body,
	})

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, body, res.Body)
	assert.True(t, res.IsBase64Encoded)

	res = FromEnvelope(&azure.HTTPResponse{Status: http.StatusNoContent, Headers: azure.OutboundHeaders{}})
	assert.Empty(t, res.Body)
	assert.False(t, res.IsBase64Encoded)
}

func TestWrap(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "hello from "+r.Host)
	})

	handle, err := adapter.CreateRequestHandler(adapter.Options{Build: mux})
	require.NoError(t, err)

	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "req-1"})
	res, err := Wrap(handle)(ctx, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodGet,
		Path:       "/api/hello",
		Headers:    map[string]string{"Host": "api.contoso.example"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "hello from api.contoso.example", res.Body)
	assert.False(t, res.IsBase64Encoded)
}

func TestWrapPropagatesFailure(t *testing.T) {
	handle, err := adapter.CreateRequestHandler(adapter.Options{Build: http.NewServeMux()})
	require.NoError(t, err)

	_, err = Wrap(handle)(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodGet,
		Path:       "/",
		Headers:    map[string]string{"X-MS-Original-URL": "not absolute"},
	})
	assert.ErrorIs(t, err, adapter.ErrInvalidURL)
}
