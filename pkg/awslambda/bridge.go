// Package awslambda runs the adapter behind API Gateway on AWS Lambda by
// mapping proxy events onto the Azure platform shapes.
package awslambda

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sirupsen/logrus"

	"azure-functions-adapter/pkg/adapter"
	"azure-functions-adapter/pkg/azure"
)

// HandlerFunc is the aws-lambda-go handler signature for API Gateway proxy events
type HandlerFunc func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Wrap adapts a RequestHandler to API Gateway proxy events
func Wrap(handle adapter.RequestHandler) HandlerFunc {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req, err := ToAzureRequest(event)
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}

		actx := &azure.Context{
			InvocationID: event.RequestContext.RequestID,
			FunctionName: lambdacontext.FunctionName,
		}
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			actx.InvocationID = lc.AwsRequestID
		}
		actx.Log = logrus.WithFields(logrus.Fields{
			"invocation_id": actx.InvocationID,
			"function":      actx.FunctionName,
		})

		res, err := handle(ctx, actx, req)
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}

		return FromEnvelope(res), nil
	}
}

// ToAzureRequest converts a proxy event into the platform request shape
func ToAzureRequest(event events.APIGatewayProxyRequest) (*azure.HTTPRequest, error) {
	headers := make(azure.InboundHeaders, len(event.Headers))
	for name, value := range event.Headers {
		headers[name] = value
	}
	for name, values := range event.MultiValueHeaders {
		headers[name] = strings.Join(values, ", ")
	}

	query := url.Values{}
	for name, value := range event.QueryStringParameters {
		query.Set(name, value)
	}
	for name, values := range event.MultiValueQueryStringParameters {
		query[name] = values
	}

	scheme := headers.Get("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "https"
	}
	host := headers.Get("Host")
	if host == "" {
		host = event.RequestContext.DomainName
	}

	target := url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     event.Path,
		RawQuery: query.Encode(),
	}

	var body azure.Body
	if event.Body != "" {
		if event.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(event.Body)
			if err != nil {
				return nil, fmt.Errorf("decode base64 body: %w", err)
			}
			body = decoded
		} else {
			body = azure.Body(event.Body)
		}
	}

	return &azure.HTTPRequest{
		Method:  event.HTTPMethod,
		URL:     target.String(),
		Headers: headers,
		Query:   event.QueryStringParameters,
		Params:  event.PathParameters,
		Body:    body,
	}, nil
}

// FromEnvelope converts the platform envelope into a proxy response
func FromEnvelope(res *azure.HTTPResponse) events.APIGatewayProxyResponse {
	out := events.APIGatewayProxyResponse{
		StatusCode:        res.Status,
		MultiValueHeaders: map[string][]string(res.Headers),
	}
	if res.Body != nil {
		out.Body = *res.Body
		out.IsBase64Encoded = adapter.IsBinaryType(http.Header(res.Headers).Get("Content-Type"))
	}
	return out
}
