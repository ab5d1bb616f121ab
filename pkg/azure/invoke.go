package azure

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Default binding names used by an HTTP trigger's function.json.
const (
	DefaultRequestBinding  = "req"
	DefaultResponseBinding = "res"
)

// InvocationIDHeader is sent by the Functions host on every invoke request.
const InvocationIDHeader = "X-Azure-Functions-InvocationId"

var (
	// ErrMissingBinding is returned when the invoke payload has no data for the trigger binding
	ErrMissingBinding = errors.New("trigger binding not present in invoke payload")

	// ErrInvalidPayload is returned when the trigger data fails decoding or validation
	ErrInvalidPayload = errors.New("invalid trigger payload")
)

var validate = validator.New()

// InvokeRequest is the body the Functions host POSTs to a custom handler.
type InvokeRequest struct {
	Data     map[string]json.RawMessage `json:"Data" binding:"required"`
	Metadata map[string]json.RawMessage `json:"Metadata"`
}

// SysMetadata is the "sys" entry of the invoke metadata.
type SysMetadata struct {
	MethodName string    `json:"MethodName"`
	UtcNow     time.Time `json:"UtcNow"`
	RandGuid   string    `json:"RandGuid"`
}

// HTTPRequest decodes and validates the HTTP trigger data stored under binding.
func (r *InvokeRequest) HTTPRequest(binding string) (*HTTPRequest, error) {
	raw, ok := r.Data[binding]
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingBinding, binding)
	}

	var req HTTPRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return &req, nil
}

// Sys returns the host's system metadata. A missing entry yields the zero value.
func (r *InvokeRequest) Sys() (SysMetadata, error) {
	var sys SysMetadata
	raw, ok := r.Metadata["sys"]
	if !ok {
		return sys, nil
	}
	if err := json.Unmarshal(raw, &sys); err != nil {
		return sys, fmt.Errorf("sys metadata: %w", err)
	}
	return sys, nil
}

// InvokeResponse is what a custom handler returns to the Functions host.
type InvokeResponse struct {
	Outputs     map[string]any `json:"Outputs"`
	Logs        []string       `json:"Logs"`
	ReturnValue any            `json:"ReturnValue"`
}

// NewInvokeResponse places res under the output binding.
func NewInvokeResponse(binding string, res *HTTPResponse, logs []string) *InvokeResponse {
	if logs == nil {
		logs = []string{}
	}
	return &InvokeResponse{
		Outputs: map[string]any{binding: res},
		Logs:    logs,
	}
}
