package azure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// OriginalURLHeader carries the externally visible URL when the Functions
// front end has rewritten the request before invoking the handler.
const OriginalURLHeader = "X-MS-Original-URL"

// InboundHeaders is the platform-native header shape: one string per name.
type InboundHeaders map[string]string

// UnmarshalJSON accepts either a string or an array of strings per header.
// The custom handler wire format sends arrays; they are folded into a single
// comma separated value, except Cookie which uses "; ".
func (h *InboundHeaders) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("headers: %w", err)
	}

	out := make(InboundHeaders, len(raw))
	for name, value := range raw {
		trimmed := bytes.TrimSpace(value)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			out[name] = ""
			continue
		}

		if trimmed[0] == '[' {
			var values []string
			if err := json.Unmarshal(trimmed, &values); err != nil {
				return fmt.Errorf("header %q: %w", name, err)
			}
			sep := ", "
			if strings.EqualFold(name, "Cookie") {
				sep = "; "
			}
			out[name] = strings.Join(values, sep)
			continue
		}

		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return fmt.Errorf("header %q: %w", name, err)
		}
		out[name] = single
	}

	*h = out
	return nil
}

// Get looks a header up ignoring case. An exact match wins; otherwise the
// lexically smallest case-insensitive match is used. Absent headers return "".
func (h InboundHeaders) Get(name string) string {
	if v, ok := h[name]; ok {
		return v
	}
	keys := make([]string, 0, len(h))
	for key := range h {
		if strings.EqualFold(key, name) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return h[keys[0]]
}

// OutboundHeaders is the multi-value header shape returned to the platform.
type OutboundHeaders map[string][]string

// Body is the opaque request payload. A JSON string decodes to its bytes,
// any other JSON value is kept verbatim.
type Body []byte

// UnmarshalJSON implements json.Unmarshaler.
func (b *Body) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*b = nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("body: %w", err)
		}
		*b = Body(s)
	default:
		*b = append(Body(nil), trimmed...)
	}
	return nil
}

// MarshalJSON encodes the body as a JSON string.
func (b Body) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("null"), nil
	}
	return json.Marshal(string(b))
}

// HTTPRequest is the HTTP trigger payload handed to a function.
type HTTPRequest struct {
	Method     string            `json:"Method"`
	URL        string            `json:"Url" validate:"required"`
	Headers    InboundHeaders    `json:"Headers"`
	Query      map[string]string `json:"Query,omitempty"`
	Params     map[string]string `json:"Params,omitempty"`
	Body       Body              `json:"Body,omitempty"`
	Identities []json.RawMessage `json:"Identities,omitempty"`
}

// Cookie mirrors the platform's structured cookie record.
type Cookie struct {
	Name     string     `json:"name"`
	Value    string     `json:"value"`
	Domain   string     `json:"domain,omitempty"`
	Path     string     `json:"path,omitempty"`
	Expires  *time.Time `json:"expires,omitempty"`
	Secure   bool       `json:"secure,omitempty"`
	HTTPOnly bool       `json:"httpOnly,omitempty"`
	SameSite string     `json:"sameSite,omitempty"`
	MaxAge   int        `json:"maxAge,omitempty"`
}

// HTTPResponse is the envelope the platform expects back from an HTTP
// triggered function. Body is already text or base64.
type HTTPResponse struct {
	Status  int             `json:"statusCode"`
	Headers OutboundHeaders `json:"headers"`
	Cookies []Cookie        `json:"cookies,omitempty"`
	Body    *string         `json:"body,omitempty"`
}

// Context is the per-invocation metadata supplied by the host.
type Context struct {
	InvocationID string
	FunctionName string
	Sys          SysMetadata
	Metadata     map[string]json.RawMessage
	Log          *logrus.Entry
}
