package authclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// Descriptor captures one outbound request so it can be replayed unchanged after a
// token refresh. Body is marshaled once; RequestID is fixed for the descriptor's
// lifetime and sent on every attempt.
type Descriptor struct {
	Method    string
	Path      string
	Body      []byte
	RequestID string
}

// NewDescriptor builds a descriptor for method and path. A non-nil body is marshaled to
// JSON. Path is relative to the client's base URL and may carry a query string.
func NewDescriptor(method, path string, body any) (*Descriptor, error) {
	d := &Descriptor{
		Method:    method,
		Path:      path,
		RequestID: uuid.NewString(),
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		d.Body = data
	}
	return d, nil
}

// Get is shorthand for a GET descriptor with an optional query.
func Get(path string, query url.Values) *Descriptor {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	d, _ := NewDescriptor(http.MethodGet, path, nil)
	return d
}

// Response is a successful (2xx) reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 || v == nil {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
