// Package admin exposes the storefront's admin REST API as typed calls over an
// authenticated client.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/go-authgate/shop-admin-cli/authclient"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// Caller is the part of authclient.Client the services need.
type Caller interface {
	Call(ctx context.Context, d *authclient.Descriptor) (*authclient.Response, error)
}

// Service groups every admin endpoint. It is safe for concurrent use.
type Service struct {
	client Caller
	log    zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New returns a Service sending its requests through client.
func New(client Caller, opts ...Option) *Service {
	s := &Service{client: client, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// APIError is a response whose envelope reports ok=false.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "" && e.Code != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	case e.Message != "":
		return e.Message
	case e.Code != "":
		return e.Code
	default:
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// envelope is the wrapper every admin endpoint replies with.
type envelope struct {
	OK      bool            `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
}

// do sends one request and decodes the envelope's data into out (may be nil).
func (s *Service) do(ctx context.Context, d *authclient.Descriptor, out any) error {
	resp, err := s.client.Call(ctx, d)
	if err != nil {
		return explain(err)
	}

	if len(resp.Body) == 0 {
		return nil
	}
	// A few endpoints reply with a bare object instead of the envelope.
	if !gjson.GetBytes(resp.Body, "ok").Exists() {
		return resp.Decode(out)
	}
	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return fmt.Errorf("failed to parse %s %s response: %w", d.Method, d.Path, err)
	}
	if !env.OK {
		return &APIError{StatusCode: resp.StatusCode, Code: env.Code, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s %s data: %w", d.Method, d.Path, err)
	}
	return nil
}

// send builds a descriptor and calls do.
func (s *Service) send(ctx context.Context, method, path string, body, out any) error {
	d, err := authclient.NewDescriptor(method, path, body)
	if err != nil {
		return err
	}
	s.log.Debug().Str("method", method).Str("path", path).Msg("admin call")
	return s.do(ctx, d, out)
}

func (s *Service) get(ctx context.Context, path string, query url.Values, out any) error {
	d := authclient.Get(path, query)
	s.log.Debug().Str("method", d.Method).Str("path", d.Path).Msg("admin call")
	return s.do(ctx, d, out)
}

// explain turns a server error carrying an error envelope into an *APIError that
// still matches the original error.
func explain(err error) error {
	var serverErr *authclient.ServerError
	if !errors.As(err, &serverErr) || !gjson.ValidBytes(serverErr.Body) {
		return err
	}
	body := gjson.ParseBytes(serverErr.Body)
	code, msg := body.Get("code").String(), body.Get("message").String()
	if code == "" && msg == "" {
		return err
	}
	return &APIError{StatusCode: serverErr.StatusCode, Code: code, Message: msg, Err: err}
}

func itemPath(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}
