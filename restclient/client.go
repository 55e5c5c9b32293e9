// Package restclient is a thin HTTP collaborator for black-box API
// tests: it composes a request from path segments, performs it against
// a configured backend, checks the status code and hands the JSON body
// over for pattern matching.
//
// It is deliberately not a general HTTP client. Anything beyond
// method, path, headers, JSON body and an expected status belongs to
// net/http, which it wraps directly.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mcncl/restmatch/internal/config"
	"github.com/mcncl/restmatch/internal/errors"
)

// Context holds information about the backend under test. It is built
// explicitly, never from process-wide state, so independent tests can
// target independent servers.
type Context struct {
	host    string
	port    int
	headers map[string]string
	client  *http.Client
}

// New creates a context with the default backend, http://localhost:80.
func New() *Context {
	return &Context{
		host:    "http://localhost",
		port:    80,
		headers: map[string]string{},
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// FromConfigFile creates a context from a yaml config file.
func FromConfigFile(path string) (*Context, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, errors.NewInputError("failed to load client config", err)
	}
	return fromConfig(cfg), nil
}

// FromDefaultConfig creates a context from the nearest config file,
// falling back to defaults when none exists.
func FromDefaultConfig() (*Context, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, errors.NewInputError("failed to load client config", err)
	}
	return fromConfig(cfg), nil
}

func fromConfig(cfg *config.Config) *Context {
	c := New().WithHost(cfg.Client.Host).WithPort(cfg.Client.Port)
	if cfg.Client.TimeoutSeconds > 0 {
		c.client.Timeout = time.Duration(cfg.Client.TimeoutSeconds) * time.Second
	}
	for k, v := range cfg.Client.Headers {
		c.headers[k] = v
	}
	return c
}

// WithHost sets the scheme-and-host part of the backend URL.
func (c *Context) WithHost(host string) *Context {
	c.host = strings.TrimSuffix(host, "/")
	return c
}

// WithPort sets the backend port.
func (c *Context) WithPort(port int) *Context {
	c.port = port
	return c
}

// WithHeader sets a header sent with every request of this context.
func (c *Context) WithHeader(key, value string) *Context {
	c.headers[key] = value
	return c
}

// WithHTTPClient replaces the underlying client, e.g. with an
// httptest server's client.
func (c *Context) WithHTTPClient(client *http.Client) *Context {
	c.client = client
	return c
}

// BaseURL returns the URL prefix requests are issued against.
func (c *Context) BaseURL() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// Request describes one HTTP request to perform.
type Request struct {
	method string
	url    string
	header map[string]string
	body   interface{}
}

// Get creates a GET request for the path built from segments.
func Get(segments ...interface{}) *Request { return newRequest(http.MethodGet, segments) }

// Post creates a POST request for the path built from segments.
func Post(segments ...interface{}) *Request { return newRequest(http.MethodPost, segments) }

// Put creates a PUT request for the path built from segments.
func Put(segments ...interface{}) *Request { return newRequest(http.MethodPut, segments) }

// Delete creates a DELETE request for the path built from segments.
func Delete(segments ...interface{}) *Request { return newRequest(http.MethodDelete, segments) }

func newRequest(method string, segments []interface{}) *Request {
	return &Request{
		method: method,
		url:    Path(segments...),
		header: map[string]string{},
	}
}

// Path joins segments into an absolute URL path. Segments may be
// strings or any value with a sensible fmt representation (ints,
// uuid-like Stringers).
func Path(segments ...interface{}) string {
	var buf strings.Builder
	for _, segment := range segments {
		s := fmt.Sprint(segment)
		for _, part := range strings.Split(s, "/") {
			if part == "" {
				continue
			}
			buf.WriteByte('/')
			buf.WriteString(part)
		}
	}
	if buf.Len() == 0 {
		return "/"
	}
	return buf.String()
}

// WithHeader adds a header key and value to the request. Setting the
// same key twice is a bug in the test, so it panics rather than
// silently replacing.
func (r *Request) WithHeader(key, value string) *Request {
	if _, present := r.header[key]; present {
		panic(fmt.Sprintf("restclient: attempt to replace header %q", key))
	}
	r.header[key] = value
	return r
}

// WithBody sets a JSON body. The value is serialized when the request
// runs.
func (r *Request) WithBody(body interface{}) *Request {
	r.body = body
	return r
}

// URL returns the request's path.
func (r *Request) URL() string { return r.url }

// Run performs the request against the context's backend and reads the
// full response.
func (c *Context) Run(ctx context.Context, r *Request) (*Response, error) {
	var bodyReader io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return nil, errors.NewInputError(
				fmt.Sprintf("%s %s: failed to serialize request body", r.method, r.url), err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.BaseURL()+r.url, bodyReader)
	if err != nil {
		return nil, errors.NewInputError(
			fmt.Sprintf("%s %s: failed to build request", r.method, r.url), err)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range r.header {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.NewInputError(
			fmt.Sprintf("%s %s: request failed", r.method, r.url), err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			// Body is fully read below; a close failure is not actionable.
			_ = err
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewInputError(
			fmt.Sprintf("%s %s: failed to read response body", r.method, r.url), err)
	}

	return &Response{
		method:     r.method,
		url:        r.url,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		body:       raw,
	}, nil
}

// Response is the data returned by the server once a request has run.
type Response struct {
	method string
	url    string

	StatusCode int
	Header     http.Header
	body       []byte
}

// Body returns the raw response body.
func (r *Response) Body() []byte { return r.body }

// ExpectStatus checks the response status against an expected code and
// returns the body for matching. The error identifies the request so a
// failed assertion names its cause.
func (r *Response) ExpectStatus(status int) ([]byte, error) {
	if r.StatusCode != status {
		return nil, errors.NewInputError(
			fmt.Sprintf("%s %s: expected status %d, got %d (body: %s)",
				r.method, r.url, status, r.StatusCode, strings.TrimSpace(string(r.body))), nil)
	}
	return r.body, nil
}

// JSON deserializes the response body into dest.
func (r *Response) JSON(dest interface{}) error {
	if err := json.Unmarshal(r.body, dest); err != nil {
		return errors.NewConversionError(
			fmt.Sprintf("%s %s: failed to deserialize body", r.method, r.url), err)
	}
	return nil
}
