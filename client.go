package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/platformlab/go-api-client/token"
)

// Client issues authenticated JSON requests against a REST backend. Every
// request re-reads the bearer token from the TokenProvider, waits out an
// in-flight token refresh, and normalizes every failure into an
// *ErrorResponse routed through the error classifier.
//
// A Client is safe for concurrent use. Concurrent calls each run their own
// liveness poll; there is no coordination between callers because the poll
// only reads the token.
type Client struct {
	origin       string
	source       TokenSource
	httpClient   *http.Client
	tokens       TokenProvider
	errorSink    ErrorSink
	currentPath  PathFunc
	logger       Logger
	metrics      Metrics
	tracer       Tracer
	decoder      *token.Decoder
	poll         PollPolicy
	now          func() time.Time
	ignoreErrors bool
}

// Response is a successful HTTP exchange. Body holds the raw bytes so
// callers can recover non-JSON success payloads.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// RequestOption adjusts a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	ignoreErrors bool
	header       http.Header
}

// IgnoreErrors suppresses the classifier's side effects for this request.
// The request still fails with the *ErrorResponse, so the caller can handle
// it inline without triggering a redirect or a UI report.
func IgnoreErrors() RequestOption {
	return func(o *requestOptions) {
		o.ignoreErrors = true
	}
}

// Header adds a header to this request on top of the defaults.
func Header(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.header == nil {
			o.header = http.Header{}
		}
		o.header.Add(key, value)
	}
}

// New constructs a Client with the supplied options. WithAPIOrigin and
// WithTokenProvider are required.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		poll: defaultPollPolicy,
		now:  time.Now,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}
	c.applyDefaults()

	return c, nil
}

func (c *Client) validate() error {
	if c.origin == "" {
		return ErrAPIOriginEmpty
	}
	if c.tokens == nil {
		return ErrTokenProviderNil
	}
	return nil
}

func (c *Client) applyDefaults() {
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.logger == nil {
		c.logger = &DefaultLogger{}
	}
	if c.metrics == nil {
		c.metrics = &NoopMetrics{}
	}
	if c.tracer == nil {
		c.tracer = &NoopTracer{}
	}
	if c.errorSink == nil {
		c.errorSink = NoopErrorSink{}
	}
	if c.currentPath == nil {
		c.currentPath = func() string { return "/" }
	}
	c.decoder = token.NewDecoder(
		token.WithLogger(c.logger),
		token.WithClock(c.now),
	)
}

// bearerToken resolves the credential selected by the configured source.
func (c *Client) bearerToken() string {
	if c.source == TokenSourceID {
		return c.tokens.IDToken()
	}
	return c.tokens.AccessToken()
}

// Do performs one authenticated request against <origin>/api<path>.
//
// The bearer token is checked for liveness first; a token that stays expired
// through the poll budget short-circuits with a synthetic
// {401, "token expired"} and the HTTP call is never issued. Non-2xx
// responses are normalized into an *ErrorResponse from the body or, when the
// body does not parse, from the status line. Every failure is routed
// through the error classifier before it is returned.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	ro := requestOptions{ignoreErrors: c.ignoreErrors}
	for _, opt := range opts {
		opt(&ro)
	}

	span := c.tracer.StartSpan("apiclient.request")
	defer span.Finish()
	span.SetTag("http.method", method)
	span.SetTag("http.path", path)

	tok := c.bearerToken()
	if c.waitUntilFresh(ctx, tok) {
		c.logger.Warnf("token still expired after poll budget, skipping %s %s", method, path)
		c.metrics.IncCounter("apiclient_requests_total", map[string]string{"method": method, "status": "expired"})
		span.SetTag("error", msgTokenExpired)
		return nil, c.classified(&ErrorResponse{Code: http.StatusUnauthorized, Message: msgTokenExpired}, ro.ignoreErrors)
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, c.classified(&ErrorResponse{Code: 0, Message: fmt.Sprintf("encode request body: %v", err)}, ro.ignoreErrors)
		}
		reqBody = bytes.NewReader(payload)
	}

	url := strings.TrimSuffix(c.origin, "/") + "/api" + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, c.classified(&ErrorResponse{Code: 0, Message: err.Error()}, ro.ignoreErrors)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	for key, values := range ro.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.IncCounter("apiclient_requests_total", map[string]string{"method": method, "status": "transport_error"})
		span.SetTag("error", err.Error())
		// Transport failures carry no HTTP status. Code 0 keeps them out
		// of the classifier's status rules so they propagate silently.
		return nil, c.classified(&ErrorResponse{Code: 0, Message: err.Error()}, ro.ignoreErrors)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classified(&ErrorResponse{Code: 0, Message: fmt.Sprintf("read response body: %v", err)}, ro.ignoreErrors)
	}

	c.metrics.IncCounter("apiclient_requests_total", map[string]string{"method": method, "status": strconv.Itoa(resp.StatusCode)})
	c.metrics.ObserveHistogram("apiclient_request_seconds", c.now().Sub(start).Seconds(), map[string]string{"method": method})
	span.SetTag("http.status_code", resp.StatusCode)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, c.classified(newErrorResponse(resp.StatusCode, data), ro.ignoreErrors)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// Request issues an authenticated request and unmarshals the success body
// into T.
//
// When the backend answers with a success status whose body is empty or not
// valid JSON, Request returns the zero T together with the raw *Response and
// no error, so callers can still inspect what came back.
func Request[T any](ctx context.Context, c *Client, method, path string, body any, opts ...RequestOption) (T, *Response, error) {
	var out T

	resp, err := c.Do(ctx, method, path, body, opts...)
	if err != nil {
		return out, nil, err
	}

	if len(resp.Body) == 0 {
		return out, resp, nil
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		c.logger.Debugf("success body is not valid JSON, returning raw response: %v", err)
		var zero T
		return zero, resp, nil
	}
	return out, resp, nil
}
