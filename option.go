package apiclient

import (
	"errors"
	"net/http"
	"time"
)

// Option configures the Client.
// Returns error for validation failures.
type Option func(*Client) error

// WithAPIOrigin sets the base URL requests are issued against (REQUIRED).
// Paths are resolved as <origin>/api<path>.
func WithAPIOrigin(origin string) Option {
	return func(c *Client) error {
		if origin == "" {
			return ErrAPIOriginEmpty
		}
		c.origin = origin
		return nil
	}
}

// WithTokenProvider sets the source of bearer credentials and the re-login
// entry point (REQUIRED).
func WithTokenProvider(p TokenProvider) Option {
	return func(c *Client) error {
		if p == nil {
			return ErrTokenProviderNil
		}
		c.tokens = p
		return nil
	}
}

// WithTokenSource selects which credential is sent as the bearer value.
// The value is matched case-insensitively against "accessToken" and
// "idToken" and resolved once, here.
//
// Default: "accessToken"
func WithTokenSource(source string) Option {
	return func(c *Client) error {
		s, err := ParseTokenSource(source)
		if err != nil {
			return err
		}
		c.source = s
		return nil
	}
}

// WithHTTPClient sets the underlying *http.Client.
//
// Default: http.DefaultClient
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return ErrHTTPClientNil
		}
		c.httpClient = hc
		return nil
	}
}

// WithErrorSink sets where surfaced errors are reported, typically a UI
// error boundary.
//
// Default: NoopErrorSink
func WithErrorSink(s ErrorSink) Option {
	return func(c *Client) error {
		if s == nil {
			return ErrErrorSinkNil
		}
		c.errorSink = s
		return nil
	}
}

// WithCurrentPath sets the accessor for the caller-visible current path,
// used as the return path when the classifier triggers a re-login.
func WithCurrentPath(f PathFunc) Option {
	return func(c *Client) error {
		if f == nil {
			return ErrPathFuncNil
		}
		c.currentPath = f
		return nil
	}
}

// WithPollPolicy overrides the token liveness poll budget.
//
// Default: 20 attempts, 500ms apart
func WithPollPolicy(p PollPolicy) Option {
	return func(c *Client) error {
		if p.Attempts == 0 || p.Interval <= 0 {
			return ErrPollPolicyInvalid
		}
		c.poll = p
		return nil
	}
}

// WithIgnoreErrors sets the client-wide default for suppressing classifier
// side effects. Individual requests can still opt in via IgnoreErrors.
//
// Default: false
func WithIgnoreErrors(value bool) Option {
	return func(c *Client) error {
		c.ignoreErrors = value
		return nil
	}
}

// WithLogger sets an optional logger used throughout the request pipeline.
func WithLogger(l Logger) Option {
	return func(c *Client) error {
		if l == nil {
			return ErrLoggerNil
		}
		c.logger = l
		return nil
	}
}

// WithMetrics sets an optional metrics recorder.
//
// Default: NoopMetrics
func WithMetrics(m Metrics) Option {
	return func(c *Client) error {
		if m == nil {
			return ErrMetricsNil
		}
		c.metrics = m
		return nil
	}
}

// WithTracer sets an optional tracer; one span is started per request.
//
// Default: NoopTracer
func WithTracer(t Tracer) Option {
	return func(c *Client) error {
		if t == nil {
			return ErrTracerNil
		}
		c.tracer = t
		return nil
	}
}

// WithClock sets the time source used for expiry checks and request timing.
// Mostly useful in tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) error {
		if now == nil {
			return ErrClockNil
		}
		c.now = now
		return nil
	}
}

// Sentinel errors for configuration validation
var (
	ErrAPIOriginEmpty    = errors.New("api origin cannot be empty (use WithAPIOrigin)")
	ErrTokenProviderNil  = errors.New("token provider cannot be nil (use WithTokenProvider)")
	ErrHTTPClientNil     = errors.New("http client cannot be nil")
	ErrErrorSinkNil      = errors.New("error sink cannot be nil")
	ErrPathFuncNil       = errors.New("path accessor cannot be nil")
	ErrPollPolicyInvalid = errors.New("poll policy needs at least one attempt and a positive interval")
	ErrLoggerNil         = errors.New("logger cannot be nil")
	ErrMetricsNil        = errors.New("metrics cannot be nil")
	ErrTracerNil         = errors.New("tracer cannot be nil")
	ErrClockNil          = errors.New("clock cannot be nil")
)
