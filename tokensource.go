package apiclient

import (
	"fmt"
	"strings"
)

// TokenSource selects which credential a Client sends as the bearer value.
// It is resolved once at construction time.
type TokenSource int

const (
	// TokenSourceAccess sends the provider's access token. This is the
	// default.
	TokenSourceAccess TokenSource = iota

	// TokenSourceID sends the provider's ID token.
	TokenSourceID
)

func (s TokenSource) String() string {
	switch s {
	case TokenSourceID:
		return "idToken"
	default:
		return "accessToken"
	}
}

// ParseTokenSource parses a configured token source string. Matching is
// case-insensitive and the empty string selects the access token.
func ParseTokenSource(s string) (TokenSource, error) {
	switch strings.ToLower(s) {
	case "", "accesstoken":
		return TokenSourceAccess, nil
	case "idtoken":
		return TokenSourceID, nil
	}
	return TokenSourceAccess, fmt.Errorf("unknown token source %q", s)
}

// TokenProvider supplies the credentials a Client attaches to requests and
// the re-login entry point the error classifier redirects through. It is
// typically backed by an OIDC session held outside this package; tokens are
// re-read on every request so an in-flight refresh is picked up without any
// signal from the provider.
type TokenProvider interface {
	// AccessToken returns the current access token, or "" when logged out.
	AccessToken() string

	// IDToken returns the current ID token, or "" when logged out.
	IDToken() string

	// Login starts a re-login flow that returns to returnPath afterwards.
	Login(returnPath string)
}

// StaticTokenProvider is a TokenProvider over fixed credential strings. Its
// Login is a no-op. Useful for tests and for machine credentials that never
// rotate.
type StaticTokenProvider struct {
	Access string
	ID     string
}

func (p *StaticTokenProvider) AccessToken() string { return p.Access }
func (p *StaticTokenProvider) IDToken() string     { return p.ID }
func (p *StaticTokenProvider) Login(string)        {}

// ErrorSink receives errors the classifier decided to surface, typically a
// UI error boundary or an error reporter.
type ErrorSink interface {
	Report(err *ErrorResponse)
}

// NoopErrorSink is the default ErrorSink; it drops everything.
type NoopErrorSink struct{}

func (NoopErrorSink) Report(*ErrorResponse) {}

// PathFunc returns the caller-visible current path, used as the return path
// for re-login redirects.
type PathFunc func() string
