// Package token reads claims out of compact dot-segmented tokens without any
// cryptographic library. Only the payload segment is interpreted and the
// signature is never checked: the decoded claims are for client-side control
// flow such as expiry checks and must not be treated as a trust boundary.
package token

import (
	"encoding/json"
	"strings"
	"time"
)

// Logger is the subset of logging the decoder needs. It is satisfied by the
// client Logger and by most *f-style loggers.
type Logger interface {
	Debugf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}

// Claims is the loosely typed payload of a token. The only field this
// package interprets is "exp".
type Claims map[string]any

// ExpiresAt returns the expiry instant carried in the "exp" claim, in whole
// seconds since the Unix epoch. The second return value is false when the
// claim is absent or not a number.
func (c Claims) ExpiresAt() (time.Time, bool) {
	v, ok := c["exp"]
	if !ok {
		return time.Time{}, false
	}
	switch n := v.(type) {
	case float64:
		return time.Unix(int64(n), 0), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(int64(f), 0), true
	}
	return time.Time{}, false
}

// Decoder extracts claims from compact tokens.
type Decoder struct {
	logger Logger
	now    func() time.Time
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger used for decode failures.
func WithLogger(l Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithClock sets the time source used by IsExpired. Mostly useful in tests.
func WithClock(now func() time.Time) Option {
	return func(d *Decoder) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDecoder constructs a Decoder with the supplied options.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		logger: noopLogger{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DecodeClaims returns the claims carried in the payload segment of tok, or
// nil when tok is not a three-segment token, the payload is not valid
// Base64URL, or the decoded text is not valid JSON. It never returns an
// error: a string that cannot be read as a token simply has no claims.
func (d *Decoder) DecodeClaims(tok string) Claims {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		d.logger.Debugf("token does not split into three segments")
		return nil
	}

	raw, err := DecodeBase64URL(parts[1])
	if err != nil {
		d.logger.Debugf("failed to decode token payload: %v", err)
		return nil
	}

	var claims Claims
	if err := json.Unmarshal([]byte(DecodeUTF8(raw)), &claims); err != nil {
		d.logger.Debugf("failed to parse token claims: %v", err)
		return nil
	}
	return claims
}

// IsExpired reports whether tok's expiry instant is now or in the past.
// Tokens without readable claims or without an "exp" claim count as expired,
// so an unreadable token fails closed to the unauthenticated path.
func (d *Decoder) IsExpired(tok string) bool {
	claims := d.DecodeClaims(tok)
	if claims == nil {
		return true
	}
	exp, ok := claims.ExpiresAt()
	if !ok {
		return true
	}
	return !exp.After(d.now())
}

var defaultDecoder = NewDecoder()

// DecodeClaims decodes tok with the default Decoder.
func DecodeClaims(tok string) Claims {
	return defaultDecoder.DecodeClaims(tok)
}

// IsExpired checks tok against the wall clock with the default Decoder.
func IsExpired(tok string) bool {
	return defaultDecoder.IsExpired(tok)
}
