package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestDecodeClaims(t *testing.T) {
	decoder := NewDecoder()

	t.Run("valid token", func(t *testing.T) {
		tok := mintToken(t, jwt.MapClaims{
			"exp": float64(1700000000),
			"sub": "user-1",
		})

		claims := decoder.DecodeClaims(tok)
		require.NotNil(t, claims)

		expected := Claims{
			"exp": float64(1700000000),
			"sub": "user-1",
		}
		if diff := cmp.Diff(expected, claims); diff != "" {
			t.Errorf("claims mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unicode claim values survive decoding", func(t *testing.T) {
		tok := mintToken(t, jwt.MapClaims{"name": "Jürgen €"})

		claims := decoder.DecodeClaims(tok)
		require.NotNil(t, claims)
		assert.Equal(t, "Jürgen €", claims["name"])
	})
}

func TestDecodeClaimsMalformed(t *testing.T) {
	decoder := NewDecoder()

	testCases := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "no dots", token: "notatoken"},
		{name: "two segments", token: "aaa.bbb"},
		{name: "four segments", token: "a.b.c.d"},
		{name: "payload is not base64", token: "head.!!!.sig"},
		{name: "payload is not json", token: "head.aGVsbG8.sig"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Nil(t, decoder.DecodeClaims(testCase.token))
		})
	}
}

func TestClaimsExpiresAt(t *testing.T) {
	testCases := []struct {
		name     string
		claims   Claims
		expected time.Time
		ok       bool
	}{
		{
			name:     "integer seconds",
			claims:   Claims{"exp": float64(1700000000)},
			expected: time.Unix(1700000000, 0),
			ok:       true,
		},
		{
			name:   "missing exp",
			claims: Claims{"sub": "user-1"},
			ok:     false,
		},
		{
			name:   "exp is not a number",
			claims: Claims{"exp": "tomorrow"},
			ok:     false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got, ok := testCase.claims.ExpiresAt()
			assert.Equal(t, testCase.ok, ok)
			if testCase.ok {
				assert.True(t, got.Equal(testCase.expected))
			}
		})
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Unix(1700000000, 0)
	decoder := NewDecoder(WithClock(func() time.Time { return now }))

	testCases := []struct {
		name    string
		token   string
		expired bool
	}{
		{
			name:    "expiry in the future",
			token:   mintToken(t, jwt.MapClaims{"exp": float64(now.Unix() + 60)}),
			expired: false,
		},
		{
			name:    "expiry in the past",
			token:   mintToken(t, jwt.MapClaims{"exp": float64(now.Unix() - 60)}),
			expired: true,
		},
		{
			name:    "expiry exactly now counts as expired",
			token:   mintToken(t, jwt.MapClaims{"exp": float64(now.Unix())}),
			expired: true,
		},
		{
			name:    "missing exp fails closed",
			token:   mintToken(t, jwt.MapClaims{"sub": "user-1"}),
			expired: true,
		},
		{
			name:    "unreadable token fails closed",
			token:   "not.a-real.token",
			expired: true,
		},
		{
			name:    "empty token fails closed",
			token:   "",
			expired: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expired, decoder.IsExpired(testCase.token))
		})
	}
}

func TestPackageLevelHelpers(t *testing.T) {
	expired := mintToken(t, jwt.MapClaims{"exp": float64(1)})

	assert.NotNil(t, DecodeClaims(expired))
	assert.True(t, IsExpired(expired))
	assert.Nil(t, DecodeClaims("nope"))
}
