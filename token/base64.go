package token

import (
	"errors"
	"fmt"
)

// ErrInvalidBase64 is returned when the input contains a character outside
// the Base64URL alphabet.
var ErrInvalidBase64 = errors.New("invalid base64 input")

// DecodeError reports a character that is not part of the Base64URL
// alphabet, along with its position in the input.
type DecodeError struct {
	Char byte
	Pos  int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid base64 character %q at position %d", e.Char, e.Pos)
}

// Is allows the error to support equality to ErrInvalidBase64.
func (e *DecodeError) Is(target error) bool {
	return target == ErrInvalidBase64
}

const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// base64Codes maps a byte to its 6-bit alphabet code, or -1 when the byte is
// not part of the alphabet. Built once at package load, never mutated after.
var base64Codes [256]int8

func init() {
	for i := range base64Codes {
		base64Codes[i] = -1
	}
	for i := 0; i < len(base64Alphabet); i++ {
		base64Codes[base64Alphabet[i]] = int8(i)
	}
}

// DecodeBase64URL decodes a Base64 string into its raw bytes. Both the
// standard alphabet and the URL-safe variants '-' and '_' are accepted, with
// any amount of trailing '=' padding. Each character contributes 6 bits;
// trailing bits that do not fill a whole byte are discarded, so only whole
// bytes are ever emitted.
func DecodeBase64URL(s string) ([]byte, error) {
	out := make([]byte, 0, len(s)*6/8)

	var acc uint32
	var bits uint
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '-':
			ch = '+'
		case '_':
			ch = '/'
		case '=':
			continue
		}

		code := base64Codes[ch]
		if code < 0 {
			return nil, &DecodeError{Char: s[i], Pos: i}
		}

		acc = acc<<6 | uint32(code)
		bits += 6
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(acc>>bits))
		}
	}

	return out, nil
}
