package token

import "strings"

// DecodeUTF8 reassembles a byte sequence into a string, consuming multi-byte
// UTF-8 sequences of one to six bytes. The legacy five and six byte forms are
// accepted on purpose: some token issuers emit them, and this decoder matches
// their encoder rather than strict modern UTF-8.
//
// The decoder never fails. A lead byte announcing more continuation bytes
// than remain in the sequence is emitted as a single byte, as are stray
// continuation bytes.
func DecodeUTF8(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))

	i := 0
	for i < len(b) {
		lead := b[i]

		var trail int
		var cp rune
		switch {
		case lead < 0x80:
			trail, cp = 0, rune(lead)
		case lead < 0xC0:
			// Continuation byte with no lead, keep as-is.
			trail, cp = 0, rune(lead)
		case lead < 0xE0:
			trail, cp = 1, rune(lead&0x1F)
		case lead < 0xF0:
			trail, cp = 2, rune(lead&0x0F)
		case lead < 0xF8:
			trail, cp = 3, rune(lead&0x07)
		case lead < 0xFC:
			trail, cp = 4, rune(lead&0x03)
		default:
			trail, cp = 5, rune(lead&0x01)
		}

		if i+trail >= len(b) {
			// Truncated sequence, degrade to a single byte.
			sb.WriteRune(rune(lead))
			i++
			continue
		}

		for k := 1; k <= trail; k++ {
			cp = cp<<6 | rune(b[i+k]&0x3F)
		}
		sb.WriteRune(cp)
		i += trail + 1
	}

	return sb.String()
}
