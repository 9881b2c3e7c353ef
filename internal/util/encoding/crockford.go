package encoding

import (
	"bytes"
	"strings"
)

const crockfordBase32Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ" // Crockford's Base32 alphabet

// EncodeCrockfordB32LC encodes a byte slice using Crockford's Base32 alphabet and returns
// the result in lowercase, without padding. A 16 byte UUID encodes to 26 characters.
//
//nolint:gosec
func EncodeCrockfordB32LC(input []byte) string {
	var (
		result bytes.Buffer
		bits   = 0
		accum  = 0
	)

	for _, b := range input {
		accum = accum<<8 | int(b)
		bits += 8

		for bits >= 5 {
			bits -= 5
			result.WriteByte(crockfordBase32Alphabet[(accum>>(bits))&0x1F])
		}
	}

	if bits > 0 {
		result.WriteByte(crockfordBase32Alphabet[(accum<<uint(5-bits))&0x1F])
	}

	return strings.ToLower(result.String())
}
