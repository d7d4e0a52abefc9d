// Package id generates request identifiers and opaque random tokens.
package id

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// Crockford's Base32 alphabet (excludes I, L, O, U).
const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// DefaultTokenBytes is the entropy of tokens produced by NewToken(0).
const DefaultTokenBytes = 32

// ErrEntropy is returned when the system random source fails.
var ErrEntropy = errors.New("id: failed to read random bytes")

// NewULID generates a ULID (Universally Unique Lexicographically Sortable Identifier).
// Returns a 26-character string: 10 chars timestamp (48-bit ms) + 16 chars random (80-bit).
// Used for request IDs, where a degraded random part is acceptable.
func NewULID() string {
	var raw [16]byte

	ms := uint64(time.Now().UnixMilli())
	for i := range 6 {
		raw[i] = byte(ms >> (40 - 8*i))
	}
	if _, err := rand.Read(raw[6:]); err != nil {
		ns := uint64(time.Now().UnixNano())
		for i := range 8 {
			raw[6+i] = byte(ns >> (8 * i))
		}
	}

	return encodeULID(raw)
}

// encodeULID writes 128 bits as 26 base32 characters. The first character
// carries only the top 3 bits, so the 130-bit window is read from bit 125 down.
func encodeULID(raw [16]byte) string {
	var out [26]byte
	for i := range out {
		shift := 125 - 5*i
		out[i] = crockfordBase32[bits5(raw, shift)]
	}
	return string(out[:])
}

// bits5 returns the 5 bits of raw (big-endian, 128 bits) starting at bit
// position shift counted from the least significant end. Bits above 127 read as 0.
func bits5(raw [16]byte, shift int) byte {
	var v byte
	for b := 4; b >= 0; b-- {
		pos := shift + b
		v <<= 1
		if pos > 127 || pos < 0 {
			continue
		}
		byteIdx := 15 - pos/8
		v |= (raw[byteIdx] >> (pos % 8)) & 1
	}
	return v
}

// NewToken returns n random bytes encoded as unpadded base64url.
// n <= 0 uses DefaultTokenBytes. Unlike NewULID it never degrades:
// a failing random source is reported as ErrEntropy.
func NewToken(n int) (string, error) {
	if n <= 0 {
		n = DefaultTokenBytes
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Join(ErrEntropy, err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
