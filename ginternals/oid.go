// Package ginternals contains the low-level knowledge of Git's on-disk
// object model: object identifiers and shared sentinel errors. The path
// layout of a .git directory lives in internal/gitpath.
package ginternals

import (
	"crypto/sha1" //nolint:gosec // SHA-1 is mandated by the on-disk format, not chosen for security
	"encoding/hex"
	"errors"
)

// OidSize is the number of raw bytes in an object id.
const OidSize = 20

// ErrInvalidOid is returned when a string or byte slice cannot be
// turned into a valid Oid.
var ErrInvalidOid = errors.New("invalid oid")

// NullOid is the zero-value Oid. It never identifies a real object.
var NullOid = Oid{}

// Oid is the 20-byte SHA-1 digest that identifies a git object.
// Equality and ordering are plain byte-array comparison: lexicographic
// order over the raw bytes.
type Oid [OidSize]byte

// NewOidFromContent computes the Oid of the given bytes (the bytes are
// expected to already include the "type size\0" header).
func NewOidFromContent(content []byte) Oid {
	return Oid(sha1.Sum(content)) //nolint:gosec
}

// NewOidFromBytes builds an Oid from a 20-byte raw slice.
func NewOidFromBytes(b []byte) (Oid, error) {
	if len(b) != OidSize {
		return NullOid, ErrInvalidOid
	}
	var oid Oid
	copy(oid[:], b)
	return oid, nil
}

// NewOidFromHex builds an Oid from a 20-byte raw slice. Despite its
// name it does not decode hex text: it is an alias of NewOidFromBytes.
// Use NewOidFromStr or NewOidFromChars for the 40-character hex form.
func NewOidFromHex(b []byte) (Oid, error) {
	return NewOidFromBytes(b)
}

// NewOidFromStr builds an Oid from its 40 lowercase hex character
// representation.
func NewOidFromStr(s string) (Oid, error) {
	if len(s) != OidSize*2 {
		return NullOid, ErrInvalidOid
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return NullOid, ErrInvalidOid
		}
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return NullOid, ErrInvalidOid
	}
	return NewOidFromBytes(b)
}

// NewOidFromChars is the same as NewOidFromStr but takes a byte slice,
// which is how most parsers (tree/commit) have the hex text in hand.
func NewOidFromChars(b []byte) (Oid, error) {
	return NewOidFromStr(string(b))
}

// Bytes returns the raw 20-byte representation of the Oid.
func (o Oid) Bytes() []byte {
	return o[:]
}

// String returns the 40 lowercase hex character representation of the
// Oid.
func (o Oid) String() string {
	return hex.EncodeToString(o[:])
}

// IsZero returns whether the Oid is the NullOid.
func (o Oid) IsZero() bool {
	return o == NullOid
}
