// Package object contains the types and parsing/serialization logic for
// the four kinds of git objects (blob, tree, commit, tag) and the
// loose-object header framing shared by all of them.
package object

import (
	"bytes"
	"compress/zlib"
	"crypto/sha1" //nolint:gosec // object ids are SHA-1 by format, not by choice
	"io"
	"strconv"
	"sync"

	"github.com/minigit-go/minigit/ginternals"
	"github.com/minigit-go/minigit/internal/readutil"
	"golang.org/x/xerrors"
)

// Type represents the kind of a git object.
type Type int8

// The four object kinds a loose object or a pack entry can hold.
const (
	TypeCommit Type = 1
	TypeTree   Type = 2
	TypeBlob   Type = 3
	TypeTag    Type = 4
	// 5 is reserved by the pack format.
	TypeOfsDelta Type = 6
	TypeRefDelta Type = 7
)

// String returns the lowercase name used in a loose-object header.
func (t Type) String() string {
	switch t {
	case TypeCommit:
		return "commit"
	case TypeTree:
		return "tree"
	case TypeBlob:
		return "blob"
	case TypeTag:
		return "tag"
	case TypeOfsDelta:
		return "ofs-delta"
	case TypeRefDelta:
		return "ref-delta"
	default:
		return "unknown"
	}
}

// IsValid returns whether t is one of the known object kinds.
func (t Type) IsValid() bool {
	switch t {
	case TypeCommit, TypeTree, TypeBlob, TypeTag, TypeOfsDelta, TypeRefDelta:
		return true
	default:
		return false
	}
}

// NewTypeFromString returns the Type matching one of the four loose
// object header tokens. Any other token is ErrUnknownKind.
func NewTypeFromString(t string) (Type, error) {
	switch t {
	case "commit":
		return TypeCommit, nil
	case "tree":
		return TypeTree, nil
	case "blob":
		return TypeBlob, nil
	case "tag":
		return TypeTag, nil
	default:
		return 0, ginternals.ErrUnknownKind
	}
}

// Object is an in-memory git object: a kind and its raw, uncompressed
// payload. The Oid is derived lazily from "kind SP size NUL payload"
// and cached: it's the SHA-1 of the header concatenated with the payload.
type Object struct {
	id      ginternals.Oid
	typ     Type
	content []byte

	idOnce sync.Once
}

// New creates a new object of the given kind wrapping content. content
// is not copied; callers should not mutate it afterwards.
func New(typ Type, content []byte) *Object {
	return &Object{typ: typ, content: content}
}

// NewWithID creates a new object whose Oid is already known (e.g. read
// back from the object store, or reconstructed from a pack), skipping
// the lazy computation.
func NewWithID(id ginternals.Oid, typ Type, content []byte) *Object {
	o := &Object{typ: typ, content: content}
	o.id = id
	o.idOnce.Do(func() {})
	return o
}

// ID returns the object's Oid, computing it on first access.
func (o *Object) ID() ginternals.Oid {
	o.idOnce.Do(func() {
		o.id, _ = o.header()
	})
	return o.id
}

// Size returns the length of the object's payload.
func (o *Object) Size() int {
	return len(o.content)
}

// Type returns the object's kind.
func (o *Object) Type() Type {
	return o.typ
}

// Bytes returns the object's raw payload.
func (o *Object) Bytes() []byte {
	return o.content
}

// header builds "kind SP size NUL payload" and returns both the Oid of
// that buffer and the buffer itself, so callers needing both (ID and
// Compress) don't redo the work.
func (o *Object) header() (oid ginternals.Oid, data []byte) {
	w := new(bytes.Buffer)
	w.Write(HeaderBytes(o.typ, int64(o.Size())))
	w.Write(o.content)

	data = w.Bytes()
	return ginternals.NewOidFromContent(data), data
}

// Compress returns the object zlib-compressed, ready to be written as a
// loose object.
func (o *Object) Compress() (data []byte, err error) {
	_, fileContent := o.header()

	buf := new(bytes.Buffer)
	zw := zlib.NewWriter(buf)

	if _, err = zw.Write(fileContent); err != nil {
		zw.Close() //nolint:errcheck // already failing
		return nil, xerrors.Errorf("could not zlib-compress object: %w", err)
	}
	// Close flushes the remaining compressed data and the checksum into
	// buf, so it must happen before buf is read.
	if err = zw.Close(); err != nil {
		return nil, xerrors.Errorf("could not flush compressed object: %w", err)
	}
	return buf.Bytes(), nil
}

// HeaderBytes returns the loose-object header for an object of the
// given kind and payload size: "kind SP size NUL".
func HeaderBytes(typ Type, size int64) []byte {
	header := make([]byte, 0, len(typ.String())+12)
	header = append(header, typ.String()...)
	header = append(header, ' ')
	header = strconv.AppendInt(header, size, 10)
	return append(header, 0)
}

// HashStream computes the Oid of an object of the given kind whose
// payload is streamed from src, without keeping the payload in memory.
// src must yield exactly size bytes: fewer is ErrShortPayload, more is
// ErrLongPayload.
func HashStream(typ Type, size int64, src io.Reader) (ginternals.Oid, error) {
	h := sha1.New() //nolint:gosec
	h.Write(HeaderBytes(typ, size))

	n, err := io.Copy(h, io.LimitReader(src, size))
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not hash payload: %w", err)
	}
	if n < size {
		return ginternals.NullOid, xerrors.Errorf("read %d of %d bytes: %w", n, size, ginternals.ErrShortPayload)
	}
	if _, err := io.ReadFull(src, make([]byte, 1)); err != io.EOF {
		if err != nil {
			return ginternals.NullOid, xerrors.Errorf("could not check for extra payload: %w", err)
		}
		return ginternals.NullOid, xerrors.Errorf("more than %d bytes available: %w", size, ginternals.ErrLongPayload)
	}

	oid, err := ginternals.NewOidFromBytes(h.Sum(nil))
	if err != nil {
		return ginternals.NullOid, err
	}
	return oid, nil
}

// ParseLoose decodes an inflated loose object buffer ("kind SP size NUL
// payload") into an Object.
func ParseLoose(buf []byte) (*Object, error) {
	kindTok := readutil.ReadTo(buf, ' ')
	if kindTok == nil {
		return nil, xerrors.Errorf("no space found in header: %w", ginternals.ErrBadHeader)
	}
	typ, err := NewTypeFromString(string(kindTok))
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", string(kindTok), ginternals.ErrUnknownKind)
	}
	offset := len(kindTok) + 1

	sizeTok := readutil.ReadTo(buf[offset:], 0)
	if sizeTok == nil {
		return nil, xerrors.Errorf("no NUL found in header: %w", ginternals.ErrBadHeader)
	}
	size, err := parseDecimalSize(sizeTok)
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", string(sizeTok), ginternals.ErrBadSize)
	}
	offset += len(sizeTok) + 1

	payload := buf[offset:]
	switch {
	case len(payload) < size:
		return nil, xerrors.Errorf("have %d bytes, want %d: %w", len(payload), size, ginternals.ErrTruncated)
	case len(payload) > size:
		return nil, xerrors.Errorf("have %d bytes, want %d: %w", len(payload), size, ginternals.ErrTrailingData)
	}

	return New(typ, payload), nil
}

// parseDecimalSize parses an ASCII decimal non-negative integer with no
// sign and no leading or trailing whitespace. strconv.Atoi alone would
// accept a leading '+' or '-', which a loose object header never has.
func parseDecimalSize(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, ginternals.ErrBadSize
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, ginternals.ErrBadSize
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
