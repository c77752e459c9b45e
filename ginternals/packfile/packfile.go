// Package packfile decodes a Git pack stream: the 12-byte header,
// the variable-length per-object type+size framing, REF_DELTA/
// OFS_DELTA base resolution, and the copy/insert delta instruction
// stream, writing every reconstructed object straight to an object
// store in a single forward pass.
package packfile

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"crypto/sha1" //nolint:gosec // required by the pack/object-id format, not used for security
	"encoding/binary"
	"hash"
	"io"

	"github.com/minigit-go/minigit/ginternals"
	"github.com/minigit-go/minigit/ginternals/object"
	"golang.org/x/xerrors"
)

// packHeaderSize is the size, in bytes, of a pack's fixed header:
// 4 bytes magic, 4 bytes version, 4 bytes object count.
const packHeaderSize = 12

var packMagic = []byte{'P', 'A', 'C', 'K'}

// ObjectStore is the subset of the object database the unpacker needs:
// enough to resolve REF_DELTA bases against anything already written
// (by a previous command, or earlier in this same pack) and to persist
// every reconstructed object.
type ObjectStore interface {
	Object(ginternals.Oid) (*object.Object, error)
	WriteObject(*object.Object) (ginternals.Oid, error)
}

// Unpack reads a pack stream from r and writes every object it decodes
// to store. It returns the number of objects successfully written. If
// an object fails to decode, Unpack stops and returns the error;
// objects already written remain valid.
func Unpack(r io.Reader, store ObjectStore) (int, error) {
	th := newTrailingHash(r)
	cr := &countingReader{r: bufio.NewReader(th)}

	header := make([]byte, packHeaderSize)
	if _, err := io.ReadFull(cr, header); err != nil {
		return 0, xerrors.Errorf("could not read pack header: %w", err)
	}
	if !bytes.Equal(header[0:4], packMagic) {
		return 0, ginternals.ErrBadPackMagic
	}
	version := binary.BigEndian.Uint32(header[4:8])
	if version != 2 && version != 3 {
		return 0, ginternals.ErrBadPackVersion
	}
	count := binary.BigEndian.Uint32(header[8:12])

	// Maps the starting offset (from the beginning of the pack) of
	// every object processed so far to the oid it was finally written
	// under, so OFS_DELTA bases (identified by offset) can be resolved
	// without re-reading the pack.
	offsetToOid := make(map[int64]ginternals.Oid, count)

	var written int
	for ; uint32(written) < count; written++ {
		objOffset := cr.n
		raw, baseOid, baseOffsetDelta, err := readPackObject(cr)
		if err != nil {
			return written, xerrors.Errorf("could not read object %d: %w", written, err)
		}

		final, err := resolve(raw, objOffset, baseOid, baseOffsetDelta, offsetToOid, store)
		if err != nil {
			return written, xerrors.Errorf("could not resolve object %d: %w", written, err)
		}

		oid, err := store.WriteObject(final)
		if err != nil {
			return written, xerrors.Errorf("could not write object %d: %w", written, err)
		}
		offsetToOid[objOffset] = oid
	}

	var trailer [ginternals.OidSize]byte
	if _, err := io.ReadFull(cr, trailer[:]); err != nil {
		return written, xerrors.Errorf("could not read pack checksum: %w", err)
	}
	if !bytes.Equal(th.Sum(), trailer[:]) {
		return written, ginternals.ErrPackChecksum
	}

	return written, nil
}

// resolve turns a freshly-read pack object into its final, concretely
// typed Object: returned as-is if it is a base object, or reconstructed
// against its base if it is a delta.
func resolve(raw *object.Object, objOffset int64, baseOid ginternals.Oid, baseOffsetDelta int64, offsetToOid map[int64]ginternals.Oid, store ObjectStore) (*object.Object, error) {
	if raw.Type() != object.TypeOfsDelta && raw.Type() != object.TypeRefDelta {
		return raw, nil
	}

	var base *object.Object
	var err error
	switch {
	case baseOid != ginternals.NullOid:
		base, err = store.Object(baseOid)
		if err != nil {
			return nil, xerrors.Errorf("could not get ref-delta base %s: %w", baseOid.String(), ginternals.ErrMissingBase)
		}
	default:
		baseAbsOffset := objOffset - baseOffsetDelta
		oid, ok := offsetToOid[baseAbsOffset]
		if !ok {
			return nil, xerrors.Errorf("no object at pack offset %d: %w", baseAbsOffset, ginternals.ErrMissingBase)
		}
		base, err = store.Object(oid)
		if err != nil {
			return nil, xerrors.Errorf("could not get ofs-delta base %s: %w", oid.String(), ginternals.ErrMissingBase)
		}
	}

	content, err := applyDelta(base.Bytes(), raw.Bytes())
	if err != nil {
		return nil, err
	}
	// A delta's base can itself be the result of an earlier delta
	// resolution; base.Type() is always the fully-resolved concrete
	// type since every written object carries one.
	return object.New(base.Type(), content), nil
}

// readPackObject reads one object's variable-length type+size header,
// its REF_DELTA/OFS_DELTA base info (if any), and its zlib-compressed
// payload, returning the inflated raw object plus delta base
// information. baseOid is NullOid when the object isn't a REF_DELTA;
// baseOffsetDelta is 0 when it isn't an OFS_DELTA.
func readPackObject(cr *countingReader) (o *object.Object, baseOid ginternals.Oid, baseOffsetDelta int64, err error) {
	first, err := cr.ReadByte()
	if err != nil {
		return nil, ginternals.NullOid, 0, xerrors.Errorf("could not read object header: %w", err)
	}

	typ := object.Type((first & 0b_0111_0000) >> 4)
	if !typ.IsValid() {
		return nil, ginternals.NullOid, 0, xerrors.Errorf("unknown object type %d", typ)
	}
	size := uint64(first & 0b_0000_1111)
	if isMSBSet(first) {
		rest, _, err := readSizeVarint(cr)
		if err != nil {
			return nil, ginternals.NullOid, 0, xerrors.Errorf("could not read object size: %w", err)
		}
		size |= rest << 4
	}

	switch typ {
	case object.TypeRefDelta:
		raw := make([]byte, ginternals.OidSize)
		if _, err := io.ReadFull(cr, raw); err != nil {
			return nil, ginternals.NullOid, 0, xerrors.Errorf("could not read ref-delta base oid: %w", err)
		}
		baseOid, err = ginternals.NewOidFromBytes(raw)
		if err != nil {
			return nil, ginternals.NullOid, 0, xerrors.Errorf("invalid ref-delta base oid: %w", err)
		}
	case object.TypeOfsDelta:
		baseOffsetDelta, err = readOfsDeltaOffset(cr)
		if err != nil {
			return nil, ginternals.NullOid, 0, xerrors.Errorf("could not read ofs-delta offset: %w", err)
		}
	}

	zr, err := zlib.NewReader(cr)
	if err != nil {
		return nil, ginternals.NullOid, 0, xerrors.Errorf("could not open zlib stream: %w", err)
	}
	defer zr.Close() //nolint:errcheck // read-only stream, nothing to flush

	payload := bytes.Buffer{}
	if _, err = io.Copy(&payload, zr); err != nil {
		return nil, ginternals.NullOid, 0, xerrors.Errorf("could not inflate object: %w", err)
	}
	if uint64(payload.Len()) != size {
		return nil, ginternals.NullOid, 0, xerrors.Errorf("object declared size %d, got %d", size, payload.Len())
	}

	return object.New(typ, payload.Bytes()), baseOid, baseOffsetDelta, nil
}

// applyDelta reconstructs an object by replaying a delta instruction
// stream against base.
func applyDelta(base, delta []byte) ([]byte, error) {
	srcSize, n, err := readSizeVarint(bytes.NewReader(delta))
	if err != nil {
		return nil, xerrors.Errorf("could not read delta base size: %w", err)
	}
	if int(srcSize) != len(base) {
		return nil, xerrors.Errorf("delta base size mismatch: expected %d, got %d", len(base), srcSize)
	}
	delta = delta[n:]
	targetSize, n, err := readSizeVarint(bytes.NewReader(delta))
	if err != nil {
		return nil, xerrors.Errorf("could not read delta target size: %w", err)
	}
	instructions := delta[n:]

	out := make([]byte, 0, targetSize)
	for i := 0; i < len(instructions); i++ {
		instr := instructions[i]
		switch {
		case isMSBSet(instr):
			offsetInfo := uint(instr & 0b_0000_1111)
			sizeInfo := uint((instr & 0b_0111_0000) >> 4)

			offsetBytes := make([]byte, 4)
			for j := uint(0); j < 4; j++ {
				if (offsetInfo>>j)&1 == 1 {
					i++
					if i >= len(instructions) {
						return nil, xerrors.Errorf("truncated copy instruction: %w", ginternals.ErrBadDeltaOp)
					}
					offsetBytes[j] = instructions[i]
				}
			}
			offset := binary.LittleEndian.Uint32(offsetBytes)

			sizeBytes := make([]byte, 4)
			for j := uint(0); j < 3; j++ {
				if (sizeInfo>>j)&1 == 1 {
					i++
					if i >= len(instructions) {
						return nil, xerrors.Errorf("truncated copy instruction: %w", ginternals.ErrBadDeltaOp)
					}
					sizeBytes[j] = instructions[i]
				}
			}
			copyLen := binary.LittleEndian.Uint32(sizeBytes)
			if copyLen == 0 {
				copyLen = 0x10000
			}
			if uint64(offset)+uint64(copyLen) > uint64(len(base)) {
				return nil, xerrors.Errorf("copy instruction out of bounds: %w", ginternals.ErrBadDeltaOp)
			}
			out = append(out, base[offset:uint64(offset)+uint64(copyLen)]...)
		case instr != 0:
			start := i + 1
			end := start + int(instr)
			if end > len(instructions) {
				return nil, xerrors.Errorf("truncated insert instruction: %w", ginternals.ErrBadDeltaOp)
			}
			out = append(out, instructions[start:end]...)
			i = end - 1
		default:
			return nil, ginternals.ErrBadDeltaOp
		}
	}

	if uint64(len(out)) != targetSize {
		return nil, ginternals.ErrDeltaSizeMismatch
	}
	return out, nil
}

// readSizeVarint reads a little-endian, MSB-continuation variable
// length size: used for both the object header's size field and the
// delta stream's base/target size fields.
func readSizeVarint(r io.ByteReader) (size uint64, bytesRead int, err error) {
	for shift := uint(0); ; shift += 7 {
		if shift >= 64 {
			return 0, 0, ginternals.ErrVarintOverflow
		}
		b, err := r.ReadByte()
		if err != nil {
			return 0, 0, err
		}
		bytesRead++
		size |= uint64(unsetMSB(b)) << shift
		if !isMSBSet(b) {
			break
		}
	}
	return size, bytesRead, nil
}

// readOfsDeltaOffset reads an OFS_DELTA negative offset: MSB
// continuation, big-endian seven-bit groups, with every chunk but the
// last biased by +1<<7.
func readOfsDeltaOffset(r io.ByteReader) (int64, error) {
	var offset int64
	for i := 0; ; i++ {
		if i >= 9 {
			return 0, ginternals.ErrVarintOverflow
		}
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		chunk := unsetMSB(b)
		if i > 0 {
			offset++
		}
		offset = offset<<7 | int64(chunk)
		if !isMSBSet(b) {
			break
		}
	}
	return offset, nil
}

func isMSBSet(b byte) bool { return b >= 0b_1000_0000 }
func unsetMSB(b byte) byte { return b & 0b_0111_1111 }

// countingReader wraps a bufio.Reader and tracks how many bytes have
// been logically consumed from the start of the pack, so each object's
// start offset is known without seeking. It implements io.ByteReader
// so zlib's flate decoder reads through it byte-exactly instead of
// introducing its own buffering (which could over-read past the end of
// a zlib stream packed back-to-back with the next object).
type countingReader struct {
	r *bufio.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.n++
	}
	return b, err
}

// trailingHash wraps a reader and computes a SHA-1 over every byte
// read except the most recent 20: since a pack's own trailing checksum
// is unknown in length ahead of a streaming read, the hash is always
// kept 20 bytes "behind" the stream. Once the stream has been read to
// its end (the 20-byte checksum itself), Sum returns the hash of
// everything that came before it.
type trailingHash struct {
	src     io.Reader
	hasher  hash.Hash
	pending []byte
}

func newTrailingHash(r io.Reader) *trailingHash {
	return &trailingHash{src: r, hasher: sha1.New()} //nolint:gosec // pack checksum format mandates SHA-1
}

func (t *trailingHash) Read(p []byte) (int, error) {
	n, err := t.src.Read(p)
	if n > 0 {
		t.consume(p[:n])
	}
	return n, err
}

func (t *trailingHash) consume(data []byte) {
	combined := append(t.pending, data...)
	if len(combined) <= ginternals.OidSize {
		t.pending = combined
		return
	}
	cut := len(combined) - ginternals.OidSize
	t.hasher.Write(combined[:cut])
	t.pending = append([]byte(nil), combined[cut:]...)
}

func (t *trailingHash) Sum() []byte {
	return t.hasher.Sum(nil)
}
