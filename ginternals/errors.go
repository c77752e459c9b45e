package ginternals

import "errors"

// Errors surfaced by the object database and the commands built on top
// of it.
var (
	// I/O
	ErrObjectNotFound = errors.New("object not found")
	ErrTruncated      = errors.New("truncated object")
	ErrTrailingData   = errors.New("trailing garbage after object payload")

	// Object format
	ErrUnknownKind  = errors.New("unknown object kind")
	ErrBadHeader    = errors.New("malformed object header")
	ErrBadSize      = errors.New("malformed object size")
	ErrShortPayload = errors.New("payload ended before its declared size")
	ErrLongPayload  = errors.New("payload exceeds its declared size")

	// Tree format
	ErrTreeTruncated = errors.New("truncated tree entry")
	ErrTreeEmptyName = errors.New("empty entry name in tree")
	ErrTreeBadMode   = errors.New("malformed entry mode in tree")
	ErrTreeNameSlash = errors.New("entry name contains a slash")

	// Object/commit format
	ErrObjectInvalid    = errors.New("object is not of the expected type")
	ErrCommitInvalid    = errors.New("malformed commit object")
	ErrSignatureInvalid = errors.New("commit signature is invalid")

	// Pack format
	ErrBadPackMagic      = errors.New("invalid packfile magic")
	ErrBadPackVersion    = errors.New("unsupported packfile version")
	ErrBadDeltaOp        = errors.New("invalid delta instruction opcode")
	ErrDeltaSizeMismatch = errors.New("reconstructed delta size does not match header")
	ErrMissingBase       = errors.New("delta base object not found")
	ErrPackChecksum      = errors.New("packfile checksum mismatch")
	ErrVarintOverflow    = errors.New("variable-length integer overflows 64 bits")

	// User input / repository discovery. An object name that isn't 40
	// lowercase hex digits surfaces as ErrInvalidOid (oid.go).
	ErrNotARepository = errors.New("not a git repository (or any of the parent directories)")
)
