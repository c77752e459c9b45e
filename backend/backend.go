// Package backend contains interfaces and implementations to store and
// retrieve objects from the object database.
package backend

import (
	"io"

	"github.com/minigit-go/minigit/ginternals"
	"github.com/minigit-go/minigit/ginternals/object"
)

// Backend represents a store that can persist and retrieve loose
// objects. Reference storage is intentionally absent: nothing here
// resolves a ref beyond a literal 40-hex object name, so there is no
// ref database to back.
type Backend interface {
	// Close frees the resources held by the backend.
	Close() error

	// Init initializes a repository: creates the .git directory layout
	// and writes the initial HEAD file.
	Init() error

	// Object returns the object with the given oid.
	Object(ginternals.Oid) (*object.Object, error)
	// HasObject returns whether an object exists in the odb.
	HasObject(ginternals.Oid) (bool, error)
	// WriteObject adds an object to the odb, returning its oid. Writing
	// an object that already exists is a no-op: content is deterministic
	// from the oid, so there is nothing to overwrite.
	WriteObject(*object.Object) (ginternals.Oid, error)
	// WriteObjectStream adds an object to the odb from a reader that
	// must yield exactly size payload bytes, computing the oid as the
	// bytes stream through instead of holding the payload in memory.
	WriteObjectStream(typ object.Type, size int64, src io.Reader) (ginternals.Oid, error)
}
