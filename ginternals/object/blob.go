package object

import "github.com/minigit-go/minigit/ginternals"

// Blob is a thin, read-only view over a blob Object.
type Blob struct {
	rawObject *Object
}

// NewBlob wraps an Object as a Blob.
func NewBlob(o *Object) *Blob {
	return &Blob{rawObject: o}
}

// ID returns the blob's Oid.
func (b *Blob) ID() ginternals.Oid {
	return b.rawObject.ID()
}

// Bytes returns the blob's content. Callers must not mutate the
// returned slice.
func (b *Blob) Bytes() []byte {
	return b.rawObject.content
}

// Size returns the size of the blob's content.
func (b *Blob) Size() int {
	return len(b.rawObject.content)
}

// ToObject returns the Blob's underlying Object.
func (b *Blob) ToObject() *Object {
	return b.rawObject
}
