package fsbackend

import (
	"compress/zlib"
	"crypto/sha1" //nolint:gosec // object ids are SHA-1 by format, not by choice
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/minigit-go/minigit/ginternals"
	"github.com/minigit-go/minigit/ginternals/object"
	"github.com/minigit-go/minigit/internal/errutil"
	"github.com/minigit-go/minigit/internal/gitpath"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// looseObjectPath returns the absolute path of a loose object:
// .git/objects/first_2_chars_of_sha/remaining_chars_of_sha
func (b *Backend) looseObjectPath(sha string) string {
	return filepath.Join(b.root, gitpath.ObjectsPath, sha[:2], sha[2:])
}

// Object returns the object with the given oid.
func (b *Backend) Object(oid ginternals.Oid) (*object.Object, error) {
	if b.cache != nil {
		if cached, found := b.cache.Get(oid); found {
			if o, valid := cached.(*object.Object); valid {
				return o, nil
			}
		}
	}

	o, err := b.looseObject(oid)
	if err != nil {
		return nil, err
	}
	if b.cache != nil {
		b.cache.Add(oid, o)
	}
	return o, nil
}

// looseObject inflates and parses the loose object stored under oid.
func (b *Backend) looseObject(oid ginternals.Oid) (o *object.Object, err error) {
	strOid := oid.String()
	p := b.looseObjectPath(strOid)

	f, err := b.fs.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ginternals.ErrObjectNotFound
		}
		return nil, xerrors.Errorf("could not open object %s at %s: %w", strOid, p, err)
	}
	defer errutil.Close(f, &err)

	zlibReader, err := zlib.NewReader(f)
	if err != nil {
		return nil, xerrors.Errorf("could not decompress object %s at %s: %w", strOid, p, err)
	}
	defer errutil.Close(zlibReader, &err)

	buf, err := ioutil.ReadAll(zlibReader)
	if err != nil {
		return nil, xerrors.Errorf("could not read object %s at %s: %w", strOid, p, err)
	}

	o, err = object.ParseLoose(buf)
	if err != nil {
		return nil, xerrors.Errorf("could not parse object %s at %s: %w", strOid, p, err)
	}
	return object.NewWithID(oid, o.Type(), o.Bytes()), nil
}

// HasObject returns whether an object exists in the odb.
func (b *Backend) HasObject(oid ginternals.Oid) (bool, error) {
	p := b.looseObjectPath(oid.String())
	_, err := b.fs.Stat(p)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, xerrors.Errorf("could not stat object %s: %w", oid.String(), err)
}

// WriteObject adds an object to the odb, writing it atomically: the
// compressed bytes are streamed to a temp file in the same shard
// directory, then renamed into place. If the destination already
// exists the write is a no-op, since content is deterministic from the
// oid.
func (b *Backend) WriteObject(o *object.Object) (ginternals.Oid, error) {
	oid := o.ID()

	exists, err := b.HasObject(oid)
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not check if object %s already exists: %w", oid.String(), err)
	}
	if exists {
		return oid, nil
	}

	data, err := o.Compress()
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not compress object: %w", err)
	}

	sha := oid.String()
	finalPath := b.looseObjectPath(sha)
	dir := filepath.Dir(finalPath)
	if err := b.fs.MkdirAll(dir, 0o755); err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not create destination directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(b.fs, dir, "tmp-obj-")
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	if _, err = tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck // cleanup path, already failing
		b.fs.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		return ginternals.NullOid, xerrors.Errorf("could not write object %s to temp file: %w", sha, err)
	}
	if err = tmp.Close(); err != nil {
		b.fs.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		return ginternals.NullOid, xerrors.Errorf("could not close temp file for object %s: %w", sha, err)
	}
	if err = b.fs.Chmod(tmpPath, 0o444); err != nil {
		b.fs.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		return ginternals.NullOid, xerrors.Errorf("could not set permissions on object %s: %w", sha, err)
	}
	if err = b.fs.Rename(tmpPath, finalPath); err != nil {
		b.fs.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		return ginternals.NullOid, xerrors.Errorf("could not finalize object %s at %s: %w", sha, finalPath, err)
	}

	if b.cache != nil {
		b.cache.Add(oid, o)
	}
	return oid, nil
}

// WriteObjectStream adds an object to the odb without materializing its
// payload: the bytes stream through a SHA-1 hasher and a zlib deflator
// at the same time, the compressed output landing in a temp file that
// is renamed into its shard once the oid is known. src must yield
// exactly size payload bytes: fewer is ErrShortPayload, more is
// ErrLongPayload.
func (b *Backend) WriteObjectStream(typ object.Type, size int64, src io.Reader) (ginternals.Oid, error) {
	// The shard directory isn't known until the whole payload has been
	// hashed, so the temp file lives directly under objects/ and moves
	// into its shard at rename time.
	objectsDir := filepath.Join(b.root, gitpath.ObjectsPath)
	tmp, err := afero.TempFile(b.fs, objectsDir, "tmp-obj-")
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not create temp file in %s: %w", objectsDir, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()          //nolint:errcheck // already failing
		b.fs.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
	}

	hasher := sha1.New() //nolint:gosec
	zw := zlib.NewWriter(tmp)
	sinks := io.MultiWriter(hasher, zw)

	if _, err = sinks.Write(object.HeaderBytes(typ, size)); err != nil {
		cleanup()
		return ginternals.NullOid, xerrors.Errorf("could not write object header: %w", err)
	}
	n, err := io.Copy(sinks, io.LimitReader(src, size))
	if err != nil {
		cleanup()
		return ginternals.NullOid, xerrors.Errorf("could not stream payload: %w", err)
	}
	if n < size {
		cleanup()
		return ginternals.NullOid, xerrors.Errorf("read %d of %d bytes: %w", n, size, ginternals.ErrShortPayload)
	}
	if _, err = io.ReadFull(src, make([]byte, 1)); err != io.EOF {
		cleanup()
		if err != nil {
			return ginternals.NullOid, xerrors.Errorf("could not check for extra payload: %w", err)
		}
		return ginternals.NullOid, xerrors.Errorf("more than %d bytes available: %w", size, ginternals.ErrLongPayload)
	}

	if err = zw.Close(); err != nil {
		cleanup()
		return ginternals.NullOid, xerrors.Errorf("could not flush compressed object: %w", err)
	}
	if err = tmp.Close(); err != nil {
		b.fs.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		return ginternals.NullOid, xerrors.Errorf("could not close temp file: %w", err)
	}

	oid, err := ginternals.NewOidFromBytes(hasher.Sum(nil))
	if err != nil {
		b.fs.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		return ginternals.NullOid, err
	}
	sha := oid.String()

	exists, err := b.HasObject(oid)
	if err != nil {
		b.fs.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		return ginternals.NullOid, xerrors.Errorf("could not check if object %s already exists: %w", sha, err)
	}
	if exists {
		b.fs.Remove(tmpPath) //nolint:errcheck // the object is already stored, the temp copy is redundant
		return oid, nil
	}

	finalPath := b.looseObjectPath(sha)
	if err = b.fs.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		b.fs.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		return ginternals.NullOid, xerrors.Errorf("could not create destination directory for %s: %w", sha, err)
	}
	if err = b.fs.Chmod(tmpPath, 0o444); err != nil {
		b.fs.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		return ginternals.NullOid, xerrors.Errorf("could not set permissions on object %s: %w", sha, err)
	}
	if err = b.fs.Rename(tmpPath, finalPath); err != nil {
		b.fs.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		return ginternals.NullOid, xerrors.Errorf("could not finalize object %s at %s: %w", sha, finalPath, err)
	}
	return oid, nil
}
