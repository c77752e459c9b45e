package object

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/minigit-go/minigit/ginternals"
	"github.com/minigit-go/minigit/internal/readutil"
	"golang.org/x/xerrors"
)

// TreeEntryMode is the mode of an entry inside a tree, stored and
// printed as a decimal ASCII string (not the octal text real Git
// documentation sometimes shows).
type TreeEntryMode int32

// Recognized tree entry modes.
const (
	ModeFile       TreeEntryMode = 100644
	ModeExecutable TreeEntryMode = 100755
	ModeDirectory  TreeEntryMode = 40000
	ModeSymlink    TreeEntryMode = 120000
	ModeGitlink    TreeEntryMode = 160000
)

// ObjectType returns the kind of object a mode points to, used by
// cat-file -p / ls-tree's pretty printer.
func (m TreeEntryMode) ObjectType() Type {
	switch m {
	case ModeDirectory:
		return TypeTree
	case ModeGitlink:
		return TypeCommit
	default:
		return TypeBlob
	}
}

// TreeEntry is one (mode, name, oid) record inside a tree object.
type TreeEntry struct {
	Mode TreeEntryMode
	Name []byte
	ID   ginternals.Oid
}

// Tree is the parsed form of a tree object's payload: an ordered list
// of entries. Neither NewTree nor ParseTree removes entries that share
// a name.
type Tree struct {
	entries []TreeEntry
}

// NewTree builds a canonical Tree from an arbitrary set of entries,
// sorting them by the dir-suffixed-with-slash key so the resulting
// object is byte-identical no matter what order entries were inserted in.
func NewTree(entries []TreeEntry) *Tree {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sortKey(sorted[i]), sortKey(sorted[j])) < 0
	})
	return &Tree{entries: sorted}
}

// sortKey returns the name used for Git's tree ordering: the entry's
// name, with a trailing '/' appended when the entry is a directory.
// This is what makes a file named "foo" sort before a (nonempty)
// directory also named "foo".
func sortKey(e TreeEntry) []byte {
	if e.Mode == ModeDirectory {
		key := make([]byte, len(e.Name)+1)
		copy(key, e.Name)
		key[len(e.Name)] = '/'
		return key
	}
	return e.Name
}

// Entries returns a copy of the tree's entries: in canonical sorted
// order for a Tree built by NewTree, and in payload order (not
// re-sorted) for a Tree built by ParseTree.
func (t *Tree) Entries() []TreeEntry {
	out := make([]TreeEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Encode serializes the tree to its canonical byte form: each entry as
// "MODE SP NAME NUL OID_RAW(20)" back to back.
func (t *Tree) Encode() []byte {
	buf := new(bytes.Buffer)
	for _, e := range t.entries {
		buf.WriteString(strconv.FormatInt(int64(e.Mode), 10))
		buf.WriteByte(' ')
		buf.Write(e.Name)
		buf.WriteByte(0)
		buf.Write(e.ID.Bytes())
	}
	return buf.Bytes()
}

// ParseTree decodes a tree object's payload into a Tree: mode up to the
// first space, name up to the first NUL, then exactly 20 raw id bytes,
// repeated until the buffer is consumed.
func ParseTree(payload []byte) (*Tree, error) {
	entries := []TreeEntry{}
	offset := 0
	for offset < len(payload) {
		modeTok := readutil.ReadTo(payload[offset:], ' ')
		if modeTok == nil {
			return nil, xerrors.Errorf("could not find mode: %w", ginternals.ErrTreeTruncated)
		}
		mode, err := parseMode(modeTok)
		if err != nil {
			return nil, err
		}
		offset += len(modeTok) + 1

		nameTok := readutil.ReadTo(payload[offset:], 0)
		if nameTok == nil {
			return nil, xerrors.Errorf("could not find name terminator: %w", ginternals.ErrTreeTruncated)
		}
		if len(nameTok) == 0 {
			return nil, ginternals.ErrTreeEmptyName
		}
		if bytes.IndexByte(nameTok, '/') >= 0 {
			return nil, ginternals.ErrTreeNameSlash
		}
		name := make([]byte, len(nameTok))
		copy(name, nameTok)
		offset += len(nameTok) + 1

		if offset+ginternals.OidSize > len(payload) {
			return nil, xerrors.Errorf("not enough bytes for id: %w", ginternals.ErrTreeTruncated)
		}
		id, err := ginternals.NewOidFromBytes(payload[offset : offset+ginternals.OidSize])
		if err != nil {
			return nil, xerrors.Errorf("invalid id: %w", ginternals.ErrTreeTruncated)
		}
		offset += ginternals.OidSize

		entries = append(entries, TreeEntry{Mode: mode, Name: name, ID: id})
	}
	return &Tree{entries: entries}, nil
}

// parseMode parses the ASCII decimal mode text at the front of a tree
// entry. A mode with any non-digit byte is ErrTreeBadMode.
func parseMode(b []byte) (TreeEntryMode, error) {
	if len(b) == 0 {
		return 0, ginternals.ErrTreeBadMode
	}
	n := int32(0)
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, ginternals.ErrTreeBadMode
		}
		n = n*10 + int32(c-'0')
	}
	return TreeEntryMode(n), nil
}
