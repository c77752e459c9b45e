package object

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/minigit-go/minigit/ginternals"
	"github.com/minigit-go/minigit/internal/readutil"
)

// Signature is the author/committer line of a commit: a name, an
// email, and a date. The date is kept as an opaque pass-through string
// (e.g. "1566115917 -0700" or "@0 +0000") rather than parsed into a
// time.Time: it's caller-supplied text that the core never validates or
// reformats.
type Signature struct {
	Name  string
	Email string
	Date  string
}

// String returns the commit-text form of the signature: "NAME <EMAIL> DATE".
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %s", s.Name, s.Email, s.Date)
}

// IsZero returns whether the signature has its zero value.
func (s Signature) IsZero() bool {
	return s.Name == "" && s.Email == "" && s.Date == ""
}

// NewSignatureFromBytes parses a signature of the form:
//
//	User Name <user.email@domain.tld> date-text
//
// The date is taken verbatim as everything following "> ", with no
// further parsing.
func NewSignatureFromBytes(b []byte) (Signature, error) {
	sig := Signature{}

	data := readutil.ReadTo(b, '<')
	if len(data) == 0 {
		return sig, fmt.Errorf("couldn't retrieve the name: %w", ginternals.ErrSignatureInvalid)
	}
	sig.Name = strings.TrimSpace(string(data))
	offset := len(data) + 1 // +1 to skip "<"
	if offset >= len(b) {
		return sig, fmt.Errorf("signature stopped after the name: %w", ginternals.ErrSignatureInvalid)
	}

	data = readutil.ReadTo(b[offset:], '>')
	if data == nil {
		return sig, fmt.Errorf("couldn't retrieve the email: %w", ginternals.ErrSignatureInvalid)
	}
	sig.Email = string(data)
	offset += len(data) + 2 // +2 to skip "> "
	if offset > len(b) {
		return sig, fmt.Errorf("signature stopped after the email: %w", ginternals.ErrSignatureInvalid)
	}

	sig.Date = string(b[offset:])
	return sig, nil
}

// CommitOptions carries the optional fields used when assembling a commit.
type CommitOptions struct {
	// Message is the commit message, already assembled (multiple -m
	// paragraphs joined) by the caller.
	Message string
	// Committer is used as-is when set; NewCommit falls back to the
	// author when it is left as the zero Signature.
	Committer Signature
	ParentIDs []ginternals.Oid
}

// Commit is a parsed or newly-assembled commit object.
type Commit struct {
	rawObject *Object

	author    Signature
	committer Signature
	message   string

	parentIDs []ginternals.Oid
	treeID    ginternals.Oid
}

// NewCommit assembles a new Commit from a tree, an author, and the
// remaining options. Oids are not validated against the object store.
func NewCommit(treeID ginternals.Oid, author Signature, opts *CommitOptions) *Commit {
	c := &Commit{
		treeID:    treeID,
		author:    author,
		committer: opts.Committer,
		message:   opts.Message,
		parentIDs: opts.ParentIDs,
	}
	if c.committer.IsZero() {
		c.committer = author
	}
	c.rawObject = c.ToObject()
	return c
}

// NewCommitFromObject parses a commit object's payload, whose grammar is:
//
//	tree OID
//	parent OID (zero or more, in order)
//	author NAME <EMAIL> DATE
//	committer NAME <EMAIL> DATE
//	(blank line)
//	message
func NewCommitFromObject(o *Object) (*Commit, error) {
	if o.typ != TypeCommit {
		return nil, fmt.Errorf("type %s is not a commit: %w", o.typ, ginternals.ErrObjectInvalid)
	}
	ci := &Commit{rawObject: o}
	offset := 0
	objData := o.Bytes()
	for {
		line := readutil.ReadTo(objData[offset:], '\n')
		offset += len(line) + 1 // +1 to count the \n

		if len(line) == 0 && offset == 1 {
			return nil, fmt.Errorf("could not find commit first line: %w", ginternals.ErrCommitInvalid)
		}

		// An empty line ends the headers; everything else is the message.
		if len(line) == 0 {
			if offset < len(objData) {
				ci.message = string(objData[offset:])
			}
			break
		}

		kv := bytes.SplitN(line, []byte{' '}, 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("malformed commit header %q: %w", line, ginternals.ErrCommitInvalid)
		}
		var err error
		switch string(kv[0]) {
		case "tree":
			ci.treeID, err = ginternals.NewOidFromChars(kv[1])
			if err != nil {
				return nil, fmt.Errorf("could not parse tree id %q: %w", kv[1], err)
			}
		case "parent":
			oid, err := ginternals.NewOidFromChars(kv[1])
			if err != nil {
				return nil, fmt.Errorf("could not parse parent id %q: %w", kv[1], err)
			}
			ci.parentIDs = append(ci.parentIDs, oid)
		case "author":
			ci.author, err = NewSignatureFromBytes(kv[1])
			if err != nil {
				return nil, fmt.Errorf("could not parse author signature %q: %w", kv[1], err)
			}
		case "committer":
			ci.committer, err = NewSignatureFromBytes(kv[1])
			if err != nil {
				return nil, fmt.Errorf("could not parse committer signature %q: %w", kv[1], err)
			}
		}
	}

	if ci.author.IsZero() {
		return nil, fmt.Errorf("commit has no author: %w", ginternals.ErrCommitInvalid)
	}
	if ci.treeID.IsZero() {
		return nil, fmt.Errorf("commit has no tree: %w", ginternals.ErrCommitInvalid)
	}
	return ci, nil
}

// ID returns the commit's Oid.
func (c *Commit) ID() ginternals.Oid {
	return c.rawObject.ID()
}

// Author returns the commit's author signature.
func (c *Commit) Author() Signature {
	return c.author
}

// Committer returns the commit's committer signature.
func (c *Commit) Committer() Signature {
	return c.committer
}

// Message returns the commit's message.
func (c *Commit) Message() string {
	return c.message
}

// ParentIDs returns the commit's parent Oids, in the order they were
// recorded.
func (c *Commit) ParentIDs() []ginternals.Oid {
	out := make([]ginternals.Oid, len(c.parentIDs))
	copy(out, c.parentIDs)
	return out
}

// TreeID returns the Oid of the commit's tree.
func (c *Commit) TreeID() ginternals.Oid {
	return c.treeID
}

// ToObject assembles (or returns the already-parsed) underlying Object.
func (c *Commit) ToObject() *Object {
	if c.rawObject != nil {
		return c.rawObject
	}

	buf := new(bytes.Buffer)
	buf.WriteString("tree ")
	buf.WriteString(c.treeID.String())
	buf.WriteByte('\n')

	for _, p := range c.parentIDs {
		buf.WriteString("parent ")
		buf.WriteString(p.String())
		buf.WriteByte('\n')
	}

	buf.WriteString("author ")
	buf.WriteString(c.author.String())
	buf.WriteByte('\n')

	buf.WriteString("committer ")
	buf.WriteString(c.committer.String())
	buf.WriteByte('\n')

	buf.WriteByte('\n')
	buf.WriteString(c.message)

	return New(TypeCommit, buf.Bytes())
}
