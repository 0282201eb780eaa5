package archive

import "fmt"

// Occurrence identifies the first record that produced a payload digest.
type Occurrence struct {
	RecordID  string
	Date      string
	TargetURI string
}

// Index maps payload digests to their first occurrence within one archive
// pass. First occurrence wins: an entry is never replaced or removed.
type Index interface {
	// Lookup returns the first occurrence of digest. A missing digest is
	// found == false, not an error.
	Lookup(digest string) (occ Occurrence, found bool, err error)
	// Insert records the first occurrence of digest. Inserting a digest that
	// is already present returns ErrDigestExists.
	Insert(digest string, occ Occurrence) error
	// Len returns the number of distinct digests.
	Len() int
	Close() error
}

// NewIndex membuat backend index sesuai Options.Index.
func NewIndex(opts Options) (Index, error) {
	switch opts.Index {
	case IndexMemory, "":
		return NewMemoryIndex(), nil
	case IndexSQLite:
		return NewSQLiteIndex(opts.IndexDir)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndex, opts.Index)
	}
}

// MemoryIndex is an Index backed by a Go map.
type MemoryIndex struct {
	m map[string]Occurrence
}

// NewMemoryIndex returns an empty MemoryIndex.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{m: make(map[string]Occurrence)}
}

func (x *MemoryIndex) Lookup(digest string) (Occurrence, bool, error) {
	occ, ok := x.m[digest]
	return occ, ok, nil
}

func (x *MemoryIndex) Insert(digest string, occ Occurrence) error {
	if _, ok := x.m[digest]; ok {
		return fmt.Errorf("%w: %s", ErrDigestExists, digest)
	}
	x.m[digest] = occ
	return nil
}

func (x *MemoryIndex) Len() int { return len(x.m) }

// Close drops the entries.
func (x *MemoryIndex) Close() error {
	x.m = nil
	return nil
}
