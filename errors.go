package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedHeader: header block tidak bisa diurai menjadi pasangan field:value.
	ErrMalformedHeader = errors.New("malformed record header")
	// ErrTruncatedPayload: Content-Length melebihi sisa byte input.
	ErrTruncatedPayload = errors.New("truncated record payload")
	// ErrUnsupportedVersion is returned for version lines outside the accepted WARC range.
	ErrUnsupportedVersion = errors.New("unsupported WARC version")
	// ErrDigestExists is a caller bug: Insert on a digest that Lookup would have found.
	ErrDigestExists = errors.New("digest already indexed")
	// ErrUnknownIndex is returned for an Options.Index value with no backend.
	ErrUnknownIndex = errors.New("unknown index backend")
)

// CorruptError reports where in an archive decoding failed.
type CorruptError struct {
	Path   string // archive path, empty for bare streams
	Index  int    // zero-based record index
	Offset int64  // consumed input bytes when the failure was detected
	Err    error
}

func (e *CorruptError) Error() string {
	path := e.Path
	if path == "" {
		path = "<stream>"
	}
	return fmt.Sprintf("%s: record %d at offset %d: %v", path, e.Index, e.Offset, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }
