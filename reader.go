package archive

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// payloadChunk caps the up-front allocation for a payload so that a bogus
// Content-Length on a short stream fails as truncated instead of exhausting
// memory.
const payloadChunk = 1 << 20

// countingReader menghitung byte terkompresi yang sudah dikonsumsi.
//
// It implements io.ByteReader, so the gzip decoder reads through it without
// adding its own buffering and the count is exact at member boundaries.
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

// Reader decodes records one at a time from a WARC stream.
//
// Gzip input is consumed member by member; the stream is exhausted once the
// current member is drained and the consumed input reaches the size given to
// NewReader. Plain (uncompressed) input is read until EOF.
type Reader struct {
	path    string
	file    *os.File
	size    int64
	src     *countingReader
	gz      *gzip.Reader
	body    *bufio.Reader
	decoded int64
	index   int
	done    bool
}

// OpenReader opens the archive at path.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat archive: %w", err)
	}
	adviseSequential(f)

	r, err := NewReader(f, st.Size())
	if err != nil {
		f.Close()
		return nil, &CorruptError{Path: path, Err: err}
	}
	r.path = path
	r.file = f
	return r, nil
}

// NewReader reads records from src. size is the total input size in bytes;
// zero or negative means unknown, in which case gzip input is read until EOF.
func NewReader(src io.Reader, size int64) (*Reader, error) {
	cr := &countingReader{r: bufio.NewReaderSize(src, 64<<10)}
	r := &Reader{size: size, src: cr}

	magic, err := cr.r.Peek(2)
	if err != nil {
		if errors.Is(err, io.EOF) {
			r.done = true
			return r, nil
		}
		return nil, err
	}
	if magic[0] != 0x1f || magic[1] != 0x8b {
		r.body = cr.r
		return r, nil
	}

	gz, err := gzip.NewReader(cr)
	if err != nil {
		return nil, fmt.Errorf("gzip member: %w", err)
	}
	gz.Multistream(false)
	r.gz = gz
	r.body = bufio.NewReaderSize(gz, 64<<10)
	return r, nil
}

// Compressed reports whether the input is gzip.
func (r *Reader) Compressed() bool { return r.gz != nil }

// Offset returns the input bytes consumed so far: compressed bytes for gzip
// input, raw bytes otherwise.
func (r *Reader) Offset() int64 {
	if r.gz != nil {
		return r.src.n
	}
	return r.decoded
}

// Index returns how many records have been returned by Next.
func (r *Reader) Index() int { return r.index }

// Next returns the next record, or io.EOF once the stream is exhausted.
// Any other error is a *CorruptError and the Reader must not be used further.
func (r *Reader) Next() (*Record, error) {
	if err := r.advance(); err != nil {
		return nil, err
	}
	rec, err := r.readRecord()
	if err != nil {
		r.done = true
		return nil, r.corrupt(err)
	}
	r.index++
	return rec, nil
}

// advance skips record separators and moves to the next gzip member when the
// current one is drained.
func (r *Reader) advance() error {
	for !r.done {
		b, err := r.body.Peek(1)
		if err == nil {
			if b[0] == '\r' || b[0] == '\n' {
				r.body.ReadByte()
				r.decoded++
				continue
			}
			return nil
		}
		if !errors.Is(err, io.EOF) {
			r.done = true
			return r.corrupt(err)
		}
		if r.gz == nil || (r.size > 0 && r.src.n >= r.size) {
			r.done = true
			break
		}
		if err := r.gz.Reset(r.src); err != nil {
			r.done = true
			if errors.Is(err, io.EOF) {
				break
			}
			return r.corrupt(fmt.Errorf("gzip member: %w", err))
		}
		r.gz.Multistream(false)
		r.body.Reset(r.gz)
	}
	return io.EOF
}

func (r *Reader) readLine() (string, error) {
	line, err := r.body.ReadString('\n')
	r.decoded += int64(len(line))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: unexpected end of header block", ErrMalformedHeader)
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *Reader) readRecord() (*Record, error) {
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	version, err := parseVersionLine(line)
	if err != nil {
		return nil, err
	}
	rec := &Record{Version: version}

	for {
		line, err := r.readLine()
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		if line[0] == ' ' || line[0] == '\t' {
			n := len(rec.Header.fields)
			if n == 0 {
				return nil, fmt.Errorf("%w: continuation line before any field", ErrMalformedHeader)
			}
			rec.Header.fields[n-1].Value += " " + strings.TrimSpace(line)
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || name == "" || strings.ContainsAny(name, " \t") {
			return nil, fmt.Errorf("%w: %q", ErrMalformedHeader, line)
		}
		rec.Header.Add(name, strings.TrimSpace(value))
	}

	raw, ok := rec.Header.Get(FieldContentLength)
	if !ok {
		return rec, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: Content-Length %q", ErrMalformedHeader, raw)
	}

	var buf bytes.Buffer
	buf.Grow(int(min(n, payloadChunk)))
	copied, err := io.CopyN(&buf, r.body, n)
	r.decoded += copied
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: got %d of %d bytes", ErrTruncatedPayload, copied, n)
		}
		return nil, err
	}
	rec.payload = buf.Bytes()
	return rec, nil
}

func (r *Reader) corrupt(err error) error {
	return &CorruptError{Path: r.path, Index: r.index, Offset: r.Offset(), Err: err}
}
