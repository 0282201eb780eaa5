package archive

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

const recordTrailer = "\r\n\r\n"

// Writer serializes records in the order they are given. With
// Options.Compress every record is its own gzip member, so the output can be
// read per record the same way the input was.
type Writer struct {
	path   string
	file   *os.File
	w      *bufio.Writer
	gz     *gzip.Writer
	opts   Options
	count  int
	offset int64
}

// CreateWriter creates (or truncates) the archive at path.
func CreateWriter(path string, opts Options) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	w, err := NewWriter(f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.path = path
	w.file = f
	return w, nil
}

// NewWriter writes records to dst. Close flushes but does not close dst.
func NewWriter(dst io.Writer, opts Options) (*Writer, error) {
	w := &Writer{w: bufio.NewWriterSize(dst, 64<<10), opts: opts}
	if opts.Compress {
		gz, err := gzip.NewWriterLevel(io.Discard, opts.CompressionLevel)
		if err != nil {
			return nil, fmt.Errorf("gzip writer: %w", err)
		}
		w.gz = gz
	}
	return w, nil
}

// Write appends one record. The record is encoded completely in memory
// before anything reaches the output, so a failed encode writes nothing.
func (w *Writer) Write(rec *Record) error {
	buf := getBufFromPool()
	defer returnBufToPool(buf)

	if w.gz != nil {
		w.gz.Reset(buf)
		if err := encodeRecord(w.gz, rec); err != nil {
			return fmt.Errorf("encode record %d: %w", w.count, err)
		}
		if err := w.gz.Close(); err != nil {
			return fmt.Errorf("encode record %d: %w", w.count, err)
		}
	} else if err := encodeRecord(buf, rec); err != nil {
		return fmt.Errorf("encode record %d: %w", w.count, err)
	}

	n, err := w.w.Write(buf.Bytes())
	w.offset += int64(n)
	if err != nil {
		return fmt.Errorf("write record %d: %w", w.count, err)
	}
	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int { return w.count }

// Offset returns the bytes handed to the output so far.
func (w *Writer) Offset() int64 { return w.offset }

// encodeRecord writes the uncompressed form of rec. Content-Length is taken
// from the payload, never from the stored header value.
func encodeRecord(dst io.Writer, rec *Record) error {
	version := rec.Version
	if version == "" {
		version = DefaultVersion
	}
	var sb strings.Builder
	sb.WriteString(version)
	sb.WriteString("\r\n")
	for _, f := range rec.Header.fields {
		value := f.Value
		if f.Name == FieldContentLength {
			value = strconv.Itoa(len(rec.payload))
		}
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteString("\r\n")
	}
	sb.WriteString("\r\n")

	if _, err := io.WriteString(dst, sb.String()); err != nil {
		return err
	}
	if _, err := dst.Write(rec.payload); err != nil {
		return err
	}
	_, err := io.WriteString(dst, recordTrailer)
	return err
}
