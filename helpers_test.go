package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
)

const testDate = "2017-05-01T12:00:00Z"

// httpPayload builds an HTTP response block with a correct inner Content-Length.
func httpPayload(body string) string {
	return fmt.Sprintf("HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: %d\r\n\r\n%s", len(body), body)
}

func infoRecord(filename string) *Record {
	r := &Record{Version: DefaultVersion}
	r.Header.Set(FieldType, "warcinfo")
	r.Header.Set(FieldDate, testDate)
	r.Header.Set(FieldFilename, filename)
	r.Header.Set(FieldRecordID, "<urn:uuid:00000000-0000-0000-0000-000000000000>")
	r.Header.Set(FieldContentType, "application/warc-fields")
	r.Header.Set(FieldBlockDigest, "sha1:INFOBLOCKDIGEST")
	r.SetPayload([]byte("software: Wget/1.14.lua.20160530-955376b\r\nformat: WARC File Format 1.0\r\n"))
	return r
}

func requestRecord(id, uri string) *Record {
	r := &Record{Version: DefaultVersion}
	r.Header.Set(FieldType, "request")
	r.Header.Set(FieldTargetURI, uri)
	r.Header.Set(FieldDate, testDate)
	r.Header.Set(FieldRecordID, id)
	r.Header.Set(FieldContentType, "application/http;msgtype=request")
	r.SetPayload([]byte("GET / HTTP/1.1\r\nHost: example.com\r\n\r\n"))
	return r
}

// responseRecord builds a response whose payload digest is "sha1:<digest>";
// an empty digest leaves the field out.
func responseRecord(id, uri, date, digest, payload string) *Record {
	r := &Record{Version: DefaultVersion}
	r.Header.Set(FieldType, "response")
	r.Header.Set(FieldTargetURI, uri)
	r.Header.Set(FieldDate, date)
	r.Header.Set(FieldRecordID, id)
	r.Header.Set(FieldContentType, "application/http;msgtype=response")
	if digest != "" {
		r.Header.Set(FieldPayloadDigest, "sha1:"+digest)
	}
	r.Header.Set(FieldBlockDigest, "sha1:BLOCK"+digest)
	r.SetPayload([]byte(payload))
	return r
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Sync = false
	return opts
}

// encodeArchive writes recs with a Writer into memory.
func encodeArchive(t testing.TB, recs []*Record, opts Options) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, opts)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	for i, rec := range recs {
		if err := w.Write(rec); err != nil {
			t.Fatalf("write record %d: %v", i, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf.Bytes()
}

// decodeArchive reads every record of data.
func decodeArchive(t testing.TB, data []byte) []*Record {
	t.Helper()
	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	var out []*Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("read record %d: %v", len(out), err)
		}
		out = append(out, rec)
	}
}

// rawRecord returns the uncompressed serialization of rec.
func rawRecord(t testing.TB, rec *Record) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := encodeRecord(&buf, rec); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func writeTestFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
