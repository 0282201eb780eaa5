package archive

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultVersion is the version line written for records built with NewRecord.
const DefaultVersion = "WARC/1.0"

// Kind is the role of a record, derived from its WARC-Type field.
type Kind uint8

const (
	KindOther Kind = iota
	KindInfo
	KindRequest
	KindResponse
	KindMetadata
	KindRevisit
)

var kindNames = map[Kind]string{
	KindInfo:     "warcinfo",
	KindRequest:  "request",
	KindResponse: "response",
	KindMetadata: "metadata",
	KindRevisit:  "revisit",
}

// String returns the WARC-Type value of the kind ("other" for KindOther).
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "other"
}

// ParseKind maps a WARC-Type value to a Kind. Unknown types (resource,
// conversion, continuation, ...) are KindOther.
func ParseKind(warcType string) Kind {
	for k, name := range kindNames {
		if name == warcType {
			return k
		}
	}
	return KindOther
}

// Record is one archive record: version line, header and payload block.
//
// The payload is only reachable through Payload/SetPayload. Content-Length is
// always serialized from the payload length, so the two cannot disagree in
// anything the Writer produces.
type Record struct {
	Version string
	Header  Header
	payload []byte
}

// NewRecord builds a record with a fresh urn:uuid record id and the current
// UTC time as WARC-Date.
func NewRecord(kind Kind, targetURI string, payload []byte) *Record {
	r := &Record{Version: DefaultVersion}
	r.Header.Set(FieldType, kind.String())
	r.Header.Set(FieldRecordID, NewRecordID())
	r.Header.Set(FieldDate, time.Now().UTC().Format(time.RFC3339))
	if targetURI != "" {
		r.Header.Set(FieldTargetURI, targetURI)
	}
	r.SetPayload(payload)
	return r
}

// NewRecordID returns a WARC-Record-ID value in the "<urn:uuid:...>" form.
func NewRecordID() string {
	return "<urn:uuid:" + uuid.NewString() + ">"
}

// Kind returns the record kind.
func (r *Record) Kind() Kind { return ParseKind(r.Header.Type()) }

// Payload returns the payload block. The slice must not be modified.
func (r *Record) Payload() []byte { return r.payload }

// SetPayload replaces the payload and sets Content-Length to match.
func (r *Record) SetPayload(p []byte) {
	r.payload = p
	r.Header.Set(FieldContentLength, strconv.Itoa(len(p)))
}

// ContentLength returns the payload length in bytes.
func (r *Record) ContentLength() int64 { return int64(len(r.payload)) }

// Clone copies the header. Payload bytes are shared since they are never
// modified in place.
func (r *Record) Clone() *Record {
	return &Record{
		Version: r.Version,
		Header:  r.Header.Clone(),
		payload: r.payload,
	}
}

// Occurrence identifies the record a digest was first seen in.
func (r *Record) Occurrence() Occurrence {
	return Occurrence{
		RecordID:  r.Header.RecordID(),
		Date:      r.Header.Date(),
		TargetURI: r.Header.TargetURI(),
	}
}
