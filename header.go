package archive

import "strings"

// Nama field WARC yang dipakai oleh reader, transformer dan writer.
const (
	FieldType              = "WARC-Type"
	FieldRecordID          = "WARC-Record-ID"
	FieldDate              = "WARC-Date"
	FieldTargetURI         = "WARC-Target-URI"
	FieldContentLength     = "Content-Length"
	FieldContentType       = "Content-Type"
	FieldPayloadDigest     = "WARC-Payload-Digest"
	FieldBlockDigest       = "WARC-Block-Digest"
	FieldFilename          = "WARC-Filename"
	FieldRefersTo          = "WARC-Refers-To"
	FieldRefersToDate      = "WARC-Refers-To-Date"
	FieldRefersToTargetURI = "WARC-Refers-To-Target-URI"
	FieldTruncated         = "WARC-Truncated"
	FieldProfile           = "WARC-Profile"
)

// Field is a single "Name: value" header line.
type Field struct {
	Name  string
	Value string
}

// Header menyimpan field-field WARC sesuai urutan aslinya di disk.
//
// Field names are case-sensitive. Fields the core does not know about stay in
// place, so a header that was never modified serializes back to the same
// bytes it was parsed from.
type Header struct {
	fields []Field
}

// NewHeader builds a header from fields in the given order.
func NewHeader(fields ...Field) Header {
	h := Header{fields: make([]Field, 0, len(fields))}
	h.fields = append(h.fields, fields...)
	return h
}

func (h *Header) index(name string) int {
	for i := range h.fields {
		if h.fields[i].Name == name {
			return i
		}
	}
	return -1
}

// Get returns the value of the first field called name.
func (h *Header) Get(name string) (string, bool) {
	if i := h.index(name); i >= 0 {
		return h.fields[i].Value, true
	}
	return "", false
}

// Value is Get without the presence flag.
func (h *Header) Value(name string) string {
	v, _ := h.Get(name)
	return v
}

// Has reports whether the header carries name.
func (h *Header) Has(name string) bool { return h.index(name) >= 0 }

// Set replaces the first field called name, keeping its position, or appends
// a new field at the end.
func (h *Header) Set(name, value string) {
	if i := h.index(name); i >= 0 {
		h.fields[i].Value = value
		return
	}
	h.fields = append(h.fields, Field{Name: name, Value: value})
}

// Add appends a field even if one with the same name already exists.
func (h *Header) Add(name, value string) {
	h.fields = append(h.fields, Field{Name: name, Value: value})
}

// Del removes every field called name.
func (h *Header) Del(name string) {
	kept := h.fields[:0]
	for _, f := range h.fields {
		if f.Name != name {
			kept = append(kept, f)
		}
	}
	h.fields = kept
}

// Len mengembalikan jumlah field.
func (h *Header) Len() int { return len(h.fields) }

// Fields returns a copy of the fields in order.
func (h *Header) Fields() []Field {
	out := make([]Field, len(h.fields))
	copy(out, h.fields)
	return out
}

// Clone returns an independent copy.
func (h *Header) Clone() Header {
	return NewHeader(h.fields...)
}

// Type returns WARC-Type.
func (h *Header) Type() string { return h.Value(FieldType) }

// RecordID returns WARC-Record-ID.
func (h *Header) RecordID() string { return h.Value(FieldRecordID) }

// Date returns WARC-Date.
func (h *Header) Date() string { return h.Value(FieldDate) }

// TargetURI returns WARC-Target-URI.
func (h *Header) TargetURI() string { return h.Value(FieldTargetURI) }

// BlockDigest returns WARC-Block-Digest.
func (h *Header) BlockDigest() string { return h.Value(FieldBlockDigest) }

// Filename returns WARC-Filename.
func (h *Header) Filename() string { return h.Value(FieldFilename) }

// PayloadDigest splits WARC-Payload-Digest ("algorithm:value"). ok is false
// when the field is missing or either part is empty.
func (h *Header) PayloadDigest() (algorithm, value string, ok bool) {
	raw, present := h.Get(FieldPayloadDigest)
	if !present {
		return "", "", false
	}
	algorithm, value, found := strings.Cut(strings.TrimSpace(raw), ":")
	if !found || algorithm == "" || value == "" {
		return "", "", false
	}
	return algorithm, value, true
}
