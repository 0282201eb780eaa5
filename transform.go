package archive

import (
	"bytes"
	"crypto/sha1"
	"encoding/base32"
	"fmt"
	"log/slog"
)

const (
	// RevisitProfile marks revisits whose payload equals the referenced record's.
	RevisitProfile = "http://netpreserve.org/warc/1.0/revisit/identical-payload-digest"
	// TruncatedLength is the WARC-Truncated reason for a dropped payload.
	TruncatedLength = "length"
)

// Outcome is what Transform did with a record.
type Outcome uint8

const (
	OutcomePassed    Outcome = iota // not a response; untouched
	OutcomeUnindexed                // response without a usable payload digest; untouched
	OutcomeIndexed                  // first occurrence of its digest; untouched
	OutcomeRevisited                // duplicate rewritten into a revisit record
	OutcomeTrimmed                  // duplicate with an empty inner body; payload trimmed, kind kept
)

func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "passed"
	case OutcomeUnindexed:
		return "unindexed"
	case OutcomeIndexed:
		return "indexed"
	case OutcomeRevisited:
		return "revisited"
	case OutcomeTrimmed:
		return "trimmed"
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

// Deduplicator decides the fate of each record of one archive pass. It owns
// the audit log and counters; the index is owned by the caller.
type Deduplicator struct {
	index Index
	audit AuditLog
	stats counters
	opts  Options
	log   *slog.Logger
}

// NewDeduplicator returns a Deduplicator consulting index.
func NewDeduplicator(index Index, opts Options) *Deduplicator {
	return &Deduplicator{index: index, opts: opts, log: opts.logger()}
}

// Audit returns the audit log collected so far.
func (d *Deduplicator) Audit() *AuditLog { return &d.audit }

// Stats returns a snapshot of the counters.
func (d *Deduplicator) Stats() Stats { return d.stats.snapshot() }

// Transform returns the record to write in place of rec. rec itself is never
// modified; rewritten records are fresh copies.
//
// Responses are keyed by the value part of WARC-Payload-Digest. A response
// without a usable digest is passed through unindexed. A duplicate whose
// embedded header declares Content-Length 0 is only trimmed to that header;
// any other duplicate becomes a revisit record referring to the first
// occurrence and gets an audit entry.
func (d *Deduplicator) Transform(rec *Record) (*Record, Outcome, error) {
	out, outcome, err := d.transform(rec)
	if err != nil {
		return nil, outcome, err
	}
	d.stats.observe(rec.Kind(), outcome, len(rec.Payload())-len(out.Payload()))
	return out, outcome, nil
}

func (d *Deduplicator) transform(rec *Record) (*Record, Outcome, error) {
	if rec.Kind() != KindResponse {
		return rec, OutcomePassed, nil
	}

	_, digest, ok := rec.Header.PayloadDigest()
	if !ok {
		d.log.Warn("response without usable payload digest, not indexed",
			"record_id", rec.Header.RecordID(),
			"target_uri", rec.Header.TargetURI(),
			"payload_digest", rec.Header.Value(FieldPayloadDigest))
		return rec, OutcomeUnindexed, nil
	}

	orig, found, err := d.index.Lookup(digest)
	if err != nil {
		return nil, OutcomeIndexed, err
	}
	if !found {
		if err := d.index.Insert(digest, rec.Occurrence()); err != nil {
			return nil, OutcomeIndexed, err
		}
		return rec, OutcomeIndexed, nil
	}

	emb := parseEmbeddedHeader(rec.Payload())
	block := emb.block()
	out := rec.Clone()

	if emb.declaresEmptyBody() {
		if !bytes.Equal(block, rec.Payload()) {
			out.Header.Del(FieldBlockDigest)
		}
		out.SetPayload(block)
		d.log.Debug("duplicate with empty body trimmed",
			"record_id", rec.Header.RecordID(),
			"original_id", orig.RecordID)
		return out, OutcomeTrimmed, nil
	}

	out.SetPayload(block)
	out.Header.Set(FieldType, KindRevisit.String())
	out.Header.Set(FieldRefersTo, orig.RecordID)
	out.Header.Set(FieldRefersToDate, orig.Date)
	out.Header.Set(FieldRefersToTargetURI, orig.TargetURI)
	out.Header.Set(FieldTruncated, TruncatedLength)
	out.Header.Set(FieldProfile, RevisitProfile)
	out.Header.Del(FieldBlockDigest)
	if d.opts.RecomputeBlockDigest {
		out.Header.Set(FieldBlockDigest, BlockDigest(block))
	}

	entry := AuditEntry{Duplicate: rec.Occurrence(), Original: orig}
	d.audit.Append(entry)
	d.log.Debug("duplicate rewritten as revisit",
		"record_id", entry.Duplicate.RecordID,
		"target_uri", entry.Duplicate.TargetURI,
		"original_id", entry.Original.RecordID,
		"unterminated_header", !emb.terminated)
	return out, OutcomeRevisited, nil
}

// RewriteInfo returns a copy of a warcinfo record renamed for the output
// archive. The old block digest no longer describes what will be written and
// is dropped.
func RewriteInfo(rec *Record, filename string) *Record {
	out := rec.Clone()
	out.Header.Set(FieldFilename, filename)
	out.Header.Del(FieldBlockDigest)
	return out
}

// BlockDigest returns a WARC-Block-Digest value ("sha1:" + base32) for block.
func BlockDigest(block []byte) string {
	sum := sha1.Sum(block)
	return "sha1:" + base32.StdEncoding.EncodeToString(sum[:])
}
