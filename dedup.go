package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/luhtfiimanal/go-warc-archive"

var (
	tracer = otel.Tracer(instrumentationName)
	meter  = otel.Meter(instrumentationName)
)

// Job describes one deduplication pass over a single archive file.
type Job struct {
	Input    string // source archive
	Output   string // deduplicated archive to create
	AuditLog string // audit log to create; "" skips it
	Options  Options
}

// Deduplicate reads job.Input, writes the deduplicated archive to job.Output
// and the audit log to job.AuditLog.
//
// A pass is all or nothing: on error the outputs are left incomplete and must
// be discarded by the caller. ctx carries the trace span and metric context; a
// pass is not interrupted once started.
func Deduplicate(ctx context.Context, job Job) (stats Stats, err error) {
	opts := job.Options
	if err := opts.Validate(); err != nil {
		return Stats{}, err
	}
	log := opts.logger().With("input", job.Input, "output", job.Output)

	ctx, span := tracer.Start(ctx, "archive.Deduplicate", trace.WithAttributes(
		attribute.String("warc.input", job.Input),
		attribute.String("warc.output", job.Output),
		attribute.String("warc.index", opts.Index),
	))
	defer func() {
		span.SetAttributes(
			attribute.Int64("warc.records", int64(stats.Records)),
			attribute.Int64("warc.revisited", int64(stats.Revisited)),
			attribute.Int64("warc.trimmed", int64(stats.Trimmed)),
			attribute.Int64("warc.bytes_in", stats.BytesIn),
			attribute.Int64("warc.bytes_out", stats.BytesOut),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		recordPassMetrics(ctx, opts.Index, stats, err != nil)
		span.End()
	}()

	index, err := NewIndex(opts)
	if err != nil {
		return Stats{}, err
	}
	defer index.Close()

	r, err := OpenReader(job.Input)
	if err != nil {
		return Stats{}, err
	}
	defer r.Close()

	w, err := CreateWriter(job.Output, opts)
	if err != nil {
		return Stats{}, err
	}
	closed := false
	defer func() {
		if !closed {
			w.Close()
		}
	}()

	d := NewDeduplicator(index, opts)
	if err := Process(r, w, d, filepath.Base(job.Output)); err != nil {
		log.Error("deduplication failed", "err", err, "record", r.Index(), "offset", r.Offset())
		return d.Stats(), err
	}
	closed = true
	if err := w.Close(); err != nil {
		return d.Stats(), err
	}

	stats = d.Stats()
	stats.BytesIn = r.Offset()
	stats.BytesOut = w.Offset()

	if job.AuditLog != "" {
		if err = d.Audit().Flush(job.AuditLog); err != nil {
			return stats, err
		}
	}

	log.Info("archive deduplicated",
		"records", stats.Records,
		"responses", stats.Responses,
		"revisited", stats.Revisited,
		"trimmed", stats.Trimmed,
		"unindexed", stats.Unindexed,
		"distinct_digests", index.Len(),
		"saved_bytes", stats.SavedBytes)
	return stats, nil
}

// Process runs the record loop of a pass: every record from r goes through d
// and is written to w, in order. A leading warcinfo record is renamed to
// outputName (when not empty) with RewriteInfo. w is flushed but not closed.
func Process(r *Reader, w *Writer, d *Deduplicator, outputName string) error {
	for first := true; ; first = false {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		out, _, err := d.Transform(rec)
		if err != nil {
			return fmt.Errorf("record %d: %w", r.Index()-1, err)
		}
		if first && out.Kind() == KindInfo && outputName != "" {
			out = RewriteInfo(out, outputName)
		}
		if err := w.Write(out); err != nil {
			return err
		}
	}
	return w.Flush()
}

// recordPassMetrics adds the counters of one pass to the global meter
// provider. Without a configured provider this is a no-op.
func recordPassMetrics(ctx context.Context, index string, s Stats, failed bool) {
	attrs := metric.WithAttributes(
		attribute.String("warc.index", index),
		attribute.Bool("warc.failed", failed),
	)
	counters := []struct {
		name, desc, unit string
		value            uint64
	}{
		{"warc.records", "Records read by deduplication passes", "{record}", s.Records},
		{"warc.revisits", "Duplicates rewritten as revisit records", "{record}", s.Revisited},
		{"warc.trimmed", "Duplicates with an empty body trimmed in place", "{record}", s.Trimmed},
		{"warc.saved", "Payload bytes removed from the output", "By", s.SavedBytes},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			continue
		}
		counter.Add(ctx, int64(c.value), attrs)
	}
}
