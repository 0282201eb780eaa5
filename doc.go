// Package archive reads, deduplicates and rewrites WARC archives.
//
// A pass reads records in order, indexes the payload digest of every
// response, and rewrites later responses with an already seen digest into
// revisit records that refer to the first occurrence. Everything else is
// copied through unchanged, and every substitution is recorded in an audit
// log.
//
// The library is organised into several files for clarity:
//
//	header.go       – ordered header fields & typed accessors
//	record.go       – record model, kinds, NewRecord
//	reader.go       – streaming reader over gzip members or plain WARC
//	writer.go       – record encoder, one gzip member per record
//	index.go        – digest index interface & in-memory backend
//	index_sqlite.go – temporary SQLite backed index
//	embedded.go     – embedded (HTTP) header block parsing
//	transform.go    – duplicate → revisit decision & rewrite
//	audit.go        – audit log of substitutions
//	dedup.go        – one-call pass driver (Deduplicate, Process)
//	options.go      – configuration struct & defaults
//	config.go       – YAML options file
//	stats.go        – pass counters
//	flush_close.go  – flush & close helpers
//
// Minimal use:
//
//	stats, err := archive.Deduplicate(ctx, archive.Job{
//		Input:    "crawl.warc.gz",
//		Output:   "crawl-deduplicated.warc.gz",
//		AuditLog: "deduplicate.log",
//		Options:  archive.DefaultOptions(),
//	})
package archive
