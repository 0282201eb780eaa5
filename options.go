package archive

import (
	"fmt"
	"log/slog"

	"github.com/klauspost/compress/gzip"
)

// Index backends.
const (
	IndexMemory = "memory"
	IndexSQLite = "sqlite"
)

// Options menyediakan opsi konfigurasi untuk satu proses deduplikasi.
//
//   - Index:                "memory" (default) atau "sqlite" untuk arsip dengan sangat banyak digest unik
//   - IndexDir:             direktori file sementara untuk index sqlite ("" = os.TempDir)
//   - Compress:             tulis setiap record sebagai gzip member terpisah
//   - CompressionLevel:     level gzip (-1 = default, 1..9)
//   - Sync:                 fdatasync file output saat Close
//   - RecomputeBlockDigest: hitung ulang WARC-Block-Digest record revisit, bukan menghapusnya
//
// Lihat DefaultOptions() untuk nilai bawaan.
type Options struct {
	Index                string `yaml:"index"`
	IndexDir             string `yaml:"index_dir"`
	Compress             bool   `yaml:"compress"`
	CompressionLevel     int    `yaml:"compression_level"`
	Sync                 bool   `yaml:"sync"`
	RecomputeBlockDigest bool   `yaml:"recompute_block_digest"`

	// Logger menerima log terstruktur; nil = slog.Default().
	Logger *slog.Logger `yaml:"-"`
}

// DefaultOptions mengembalikan konfigurasi default yang digunakan Deduplicate.
func DefaultOptions() Options {
	return Options{
		Index:            IndexMemory,
		Compress:         true,
		CompressionLevel: gzip.DefaultCompression,
		Sync:             true,
	}
}

// Validate checks values that cannot be defaulted.
func (o Options) Validate() error {
	switch o.Index {
	case IndexMemory, IndexSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownIndex, o.Index)
	}
	if o.CompressionLevel < gzip.HuffmanOnly || o.CompressionLevel > gzip.BestCompression {
		return fmt.Errorf("compression level out of range: %d", o.CompressionLevel)
	}
	return nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
