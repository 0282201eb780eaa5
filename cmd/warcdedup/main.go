// Command warcdedup rewrites duplicate responses of a WARC archive into
// revisit records.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	archive "github.com/luhtfiimanal/go-warc-archive"
)

const usage = `Usage:
  warcdedup dedup [flags] <input.warc.gz> <output.warc.gz>
  warcdedup inspect <archive>
  warcdedup defaults <options.yaml>
  warcdedup version`

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the entrypoint for testing.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		_, _ = fmt.Fprintln(stderr, usage)
		return 2
	}

	switch args[1] {
	case "dedup":
		return runDedupCmd(args[2:], stdout, stderr)
	case "inspect":
		return runInspectCmd(args[2:], stdout, stderr)
	case "defaults":
		return runDefaultsCmd(args[2:], stdout, stderr)
	case "version":
		_, _ = fmt.Fprintln(stdout, "warcdedup", version)
		return 0
	case "help", "-h", "--help":
		_, _ = fmt.Fprintln(stdout, usage)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n%s\n", args[1], usage)
		return 2
	}
}

// runDedupCmd implements `warcdedup dedup`.
//
// Exit codes:
//
//	0 = archive deduplicated
//	1 = processing error (outputs must be discarded)
//	2 = usage error
func runDedupCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("dedup", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		configPath string
		index      string
		indexDir   string
		auditPath  string
		level      int
		noSync     bool
		recompute  bool
		verbose    bool
	)
	cmd.StringVar(&configPath, "config", "", "YAML options file")
	cmd.StringVar(&index, "index", "", "Digest index backend: memory or sqlite")
	cmd.StringVar(&indexDir, "index-dir", "", "Directory for the sqlite index file")
	cmd.StringVar(&auditPath, "log", "", "Audit log path (default: deduplicate.log next to the output)")
	cmd.IntVar(&level, "level", -100, "Gzip compression level (-1 default, 1..9)")
	cmd.BoolVar(&noSync, "no-sync", false, "Skip fdatasync of the output")
	cmd.BoolVar(&recompute, "block-digest", false, "Recompute WARC-Block-Digest of revisit records")
	cmd.BoolVar(&verbose, "v", false, "Debug logging")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if cmd.NArg() != 2 {
		_, _ = fmt.Fprintln(stderr, "Error: dedup needs <input> and <output>")
		return 2
	}
	input, output := cmd.Arg(0), cmd.Arg(1)

	opts := archive.DefaultOptions()
	if configPath != "" {
		var err error
		if opts, err = archive.LoadOptions(configPath); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
	}
	if index != "" {
		opts.Index = index
	}
	if indexDir != "" {
		opts.IndexDir = indexDir
	}
	if level != -100 {
		opts.CompressionLevel = level
	}
	if noSync {
		opts.Sync = false
	}
	if recompute {
		opts.RecomputeBlockDigest = true
	}
	if err := opts.Validate(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	opts.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	if auditPath == "" {
		auditPath = filepath.Join(filepath.Dir(output), "deduplicate.log")
	}

	stats, err := archive.Deduplicate(context.Background(), archive.Job{
		Input:    input,
		Output:   output,
		AuditLog: auditPath,
		Options:  opts,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		var corrupt *archive.CorruptError
		if errors.As(err, &corrupt) {
			_, _ = fmt.Fprintf(stderr, "  archive: %s\n  record:  %d\n  offset:  %d\n", corrupt.Path, corrupt.Index, corrupt.Offset)
		}
		return 1
	}

	_, _ = fmt.Fprintf(stdout, "%d records, %d revisits, %d trimmed, %d unindexed, %.1f%% duplicates, %d bytes saved\n",
		stats.Records, stats.Revisited, stats.Trimmed, stats.Unindexed, stats.DedupRatio(), stats.SavedBytes)
	return 0
}

// runInspectCmd reads an archive to the end and prints the record count per
// kind.
func runInspectCmd(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		_, _ = fmt.Fprintln(stderr, "Error: inspect needs <archive>")
		return 2
	}
	r, err := archive.OpenReader(args[0])
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer r.Close()

	counts := make(map[archive.Kind]int)
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		counts[rec.Kind()]++
	}

	_, _ = fmt.Fprintf(stdout, "%s: %d records (compressed: %t)\n", args[0], r.Index(), r.Compressed())
	for _, k := range []archive.Kind{archive.KindInfo, archive.KindRequest, archive.KindResponse, archive.KindMetadata, archive.KindRevisit, archive.KindOther} {
		if counts[k] > 0 {
			_, _ = fmt.Fprintf(stdout, "  %-9s %d\n", k, counts[k])
		}
	}
	return 0
}

// runDefaultsCmd writes DefaultOptions as a YAML file to start from.
func runDefaultsCmd(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		_, _ = fmt.Fprintln(stderr, "Error: defaults needs <options.yaml>")
		return 2
	}
	if err := archive.WriteOptions(args[0], archive.DefaultOptions()); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(stdout, "wrote", args[0])
	return 0
}
