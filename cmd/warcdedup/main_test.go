package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	archive "github.com/luhtfiimanal/go-warc-archive"
)

func httpResponse(body string) []byte {
	return []byte("HTTP/1.1 200 OK\r\nContent-Length: " + strconv.Itoa(len(body)) + "\r\n\r\n" + body)
}

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "crawl.warc.gz")
	opts := archive.DefaultOptions()
	opts.Sync = false
	w, err := archive.CreateWriter(path, opts)
	if err != nil {
		t.Fatalf("create input: %v", err)
	}

	info := archive.NewRecord(archive.KindInfo, "", []byte("format: WARC File Format 1.0\r\n"))
	info.Header.Set(archive.FieldFilename, "crawl.warc.gz")
	recs := []*archive.Record{info}
	for _, uri := range []string{"http://example.com/a", "http://example.com/b"} {
		rec := archive.NewRecord(archive.KindResponse, uri, httpResponse("same body"))
		rec.Header.Set(archive.FieldPayloadDigest, "sha1:SAMEDIGEST")
		recs = append(recs, rec)
	}
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			t.Fatalf("write input: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close input: %v", err)
	}
	return path
}

func TestRunDedup(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	output := filepath.Join(dir, "crawl-deduplicated.warc.gz")

	var stdout, stderr bytes.Buffer
	code := Run([]string{"warcdedup", "dedup", "-no-sync", input, output}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "3 records, 1 revisits") {
		t.Fatalf("unexpected summary %q", stdout.String())
	}

	logData, err := os.ReadFile(filepath.Join(dir, "deduplicate.log"))
	if err != nil {
		t.Fatalf("default audit log: %v", err)
	}
	if strings.Count(string(logData), "\r\n") != 1 {
		t.Fatalf("expected one audit line, got %q", logData)
	}

	stdout.Reset()
	if code := Run([]string{"warcdedup", "inspect", output}, &stdout, &stderr); code != 0 {
		t.Fatalf("inspect exit %d: %s", code, stderr.String())
	}
	for _, want := range []string{"3 records (compressed: true)", "warcinfo  1", "response  1", "revisit   1"} {
		if !strings.Contains(stdout.String(), want) {
			t.Fatalf("inspect output missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestRunDedupWithConfig(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	config := filepath.Join(dir, "opts.yaml")
	auditLog := filepath.Join(dir, "audit.log")

	var stdout, stderr bytes.Buffer
	if code := Run([]string{"warcdedup", "defaults", config}, &stdout, &stderr); code != 0 {
		t.Fatalf("defaults exit %d: %s", code, stderr.String())
	}

	args := []string{"warcdedup", "dedup", "-config", config, "-index", "sqlite", "-index-dir", dir,
		"-log", auditLog, "-level", "1", "-no-sync", "-block-digest", input, filepath.Join(dir, "out.warc.gz")}
	if code := Run(args, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr.String())
	}
	if _, err := os.Stat(auditLog); err != nil {
		t.Fatalf("audit log: %v", err)
	}
}

func TestRunDedupCorruptInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bad.warc")
	if err := os.WriteFile(input, []byte("WARC/1.0\r\nContent-Length: 100\r\n\r\nshort"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := Run([]string{"warcdedup", "dedup", "-no-sync", input, filepath.Join(dir, "out.warc.gz")}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "archive: "+input) {
		t.Fatalf("stderr does not name the archive:\n%s", stderr.String())
	}
}

func TestRunUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no command", []string{"warcdedup"}, 2},
		{"unknown command", []string{"warcdedup", "compact"}, 2},
		{"dedup missing output", []string{"warcdedup", "dedup", "in.warc.gz"}, 2},
		{"dedup bad flag", []string{"warcdedup", "dedup", "-bogus", "a", "b"}, 2},
		{"dedup bad index", []string{"warcdedup", "dedup", "-index", "redis", "a", "b"}, 2},
		{"dedup missing config", []string{"warcdedup", "dedup", "-config", "/nonexistent.yaml", "a", "b"}, 2},
		{"inspect no args", []string{"warcdedup", "inspect"}, 2},
		{"inspect missing file", []string{"warcdedup", "inspect", "/nonexistent.warc.gz"}, 1},
		{"defaults no args", []string{"warcdedup", "defaults"}, 2},
		{"help", []string{"warcdedup", "help"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := Run(tt.args, &stdout, &stderr); code != tt.code {
				t.Fatalf("exit %d, want %d (stderr: %s)", code, tt.code, stderr.String())
			}
		})
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run([]string{"warcdedup", "version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d", code)
	}
	if got := stdout.String(); got != "warcdedup "+version+"\n" {
		t.Fatalf("version output %q", got)
	}
}
