package archive

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

const auditLineEnd = "\r\n"

// AuditEntry links a rewritten duplicate to the record it now refers to.
type AuditEntry struct {
	Duplicate Occurrence
	Original  Occurrence
}

// String formats the entry as one audit log line (without line terminator).
func (e AuditEntry) String() string {
	return fmt.Sprintf("WARC-Record-ID:%s; WARC-Target-URI:%s; WARC-Date:%s duplicate of WARC-Record-ID:%s; WARC-Target-URI:%s; WARC-Date:%s",
		e.Duplicate.RecordID, e.Duplicate.TargetURI, e.Duplicate.Date,
		e.Original.RecordID, e.Original.TargetURI, e.Original.Date)
}

// AuditLog collects one entry per revisit substitution, in discovery order.
type AuditLog struct {
	entries []AuditEntry
}

// Append menambahkan satu entri di akhir log.
func (l *AuditLog) Append(e AuditEntry) { l.entries = append(l.entries, e) }

// Len returns the number of entries.
func (l *AuditLog) Len() int { return len(l.entries) }

// Entries returns a copy of the entries in order.
func (l *AuditLog) Entries() []AuditEntry {
	out := make([]AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// WriteTo writes every entry followed by CRLF.
func (l *AuditLog) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64
	for _, e := range l.entries {
		n, err := bw.WriteString(e.String() + auditLineEnd)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}

// Flush writes the log to path, replacing any existing file. An empty log
// still produces an (empty) file so callers can rely on its presence.
func (l *AuditLog) Flush(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	if _, err := l.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write audit log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close audit log: %w", err)
	}
	return nil
}
