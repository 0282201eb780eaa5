package archive

import "fmt"

// Flush memaksa data yang masih di buffer ditulis ke output.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}
	return nil
}

// Close flushes buffered records and, for files opened by CreateWriter,
// syncs (when Options.Sync) and closes the file. The first error wins but the
// file is always closed.
func (w *Writer) Close() error {
	firstErr := w.Flush()
	if w.file == nil {
		return firstErr
	}
	if w.opts.Sync && firstErr == nil {
		if err := syncData(w.file); err != nil {
			firstErr = fmt.Errorf("sync %s: %w", w.path, err)
		}
	}
	if err := w.file.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close %s: %w", w.path, err)
	}
	w.file = nil
	return firstErr
}

// Close menutup file input milik Reader (bila dibuka lewat OpenReader).
func (r *Reader) Close() error {
	r.done = true
	var firstErr error
	if r.gz != nil {
		if err := r.gz.Close(); err != nil {
			firstErr = fmt.Errorf("close gzip stream: %w", err)
		}
	}
	if r.file != nil {
		if err := r.file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s: %w", r.path, err)
		}
		r.file = nil
	}
	return firstErr
}
