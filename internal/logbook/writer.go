package logbook

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/presence.report/internal/fsutil"
	"github.com/banshee-data/presence.report/internal/monitoring"
)

// Writer appends records to the CSV file for the current UTC day and rotates
// to a new file when a record's UTC date advances. Files are append-only and
// never truncated; a freshly created file gets the header first. Writes go
// straight to the file handle so a crash loses at most the in-progress row.
type Writer struct {
	fs   fsutil.FileSystem
	dir  string
	day  string
	path string
	file io.WriteCloser
}

// NewWriter creates a writer rooted at dir, creating the directory if needed.
// No day file is opened until the first Append.
func NewWriter(fs fsutil.FileSystem, dir string) (*Writer, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	return &Writer{fs: fs, dir: dir}, nil
}

// Append writes one record to the file for the record's UTC day, rotating
// first if the day has advanced. Errors here mean the durability guarantee is
// gone and are fatal to the caller.
func (w *Writer) Append(rec Record) error {
	day := rec.Day()
	if day != w.day {
		if err := w.rotate(day); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w.file, rec.CSV()+"\n"); err != nil {
		return fmt.Errorf("failed to append to %s: %w", w.path, err)
	}
	return nil
}

// rotate closes the current day file (if any) and opens the file for day,
// writing the header when the file did not already exist.
func (w *Writer) rotate(day string) error {
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", w.path, err)
		}
	}

	path := filepath.Join(w.dir, day+".csv")
	writeHeader := !w.fs.Exists(path)

	file, err := w.fs.OpenAppend(path)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	if writeHeader {
		if _, err := io.WriteString(file, Header+"\n"); err != nil {
			file.Close()
			return fmt.Errorf("failed to write header to %s: %w", path, err)
		}
	}

	if w.file != nil {
		monitoring.Logf("rotated log to %s", path)
	}

	w.day = day
	w.path = path
	w.file = file
	return nil
}

// Path returns the path of the currently open day file, or "" before the
// first Append.
func (w *Writer) Path() string {
	return w.path
}

// Close closes the current day file. The writer must not be used afterwards.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
