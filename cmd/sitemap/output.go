package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// lazyFile creates its file on the first write, so a run that fails before
// rendering leaves any previous output in place.
type lazyFile struct {
	path string
	f    *os.File
}

func newLazyFile(path string) *lazyFile {
	return &lazyFile{path: path}
}

func (l *lazyFile) Write(p []byte) (int, error) {
	if l.f == nil {
		if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
			return 0, fmt.Errorf("create output directory: %w", err)
		}
		f, err := os.Create(l.path)
		if err != nil {
			return 0, fmt.Errorf("create output file: %w", err)
		}
		l.f = f
	}
	return l.f.Write(p)
}

// Close closes the file if it was ever opened.
func (l *lazyFile) Close() error {
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

// openOutput returns stdout for "-" and a lazily created file otherwise. The
// close func is a no-op for stdout.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error) {
	if path == "-" {
		return stdout, func() error { return nil }
	}
	lf := newLazyFile(path)
	return lf, lf.Close
}
