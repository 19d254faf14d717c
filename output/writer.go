package output

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	DefaultDir  = "generated_tests"
	DefaultFile = "test_generated.py"
)

// Writer persists generated tests to a fixed file
type Writer struct {
	dir  string
	file string
	log  *zap.SugaredLogger
}

// NewWriter creates a writer for dir/file, empty values fall back to the defaults
func NewWriter(log *zap.SugaredLogger, dir, file string) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	if file == "" {
		file = DefaultFile
	}
	// A file name with directories nests below dir
	if sub := filepath.Dir(file); sub != "." {
		dir = filepath.Join(dir, sub)
		file = filepath.Base(file)
	}

	return &Writer{
		dir:  dir,
		file: file,
		log:  log,
	}
}

// Path returns the file the writer writes to
func (w *Writer) Path() string {
	return filepath.Join(w.dir, w.file)
}

// Write stores content verbatim, replacing any previous file. The content goes
// to a temporary file first so a failed write never leaves a truncated file.
func (w *Writer) Write(content string) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", w.dir, err)
	}

	tmp, err := os.CreateTemp(w.dir, "."+w.file+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write generated tests: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write generated tests: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", fmt.Errorf("failed to set permissions on generated tests: %w", err)
	}

	path := w.Path()
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move generated tests to %s: %w", path, err)
	}

	w.log.Infof("Tests written to %s", path)
	return path, nil
}
