// Package logging stores per-run artifacts on disk: one file per failing
// unit, under a directory named after the run ID.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/log"
)

// FileLogger writes unit output under <baseDir>/<runID>/.
type FileLogger struct {
	baseDir string
	runID   string
	log     log.Logger
}

// NewFileLogger creates the run directory eagerly so a bad log path fails
// before any unit executes.
func NewFileLogger(baseDir, runID string, logger log.Logger) (*FileLogger, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("log directory is required")
	}
	if runID == "" {
		return nil, fmt.Errorf("run ID is required")
	}
	dir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %q: %w", dir, err)
	}
	return &FileLogger{baseDir: baseDir, runID: runID, log: logger}, nil
}

// RunDir returns the directory holding this run's artifacts.
func (l *FileLogger) RunDir() string {
	return filepath.Join(l.baseDir, l.runID)
}

// WriteFailure stores the captured output of a failing unit. The label path
// becomes the file name, sanitized for the file system.
func (l *FileLogger) WriteFailure(labelPath, content string) error {
	name := sanitizeFilename(labelPath) + ".log"
	path := filepath.Join(l.RunDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write failure log %q: %w", path, err)
	}
	l.log.Debug("Wrote failure log", "unit", labelPath, "path", path)
	return nil
}

func sanitizeFilename(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
	if mapped == "" {
		return "unit"
	}
	return mapped
}
