// Package history implements the run history log adapter.
package history

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileLog writes to a temporary file until it is promoted into a project's
// permanent history log.
type FileLog struct {
	mu       sync.Mutex
	file     *os.File
	path     string
	promoted bool
	runID    string
}

// NewTempLog creates the temporary run log in dir (os.TempDir when empty)
// and writes the run header.
func NewTempLog(dir string) (*FileLog, error) {
	f, err := os.CreateTemp(dir, "senzup-run-*.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary run log: %w", err)
	}

	l := &FileLog{file: f, path: f.Name(), runID: uuid.NewString()}
	if _, err := fmt.Fprintf(f, "=== senzup run %s started %s ===\n", l.runID, time.Now().UTC().Format(time.RFC3339)); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write run log header: %w", err)
	}
	return l, nil
}

// RunID identifies this run in the history log.
func (l *FileLog) RunID() string { return l.runID }

// Path is the file currently written to.
func (l *FileLog) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

func (l *FileLog) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return len(p), nil
	}
	return l.file.Write(p)
}

// Promote appends the temporary log to historyPath and removes the temporary
// file. Later writes go straight to historyPath.
func (l *FileLog) Promote(historyPath string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.promoted {
		if l.path == historyPath {
			return nil
		}
		return fmt.Errorf("run log already promoted to %s", l.path)
	}

	if err := os.MkdirAll(filepath.Dir(historyPath), 0750); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	dst, err := os.OpenFile(historyPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0640)
	if err != nil {
		return fmt.Errorf("failed to open history log: %w", err)
	}

	if _, err := l.file.Seek(0, io.SeekStart); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to rewind run log: %w", err)
	}
	if _, err := io.Copy(dst, l.file); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to append run log to history: %w", err)
	}

	tmpPath := l.path
	_ = l.file.Close()
	if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
		_ = dst.Close()
		return fmt.Errorf("failed to remove temporary run log: %w", err)
	}

	l.file = dst
	l.path = historyPath
	l.promoted = true
	return nil
}

// Close flushes and closes the current file. A run log that was never
// promoted stays on disk so the operator can inspect it.
func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
