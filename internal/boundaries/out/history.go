package out

import "io"

// HistoryLog collects a run's log output. Lines go to a temporary file until
// Promote appends them to a project's permanent history log.
type HistoryLog interface {
	io.Writer
	// Path is the file currently written to.
	Path() string
	// Promote appends the temporary log to historyPath, removes the temporary
	// file and continues writing to historyPath.
	Promote(historyPath string) error
	Close() error
}
