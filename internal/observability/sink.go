package observability

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const logFilePerm = 0o644

// DailySink appends log lines to one file per calendar day under a fixed
// directory. The file name is derived from the process-local clock on every
// write, so the sink rolls over at midnight without coordination. Each Write
// opens the file in append mode, writes, and closes it; a mutex keeps
// concurrent writers from interleaving partial lines.
type DailySink struct {
	mu  sync.Mutex
	dir string
}

// NewDailySink creates the log directory if absent and returns a sink
// writing into it.
func NewDailySink(dir string) (*DailySink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	return &DailySink{dir: dir}, nil
}

// Path returns the file the sink would write to right now.
func (s *DailySink) Path() string {
	return filepath.Join(s.dir, time.Now().Format("2006-01-02")+".log")
}

// Write appends p to today's log file as one atomic append.
func (s *DailySink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFilePerm)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	n, err := f.Write(p)
	if err != nil {
		return n, fmt.Errorf("failed to append log line: %w", err)
	}

	return n, nil
}

// Sync is a no-op: every write already opens, appends, and closes the file.
func (s *DailySink) Sync() error {
	return nil
}
