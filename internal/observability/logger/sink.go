package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Sink is an io.Writer that duplicates every write to a console stream and a
// persisted log file. Writes are serialized so lines from concurrent workers
// never interleave. A failing log file is dropped and the sink carries on with
// the console alone; callers never see the file error.
type Sink struct {
	mu         sync.Mutex
	console    io.Writer
	file       io.WriteCloser
	fileFailed bool
	closed     bool
}

// NewSink creates a sink over console and file. Either may be nil.
func NewSink(console io.Writer, file io.WriteCloser) *Sink {
	return &Sink{console: console, file: file}
}

// OpenFile opens path for appending, creating it if needed.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}

// Write implements io.Writer. It always reports len(p) bytes written.
func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.console != nil {
		_, _ = s.console.Write(p)
	}

	if s.file != nil && !s.fileFailed && !s.closed {
		if _, err := s.file.Write(p); err != nil {
			s.fileFailed = true
			if s.console != nil {
				fmt.Fprintf(s.console, "log file write failed, continuing on console only: %v\n", err)
			}
		}
	}

	return len(p), nil
}

// FileHealthy reports whether writes still reach the log file.
func (s *Sink) FileHealthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file != nil && !s.fileFailed && !s.closed
}

// Close closes the log file. Calling it more than once is a no-op.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.file == nil {
		s.closed = true
		return nil
	}
	s.closed = true
	return s.file.Close()
}
