package domain

import (
	"fmt"
	"time"
)

// DownloadTask is one unit of work: fetch Source and store it under Destination.
// Tasks are built once before submission and never mutated.
type DownloadTask struct {
	Source      string
	Destination string
	Index       int // 1-based position in the accepted URL list
}

// NewDownloadTask builds the task for the index-th accepted URL, naming its
// destination with pattern (e.g. "page%d.html").
func NewDownloadTask(source, pattern string, index int) DownloadTask {
	return DownloadTask{
		Source:      source,
		Destination: fmt.Sprintf(pattern, index),
		Index:       index,
	}
}

// State is the terminal state of a task.
type State int

const (
	// StateSucceeded means the page was fetched and committed.
	StateSucceeded State = iota + 1
	// StateExhausted means every attempt failed with a transient error.
	StateExhausted
	// StateAborted means a handle could not be acquired; no retry was made.
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateSucceeded:
		return "succeeded"
	case StateExhausted:
		return "exhausted"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Outcome reports how a task ended.
type Outcome struct {
	Task     DownloadTask
	State    State
	Attempts int
	Bytes    int64
	Err      error
}

// Summary is the batch tally reported after every worker has exited.
type Summary struct {
	Total     int
	Succeeded int
	Exhausted int
	Aborted   int
	Workers   int
	Duration  time.Duration
}

// Add folds one outcome into the tally.
func (s *Summary) Add(o Outcome) {
	s.Total++
	switch o.State {
	case StateSucceeded:
		s.Succeeded++
	case StateExhausted:
		s.Exhausted++
	case StateAborted:
		s.Aborted++
	}
}

// Merge adds another tally's counts into s.
func (s *Summary) Merge(other Summary) {
	s.Total += other.Total
	s.Succeeded += other.Succeeded
	s.Exhausted += other.Exhausted
	s.Aborted += other.Aborted
}
