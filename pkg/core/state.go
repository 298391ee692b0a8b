package core

import (
	"errors"
	"time"
)

// ErrRunNotFound is returned when a run ID is not in the history store.
var ErrRunNotFound = errors.New("run not found")

// Store defines the interface for run history operations.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	CreateRun(run *Run) (*Run, error)
	CompleteRun(id string, status RunStatus, points int, errMsg string) error
	GetRun(id string) (*Run, error)
	GetLatestRun() (*Run, error)
	ListRuns(limit int) ([]*Run, error)
}

// RunStatus represents the status of a dataset build.
type RunStatus string

// Run status constants.
const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// Run represents one recorded dataset build.
type Run struct {
	ID          string
	Command     string
	SourcePath  string
	Countries   []string
	MinYear     int
	MaxYear     int
	Status      RunStatus
	Points      int
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Duration returns how long the run took, or zero while it is running.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}
