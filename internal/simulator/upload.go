package simulator

import (
	"context"
	"sync"
	"time"

	"github.com/chmdznr/dcdn-simulator/pkg/models"
)

// State of an upload
type State string

const (
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCanceled  State = "canceled"
)

// Upload is the handle of one simulated upload
type Upload struct {
	ID        string
	File      models.FileHandle
	StartedAt time.Time

	mu       sync.Mutex
	progress float64
	state    State
	record   *models.FileRecord

	cancel context.CancelFunc
	done   chan struct{}
}

// Snapshot is a point-in-time view of an upload
type Snapshot struct {
	ID        string             `json:"id"`
	File      models.FileHandle  `json:"file"`
	StartedAt time.Time          `json:"startedAt"`
	Progress  float64            `json:"progress"`
	State     State              `json:"state"`
	Record    *models.FileRecord `json:"record,omitempty"`
}

// Progress returns the current progress value in [0,100]
func (u *Upload) Progress() float64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.progress
}

// State returns the current state
func (u *Upload) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Snapshot returns the current view of the upload
func (u *Upload) Snapshot() Snapshot {
	u.mu.Lock()
	defer u.mu.Unlock()

	snap := Snapshot{
		ID:        u.ID,
		File:      u.File,
		StartedAt: u.StartedAt,
		Progress:  u.progress,
		State:     u.state,
	}
	if u.record != nil {
		record := *u.record
		snap.Record = &record
	}
	return snap
}

// Cancel stops the upload. It is a no-op once the upload has finished.
func (u *Upload) Cancel() {
	u.cancel()
}

// Done is closed when the upload completes or is canceled
func (u *Upload) Done() <-chan struct{} {
	return u.done
}

// Wait blocks until the upload finishes and returns its record, or
// ErrCanceled if it was canceled.
func (u *Upload) Wait(ctx context.Context) (models.FileRecord, error) {
	select {
	case <-ctx.Done():
		return models.FileRecord{}, ctx.Err()
	case <-u.done:
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.record == nil {
		return models.FileRecord{}, ErrCanceled
	}
	return *u.record, nil
}

func (u *Upload) setProgress(p float64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.progress = p
}

func (u *Upload) finish(state State, record *models.FileRecord) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state = state
	u.record = record
}
