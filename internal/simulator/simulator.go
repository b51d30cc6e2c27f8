// Package simulator fakes file uploads: it drives a progress value from 0 to
// 100 on a ticker and synthesizes a file record when the upload completes.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/chmdznr/dcdn-simulator/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/xid"
)

// Complete is the progress value of a finished upload
const Complete = 100.0

// ErrCanceled is returned by Wait for an upload stopped before completion
var ErrCanceled = errors.New("upload canceled")

// Source provides the randomness behind progress steps and replica counts.
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// NewSource returns a PCG source. A zero seed picks a time based one.
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Config holds configuration for the simulator
type Config struct {
	Tick        time.Duration
	MaxStep     float64
	MinReplicas int
	MaxReplicas int
}

// DefaultConfig returns default simulator configuration
func DefaultConfig() Config {
	return Config{
		Tick:        200 * time.Millisecond,
		MaxStep:     15,
		MinReplicas: 3,
		MaxReplicas: 7,
	}
}

// Hooks are called from the upload goroutine. Either may be nil.
//
// OnComplete runs before the upload is marked completed: while it runs the
// upload reports progress 100 in StateRunning, and StateCompleted is only
// visible once the hook has returned.
type Hooks struct {
	OnProgress func(u *Upload, progress float64)
	OnComplete func(u *Upload, record models.FileRecord)
}

// Simulator starts simulated uploads
type Simulator struct {
	cfg Config

	mu  sync.Mutex
	rng Source

	now   func() time.Time
	newID func() string
}

// Option customizes a Simulator
type Option func(*Simulator)

// WithClock overrides the clock used for upload dates
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// WithIDs overrides the file record id generator
func WithIDs(newID func() string) Option {
	return func(s *Simulator) { s.newID = newID }
}

// New creates a new simulator. A nil config uses DefaultConfig and a nil
// source uses a time seeded one.
func New(config *Config, rng Source, opts ...Option) (*Simulator, error) {
	if config == nil {
		defaultConfig := DefaultConfig()
		config = &defaultConfig
	}
	if config.Tick <= 0 {
		return nil, fmt.Errorf("invalid tick interval: %v", config.Tick)
	}
	if config.MaxStep <= 0 {
		return nil, fmt.Errorf("invalid max step: %v", config.MaxStep)
	}
	if config.MinReplicas < 1 || config.MaxReplicas < config.MinReplicas {
		return nil, fmt.Errorf("invalid replica range: [%d,%d]", config.MinReplicas, config.MaxReplicas)
	}
	if rng == nil {
		rng = NewSource(0)
	}

	s := &Simulator{
		cfg:   *config,
		rng:   rng,
		now:   time.Now,
		newID: func() string { return xid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the simulator configuration
func (s *Simulator) Config() Config {
	return s.cfg
}

// Advance returns the progress value following current. A step that would
// reach or pass Complete is clamped to exactly Complete.
func (s *Simulator) Advance(current float64) (next float64, done bool) {
	s.mu.Lock()
	step := s.rng.Float64() * s.cfg.MaxStep
	s.mu.Unlock()

	next = current + step
	if next >= Complete {
		return Complete, true
	}
	return next, false
}

// NewRecord synthesizes the record of a finished upload
func (s *Simulator) NewRecord(file models.FileHandle) models.FileRecord {
	s.mu.Lock()
	replicas := s.cfg.MinReplicas + s.rng.IntN(s.cfg.MaxReplicas-s.cfg.MinReplicas+1)
	s.mu.Unlock()

	return models.FileRecord{
		ID:            s.newID(),
		Name:          file.Name,
		Size:          file.Size,
		UploadDate:    s.now(),
		DownloadCount: 0,
		Replicas:      replicas,
	}
}

// Start begins a simulated upload of file. The upload stops when it
// completes, when ctx is done or when Cancel is called.
func (s *Simulator) Start(ctx context.Context, file models.FileHandle, hooks Hooks) *Upload {
	ctx, cancel := context.WithCancel(ctx)
	u := &Upload{
		ID:        uuid.NewString(),
		File:      file,
		StartedAt: s.now(),
		state:     StateRunning,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go s.run(ctx, u, hooks)
	return u
}

func (s *Simulator) run(ctx context.Context, u *Upload, hooks Hooks) {
	defer close(u.done)
	defer u.cancel()

	if hooks.OnProgress != nil {
		hooks.OnProgress(u, 0)
	}

	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			u.finish(StateCanceled, nil)
			return
		case <-ticker.C:
		}

		next, done := s.Advance(u.Progress())
		if !done {
			u.setProgress(next)
			if hooks.OnProgress != nil {
				hooks.OnProgress(u, next)
			}
			continue
		}

		// A cancel racing the final tick wins.
		if ctx.Err() != nil {
			u.finish(StateCanceled, nil)
			return
		}
		record := s.NewRecord(u.File)
		u.setProgress(Complete)
		if hooks.OnProgress != nil {
			hooks.OnProgress(u, Complete)
		}
		if hooks.OnComplete != nil {
			hooks.OnComplete(u, record)
		}
		u.finish(StateCompleted, &record)
		return
	}
}
