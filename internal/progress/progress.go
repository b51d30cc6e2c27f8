// Package progress renders simulated upload progress in the terminal.
package progress

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/chmdznr/dcdn-simulator/internal/simulator"
	"github.com/chmdznr/dcdn-simulator/pkg/utils"
	"golang.org/x/term"
)

const barTemplate = `{{string . "name"}} {{string . "size"}} {{bar . }} {{percent . }} {{etime . }}`

// Renderer shows progress of a set of uploads
type Renderer interface {
	// Update is suitable as a simulator progress hook
	Update(u *simulator.Upload, progress float64)
	// Done marks an upload as finished
	Done(u *simulator.Upload)
	// Stop releases the terminal and prints the summary
	Stop()
}

// New returns a progress bar renderer when w is a terminal and a line
// based renderer otherwise.
func New(w io.Writer) Renderer {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return newBarRenderer(w)
	}
	return NewLines(w)
}

// summary tracks totals over all uploads
type summary struct {
	started   int64
	completed int64
	canceled  int64
	size      int64
	startTime time.Time
	seen      map[string]bool
}

func newSummary() *summary {
	return &summary{startTime: time.Now(), seen: make(map[string]bool)}
}

func (s *summary) track(u *simulator.Upload) {
	if s.seen[u.ID] {
		return
	}
	s.seen[u.ID] = true
	s.started++
}

func (s *summary) finish(u *simulator.Upload) {
	s.track(u)
	switch u.State() {
	case simulator.StateCompleted:
		s.completed++
		s.size += u.File.Size
	case simulator.StateCanceled:
		s.canceled++
	}
}

func (s *summary) print(w io.Writer) {
	fmt.Fprintf(w, "Upload finished in %s:\n", utils.FormatDuration(time.Since(s.startTime)))
	fmt.Fprintf(w, "- Uploaded: %d files (%s)\n", s.completed, utils.FormatSize(s.size))
	if s.canceled > 0 {
		fmt.Fprintf(w, "- Canceled: %d files\n", s.canceled)
	}
}

// barRenderer draws one pb bar per upload
type barRenderer struct {
	mu      sync.Mutex
	w       io.Writer
	pool    *pb.Pool
	started bool
	bars    map[string]*pb.ProgressBar
	sum     *summary
}

func newBarRenderer(w io.Writer) *barRenderer {
	return &barRenderer{
		w:    w,
		pool: pb.NewPool(),
		bars: make(map[string]*pb.ProgressBar),
		sum:  newSummary(),
	}
}

func newUploadBar(u *simulator.Upload) *pb.ProgressBar {
	bar := pb.New64(int64(simulator.Complete))
	bar.SetTemplateString(barTemplate)
	bar.Set("name", u.File.Name)
	bar.Set("size", "("+utils.FormatSize(u.File.Size)+")")
	return bar
}

func (r *barRenderer) bar(u *simulator.Upload) *pb.ProgressBar {
	bar, ok := r.bars[u.ID]
	if ok {
		return bar
	}
	bar = newUploadBar(u)
	r.bars[u.ID] = bar
	r.sum.track(u)

	if r.pool != nil {
		r.pool.Add(bar)
		if r.started {
			return bar
		}
		if err := r.pool.Start(); err == nil {
			r.started = true
			return bar
		}
		// Without a pool every bar draws on its own.
		r.pool = nil
	}
	bar.SetWriter(r.w)
	bar.Start()
	return bar
}

func (r *barRenderer) Update(u *simulator.Upload, progress float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bar(u).SetCurrent(int64(math.Round(progress)))
}

func (r *barRenderer) Done(u *simulator.Upload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bar := r.bar(u)
	if u.State() == simulator.StateCanceled {
		bar.Set("name", u.File.Name+" (canceled)")
	}
	r.sum.finish(u)
}

func (r *barRenderer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bar := range r.bars {
		bar.Finish()
	}
	if r.pool != nil && r.started {
		r.pool.Stop()
	}
	r.sum.print(r.w)
}

// Lines prints a line whenever the whole percentage of an upload changes
type Lines struct {
	mu   sync.Mutex
	w    io.Writer
	last map[string]int
	sum  *summary
}

// NewLines creates a line based renderer writing to w
func NewLines(w io.Writer) *Lines {
	return &Lines{w: w, last: make(map[string]int), sum: newSummary()}
}

func (l *Lines) Update(u *simulator.Upload, progress float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sum.track(u)

	pct := int(math.Round(progress))
	if last, ok := l.last[u.ID]; ok && last == pct {
		return
	}
	l.last[u.ID] = pct
	fmt.Fprintf(l.w, "Uploading %s (%s)... %s\n", u.File.Name, utils.FormatSize(u.File.Size), utils.FormatPercent(progress))
}

func (l *Lines) Done(u *simulator.Upload) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if u.State() == simulator.StateCanceled {
		fmt.Fprintf(l.w, "Canceled %s at %s\n", u.File.Name, utils.FormatPercent(u.Progress()))
	}
	l.sum.finish(u)
}

func (l *Lines) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sum.print(l.w)
}
