// Package dashboard owns the state behind the dCDN views: the file registry,
// in-flight simulated uploads, the connection flag and the node catalog.
package dashboard

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chmdznr/dcdn-simulator/internal/notify"
	"github.com/chmdznr/dcdn-simulator/internal/registry"
	"github.com/chmdznr/dcdn-simulator/internal/share"
	"github.com/chmdznr/dcdn-simulator/internal/simulator"
	"github.com/chmdznr/dcdn-simulator/pkg/models"
)

var (
	ErrClosed       = errors.New("dashboard is closed")
	ErrFileNotFound = errors.New("file not found in registry")
)

// maxTrackedUploads bounds how many uploads are remembered for status lookups
const maxTrackedUploads = 256

// Catalog provides the fixed peer node and network datasets
type Catalog interface {
	Nodes(search string) ([]models.PeerNode, error)
	NodeSummary() (*models.NodeSummary, error)
	NetworkStats() (*models.NetworkStats, error)
}

// Options configures a Dashboard
type Options struct {
	NetworkName string
	Linker      share.Linker
	Notifier    notify.Notifier
	// Clipboard copies a share link. Defaults to share.Copy.
	Clipboard func(link string) error
}

// Dashboard is the single owner of the simulated network state
type Dashboard struct {
	registry  *registry.Registry
	sim       *simulator.Simulator
	catalog   Catalog
	notifier  notify.Notifier
	linker    share.Linker
	clipboard func(string) error
	name      string
	startTime time.Time

	connected atomic.Bool

	mu      sync.Mutex
	closed  bool
	uploads map[string]*simulator.Upload
}

// New creates a dashboard over an existing registry, simulator and catalog
func New(reg *registry.Registry, sim *simulator.Simulator, catalog Catalog, opts Options) *Dashboard {
	if opts.NetworkName == "" {
		opts.NetworkName = "dCDN"
	}
	if opts.Linker.BaseURL == "" {
		opts.Linker = share.NewLinker("")
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard
	}
	if opts.Clipboard == nil {
		opts.Clipboard = share.Copy
	}
	return &Dashboard{
		registry:  reg,
		sim:       sim,
		catalog:   catalog,
		notifier:  opts.Notifier,
		linker:    opts.Linker,
		clipboard: opts.Clipboard,
		name:      opts.NetworkName,
		startTime: time.Now(),
		uploads:   make(map[string]*simulator.Upload),
	}
}

// Connect simulates joining the network: after delay the dashboard is marked
// connected and a notification is sent. It returns early if ctx is done.
func (d *Dashboard) Connect(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if !d.connected.Swap(true) {
		notify.Success(d.notifier, "Connected to %s Network", d.name)
	}
	return nil
}

// Connected reports whether Connect has finished
func (d *Dashboard) Connected() bool {
	return d.connected.Load()
}

// Uptime returns how long the dashboard has been running
func (d *Dashboard) Uptime() time.Duration {
	return time.Since(d.startTime)
}

// Upload starts a simulated upload of file. onProgress may be nil. On
// completion the new record is prepended to the registry.
func (d *Dashboard) Upload(ctx context.Context, file models.FileHandle, onProgress func(u *simulator.Upload, progress float64)) (*simulator.Upload, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrClosed
	}

	u := d.sim.Start(ctx, file, simulator.Hooks{
		OnProgress: onProgress,
		OnComplete: func(_ *simulator.Upload, record models.FileRecord) {
			d.registry.Append(record)
			notify.Success(d.notifier, "File \"%s\" uploaded successfully!", record.Name)
		},
	})

	if len(d.uploads) >= maxTrackedUploads {
		d.forgetFinishedLocked()
	}
	d.uploads[u.ID] = u
	return u, nil
}

func (d *Dashboard) forgetFinishedLocked() {
	for id, u := range d.uploads {
		if u.State() != simulator.StateRunning {
			delete(d.uploads, id)
		}
	}
}

// UploadStatus returns the snapshot of a tracked upload
func (d *Dashboard) UploadStatus(id string) (simulator.Snapshot, bool) {
	d.mu.Lock()
	u, ok := d.uploads[id]
	d.mu.Unlock()
	if !ok {
		return simulator.Snapshot{}, false
	}
	return u.Snapshot(), true
}

// Uploads returns snapshots of all tracked uploads, oldest first
func (d *Dashboard) Uploads() []simulator.Snapshot {
	d.mu.Lock()
	snaps := make([]simulator.Snapshot, 0, len(d.uploads))
	for _, u := range d.uploads {
		snaps = append(snaps, u.Snapshot())
	}
	d.mu.Unlock()

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].StartedAt.Before(snaps[j].StartedAt)
	})
	return snaps
}

// CancelUpload stops a running upload and reports whether it was tracked
func (d *Dashboard) CancelUpload(id string) bool {
	d.mu.Lock()
	u, ok := d.uploads[id]
	d.mu.Unlock()
	if ok {
		u.Cancel()
	}
	return ok
}

// Download simulates a download of the file: its counter is incremented.
// Unknown ids are ignored.
func (d *Dashboard) Download(id string) (models.FileRecord, bool) {
	if !d.registry.IncrementDownload(id) {
		return models.FileRecord{}, false
	}
	f, ok := d.registry.Get(id)
	if ok {
		notify.Success(d.notifier, "Downloading %s", f.Name)
	}
	return f, ok
}

// Delete removes the file from the registry. Unknown ids are ignored.
func (d *Dashboard) Delete(id string) bool {
	if !d.registry.Remove(id) {
		return false
	}
	notify.Success(d.notifier, "File deleted successfully")
	return true
}

// File returns a single record
func (d *Dashboard) File(id string) (models.FileRecord, bool) {
	return d.registry.Get(id)
}

// Files returns all records, newest first
func (d *Dashboard) Files() []models.FileRecord {
	return d.registry.List()
}

// TotalDownloads returns the download count summed over all files
func (d *Dashboard) TotalDownloads() int64 {
	return d.registry.AggregateDownloads()
}

// Stats returns registry totals
func (d *Dashboard) Stats() models.Stats {
	return d.registry.Stats()
}

// ShareLink returns the share link of a file
func (d *Dashboard) ShareLink(id string) (string, error) {
	f, ok := d.registry.Get(id)
	if !ok {
		return "", ErrFileNotFound
	}
	return d.linker.Link(f), nil
}

// DownloadURL returns the named download URL of a file
func (d *Dashboard) DownloadURL(id string) (string, error) {
	f, ok := d.registry.Get(id)
	if !ok {
		return "", ErrFileNotFound
	}
	return d.linker.DownloadURL(f), nil
}

// CopyLink copies the share link of a file to the clipboard
func (d *Dashboard) CopyLink(id string) (string, error) {
	link, err := d.ShareLink(id)
	if err != nil {
		return "", err
	}
	if err := d.clipboard(link); err != nil {
		return link, err
	}
	notify.Success(d.notifier, "Download link copied to clipboard")
	return link, nil
}

// Nodes returns peer nodes matching search
func (d *Dashboard) Nodes(search string) ([]models.PeerNode, error) {
	return d.catalog.Nodes(search)
}

// NodeSummary returns aggregates over all peer nodes
func (d *Dashboard) NodeSummary() (*models.NodeSummary, error) {
	return d.catalog.NodeSummary()
}

// NetworkStats returns the network statistics view
func (d *Dashboard) NetworkStats() (*models.NetworkStats, error) {
	return d.catalog.NetworkStats()
}

// Close cancels every running upload and waits for them to stop. Further
// uploads are refused.
func (d *Dashboard) Close() {
	d.mu.Lock()
	d.closed = true
	uploads := make([]*simulator.Upload, 0, len(d.uploads))
	for _, u := range d.uploads {
		uploads = append(uploads, u)
	}
	d.mu.Unlock()

	for _, u := range uploads {
		u.Cancel()
	}
	for _, u := range uploads {
		<-u.Done()
	}
}
