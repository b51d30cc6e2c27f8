// Package registry holds the file records of the network in memory.
package registry

import (
	"sync"

	"github.com/chmdznr/dcdn-simulator/pkg/models"
)

// Registry is an ordered, newest-first collection of file records.
// All operations are total: unknown ids are silently ignored.
type Registry struct {
	mu    sync.RWMutex
	files []models.FileRecord
}

// New creates an empty registry
func New() *Registry {
	return &Registry{}
}

// Append inserts a record at the head of the registry. A record already
// holding the same id is dropped first.
func (r *Registry) Append(record models.FileRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(record.ID); i >= 0 {
		r.files = append(r.files[:i], r.files[i+1:]...)
	}
	r.files = append([]models.FileRecord{record}, r.files...)
}

// IncrementDownload bumps the download count of the record with the given id.
// It reports whether a record matched.
func (r *Registry) IncrementDownload(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.files[i].DownloadCount++
	return true
}

// Remove deletes the record with the given id and reports whether it existed
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.files = append(r.files[:i], r.files[i+1:]...)
	return true
}

// AggregateDownloads returns the sum of download counts across all records
func (r *Registry) AggregateDownloads() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, f := range r.files {
		total += f.DownloadCount
	}
	return total
}

// Get returns a copy of the record with the given id
func (r *Registry) Get(id string) (models.FileRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.FileRecord{}, false
	}
	return r.files[i], true
}

// List returns a snapshot of all records, newest first
func (r *Registry) List() []models.FileRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	files := make([]models.FileRecord, len(r.files))
	copy(files, r.files)
	return files
}

// Len returns the number of records
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files)
}

// Stats returns totals over the registry
func (r *Registry) Stats() models.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := models.Stats{TotalFiles: int64(len(r.files))}
	for _, f := range r.files {
		stats.TotalSize += f.Size
		stats.TotalDownloads += f.DownloadCount
		stats.TotalReplicas += int64(f.Replicas)
	}
	return stats
}

func (r *Registry) indexOf(id string) int {
	for i := range r.files {
		if r.files[i].ID == id {
			return i
		}
	}
	return -1
}
