package db

import (
	"math"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(MemoryDSN)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNodesSearch(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{name: "empty returns all", search: "", want: []string{"node-001", "node-002", "node-003", "node-004", "node-005", "node-006"}},
		{name: "location case insensitive", search: "TOKYO", want: []string{"node-003"}},
		{name: "location substring", search: "us", want: []string{"node-001", "node-004"}},
		{name: "id substring", search: "Node-00", want: []string{"node-001", "node-002", "node-003", "node-004", "node-005", "node-006"}},
		{name: "id exact", search: "node-005", want: []string{"node-005"}},
		{name: "percent is literal", search: "%", want: nil},
		{name: "no match", search: "mars", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := db.Nodes(tt.search)
			if err != nil {
				t.Fatalf("Nodes(%q) error = %v", tt.search, err)
			}
			var got []string
			for _, n := range nodes {
				got = append(got, n.ID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Nodes(%q) = %v; want %v", tt.search, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Nodes(%q) = %v; want %v", tt.search, got, tt.want)
					break
				}
			}
		})
	}
}

func TestNodeSummary(t *testing.T) {
	db := newTestDB(t)

	s, err := db.NodeSummary()
	if err != nil {
		t.Fatalf("NodeSummary() error = %v", err)
	}
	if s.OnlineNodes != 5 || s.TotalNodes != 6 {
		t.Errorf("nodes = %d/%d; want 5/6", s.OnlineNodes, s.TotalNodes)
	}
	if math.Abs(s.TotalStorageTB-13.5) > 1e-9 {
		t.Errorf("TotalStorageTB = %v; want 13.5", s.TotalStorageTB)
	}
	if math.Abs(s.AvgLatencyMs-80.0/6) > 1e-9 {
		t.Errorf("AvgLatencyMs = %v; want %v", s.AvgLatencyMs, 80.0/6)
	}
}

func TestNetworkStats(t *testing.T) {
	db := newTestDB(t)

	stats, err := db.NetworkStats()
	if err != nil {
		t.Fatalf("NetworkStats() error = %v", err)
	}
	if len(stats.Headlines) != 4 || stats.Headlines[0].Title != "Total Nodes" {
		t.Errorf("Headlines = %+v", stats.Headlines)
	}
	if len(stats.Regions) != 5 || stats.Regions[4].Region != "Africa" {
		t.Errorf("Regions = %+v", stats.Regions)
	}
	if stats.Transfer.DownloadTB != 298.7 || stats.Transfer.UploadPercent != 78 {
		t.Errorf("Transfer = %+v", stats.Transfer)
	}
	if got := stats.Storage.UsedPercent(); got != 73.6 {
		t.Errorf("Storage.UsedPercent() = %v; want 73.6", got)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	if err := db.seed(); err != nil {
		t.Fatalf("seed() error = %v", err)
	}
	nodes, err := db.Nodes("")
	if err != nil {
		t.Fatalf("Nodes() error = %v", err)
	}
	if len(nodes) != 6 {
		t.Errorf("len(Nodes()) = %d; want 6", len(nodes))
	}
}
