// Package db holds the peer node and network statistics catalog in an
// in-memory SQLite database.
package db

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"github.com/chmdznr/dcdn-simulator/pkg/models"
)

// MemoryDSN keeps the catalog in memory, nothing is written to disk
const MemoryDSN = ":memory:"

// DB represents a catalog database connection
type DB struct {
	*sql.DB
}

// New opens the catalog and seeds it with the network datasets
func New(dsn string) (*DB, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	log.Printf("Initializing catalog database: %s", dsn)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is its own database.
	sqlDB.SetMaxOpenConns(1)

	db := &DB{sqlDB}
	if err := db.initialize(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize catalog: %v", err)
	}
	if err := db.seed(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to seed catalog: %v", err)
	}

	return db, nil
}

// initialize creates the necessary tables if they don't exist
func (db *DB) initialize() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			location TEXT,
			status TEXT,
			uptime REAL,
			storage_tb REAL,
			latency_ms INTEGER,
			version TEXT,
			node_type TEXT
		);
		CREATE TABLE IF NOT EXISTS regions (
			position INTEGER PRIMARY KEY,
			region TEXT,
			nodes INTEGER,
			uptime REAL,
			usage REAL
		);
		CREATE TABLE IF NOT EXISTS headlines (
			position INTEGER PRIMARY KEY,
			title TEXT,
			value REAL,
			unit TEXT,
			change REAL
		);
		CREATE TABLE IF NOT EXISTS metrics (
			name TEXT PRIMARY KEY,
			value REAL
		);
		CREATE INDEX IF NOT EXISTS idx_nodes_status ON nodes(status);
	`)
	return err
}

// seed loads the fixed datasets in a single transaction. Existing rows are
// replaced so seeding is idempotent.
func (db *DB) seed() error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO nodes (id, location, status, uptime, storage_tb, latency_ms, version, node_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, n := range seedNodes {
		if _, err = stmt.Exec(n.ID, n.Location, n.Status, n.Uptime, n.StorageTB, n.LatencyMs, n.Version, n.Type); err != nil {
			return err
		}
	}

	for i, r := range seedRegions {
		_, err = tx.Exec(`
			INSERT OR REPLACE INTO regions (position, region, nodes, uptime, usage)
			VALUES (?, ?, ?, ?, ?)
		`, i, r.Region, r.Nodes, r.Uptime, r.Usage)
		if err != nil {
			return err
		}
	}

	for i, h := range seedHeadlines {
		_, err = tx.Exec(`
			INSERT OR REPLACE INTO headlines (position, title, value, unit, change)
			VALUES (?, ?, ?, ?, ?)
		`, i, h.Title, h.Value, h.Unit, h.Change)
		if err != nil {
			return err
		}
	}

	for name, value := range seedMetrics {
		_, err = tx.Exec(`INSERT OR REPLACE INTO metrics (name, value) VALUES (?, ?)`, name, value)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Nodes returns the peer nodes whose id or location contains search,
// ignoring case. An empty search returns every node.
func (db *DB) Nodes(search string) ([]models.PeerNode, error) {
	rows, err := db.Query(`
		SELECT id, location, status, uptime, storage_tb, latency_ms, version, node_type
		FROM nodes
		WHERE ? = ''
			OR instr(lower(location), lower(?)) > 0
			OR instr(lower(id), lower(?)) > 0
		ORDER BY id
	`, search, search, search)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %v", err)
	}
	defer rows.Close()

	var nodes []models.PeerNode
	for rows.Next() {
		var n models.PeerNode
		err = rows.Scan(&n.ID, &n.Location, &n.Status, &n.Uptime, &n.StorageTB, &n.LatencyMs, &n.Version, &n.Type)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// NodeSummary returns online and total node counts, total storage and
// average latency over all nodes
func (db *DB) NodeSummary() (*models.NodeSummary, error) {
	var summary models.NodeSummary
	err := db.QueryRow(`
		SELECT
			COUNT(CASE WHEN status = 'online' THEN 1 END) as online_nodes,
			COUNT(*) as total_nodes,
			COALESCE(SUM(storage_tb), 0) as total_storage,
			COALESCE(AVG(latency_ms), 0) as avg_latency
		FROM nodes
	`).Scan(
		&summary.OnlineNodes,
		&summary.TotalNodes,
		&summary.TotalStorageTB,
		&summary.AvgLatencyMs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get node summary: %v", err)
	}
	return &summary, nil
}

// NetworkStats returns the headline stats, regional health, transfer and
// storage figures
func (db *DB) NetworkStats() (*models.NetworkStats, error) {
	stats := &models.NetworkStats{}

	rows, err := db.Query(`SELECT title, value, unit, change FROM headlines ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query headlines: %v", err)
	}
	for rows.Next() {
		var h models.HeadlineStat
		if err := rows.Scan(&h.Title, &h.Value, &h.Unit, &h.Change); err != nil {
			rows.Close()
			return nil, err
		}
		stats.Headlines = append(stats.Headlines, h)
	}
	rows.Close()

	rows, err = db.Query(`SELECT region, nodes, uptime, usage FROM regions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query regions: %v", err)
	}
	for rows.Next() {
		var r models.RegionHealth
		if err := rows.Scan(&r.Region, &r.Nodes, &r.Uptime, &r.Usage); err != nil {
			rows.Close()
			return nil, err
		}
		stats.Regions = append(stats.Regions, r)
	}
	rows.Close()

	metrics, err := db.metrics()
	if err != nil {
		return nil, err
	}
	stats.Transfer = models.Transfer{
		UploadTB:        metrics[metricUploadTB],
		UploadPercent:   metrics[metricUploadPercent],
		DownloadTB:      metrics[metricDownloadTB],
		DownloadPercent: metrics[metricDownloadPercent],
	}
	stats.Storage = models.StorageUtilization{
		TotalPB: metrics[metricStorageTotalPB],
		UsedPB:  metrics[metricStorageUsedPB],
	}

	return stats, nil
}

func (db *DB) metrics() (map[string]float64, error) {
	rows, err := db.Query(`SELECT name, value FROM metrics`)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %v", err)
	}
	defer rows.Close()

	metrics := make(map[string]float64)
	for rows.Next() {
		var name string
		var value float64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metrics[name] = value
	}
	return metrics, rows.Err()
}
