package db

import "github.com/chmdznr/dcdn-simulator/pkg/models"

const (
	metricUploadTB        = "transfer_upload_tb"
	metricUploadPercent   = "transfer_upload_percent"
	metricDownloadTB      = "transfer_download_tb"
	metricDownloadPercent = "transfer_download_percent"
	metricStorageTotalPB  = "storage_total_pb"
	metricStorageUsedPB   = "storage_used_pb"
)

var seedNodes = []models.PeerNode{
	{ID: "node-001", Location: "New York, USA", Status: models.NodeOnline, Uptime: 99.8, StorageTB: 2.4, LatencyMs: 12, Version: "1.2.3", Type: "storage"},
	{ID: "node-002", Location: "London, UK", Status: models.NodeOnline, Uptime: 99.6, StorageTB: 1.8, LatencyMs: 8, Version: "1.2.3", Type: "cache"},
	{ID: "node-003", Location: "Tokyo, Japan", Status: models.NodeOnline, Uptime: 99.9, StorageTB: 3.2, LatencyMs: 15, Version: "1.2.2", Type: "storage"},
	{ID: "node-004", Location: "Sydney, Australia", Status: models.NodeOffline, Uptime: 97.2, StorageTB: 1.2, LatencyMs: 28, Version: "1.2.1", Type: "cache"},
	{ID: "node-005", Location: "Frankfurt, Germany", Status: models.NodeOnline, Uptime: 99.4, StorageTB: 2.8, LatencyMs: 6, Version: "1.2.3", Type: "storage"},
	{ID: "node-006", Location: "Singapore", Status: models.NodeOnline, Uptime: 99.7, StorageTB: 2.1, LatencyMs: 11, Version: "1.2.3", Type: "cache"},
}

var seedRegions = []models.RegionHealth{
	{Region: "North America", Nodes: 342, Uptime: 99.8, Usage: 78},
	{Region: "Europe", Nodes: 298, Uptime: 99.6, Usage: 82},
	{Region: "Asia Pacific", Nodes: 387, Uptime: 99.9, Usage: 71},
	{Region: "South America", Nodes: 156, Uptime: 99.4, Usage: 65},
	{Region: "Africa", Nodes: 64, Uptime: 99.2, Usage: 58},
}

var seedHeadlines = []models.HeadlineStat{
	{Title: "Total Nodes", Value: 1247, Change: 12},
	{Title: "Files Stored", Value: 2300000, Change: 8},
	{Title: "Active Users", Value: 45892, Change: 15},
	{Title: "Network Speed", Value: 1.2, Unit: "Gbps", Change: 5},
}

var seedMetrics = map[string]float64{
	metricUploadTB:        142.3,
	metricUploadPercent:   78,
	metricDownloadTB:      298.7,
	metricDownloadPercent: 92,
	metricStorageTotalPB:  847.2,
	metricStorageUsedPB:   623.4,
}
