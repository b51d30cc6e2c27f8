package models

// Stats represents registry statistics
type Stats struct {
	TotalFiles     int64 `json:"totalFiles"`
	TotalSize      int64 `json:"totalSize"`
	TotalDownloads int64 `json:"totalDownloads"`
	TotalReplicas  int64 `json:"totalReplicas"`
}

// HeadlineStat is one of the summary cards on the network page
type HeadlineStat struct {
	Title  string  `json:"title"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit,omitempty"`
	Change float64 `json:"change"` // percent, month over month
}

// RegionHealth describes node health for one region
type RegionHealth struct {
	Region string  `json:"region"`
	Nodes  int     `json:"nodes"`
	Uptime float64 `json:"uptime"`
	Usage  float64 `json:"usage"`
}

// Transfer is network throughput over the last 24 hours
type Transfer struct {
	UploadTB        float64 `json:"uploadTB"`
	UploadPercent   float64 `json:"uploadPercent"`
	DownloadTB      float64 `json:"downloadTB"`
	DownloadPercent float64 `json:"downloadPercent"`
}

// StorageUtilization is distributed storage usage across the network
type StorageUtilization struct {
	TotalPB float64 `json:"totalPB"`
	UsedPB  float64 `json:"usedPB"`
}

// UsedPercent returns the used share of total storage, rounded to one decimal
func (s StorageUtilization) UsedPercent() float64 {
	if s.TotalPB == 0 {
		return 0
	}
	return float64(int64(s.UsedPB/s.TotalPB*1000+0.5)) / 10
}

// NetworkStats is everything the network statistics view shows
type NetworkStats struct {
	Headlines []HeadlineStat     `json:"headlines"`
	Regions   []RegionHealth     `json:"regions"`
	Transfer  Transfer           `json:"transfer"`
	Storage   StorageUtilization `json:"storage"`
}
