package models

// Node statuses
const (
	NodeOnline  = "online"
	NodeOffline = "offline"
)

// PeerNode is a node of the network as shown on the peers page
type PeerNode struct {
	ID        string  `json:"id"`
	Location  string  `json:"location"`
	Status    string  `json:"status"`
	Uptime    float64 `json:"uptime"`
	StorageTB float64 `json:"storageTB"`
	LatencyMs int     `json:"latencyMs"`
	Version   string  `json:"version"`
	Type      string  `json:"type"` // storage or cache
}

// Online reports whether the node is up
func (n PeerNode) Online() bool {
	return n.Status == NodeOnline
}

// NodeSummary aggregates the peer node list
type NodeSummary struct {
	OnlineNodes    int     `json:"onlineNodes"`
	TotalNodes     int     `json:"totalNodes"`
	TotalStorageTB float64 `json:"totalStorageTB"`
	AvgLatencyMs   float64 `json:"avgLatencyMs"`
}
