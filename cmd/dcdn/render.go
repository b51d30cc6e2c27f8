package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chmdznr/dcdn-simulator/internal/notify"
	"github.com/chmdznr/dcdn-simulator/pkg/models"
	"github.com/chmdznr/dcdn-simulator/pkg/utils"
	"github.com/fatih/color"
)

// feedPrinter prints feed notifications that have not been printed yet
type feedPrinter struct {
	feed    *notify.Feed
	console *notify.Console
	seen    map[string]bool
}

func newFeedPrinter(feed *notify.Feed, w io.Writer) *feedPrinter {
	return &feedPrinter{feed: feed, console: notify.NewConsole(w), seen: make(map[string]bool)}
}

func (p *feedPrinter) flush() {
	items := p.feed.Recent(0)
	for i := len(items) - 1; i >= 0; i-- {
		if p.seen[items[i].ID] {
			continue
		}
		p.seen[items[i].ID] = true
		p.console.Notify(items[i])
	}
}

func printFiles(files []models.FileRecord, totalDownloads int64) {
	if len(files) == 0 {
		fmt.Println("No files uploaded yet")
		return
	}

	fmt.Printf("\nUploaded Files (%d) - %s total downloads\n", len(files), utils.FormatCount(totalDownloads))
	for _, f := range files {
		fmt.Printf("  %s  %s\n", color.New(color.Bold).Sprint(f.Name), f.ID)
		fmt.Printf("    %s | Uploaded %s | %d downloads | %s\n",
			utils.FormatSize(f.Size),
			utils.FormatAge(f.UploadDate),
			f.DownloadCount,
			color.GreenString("%d replicas", f.Replicas),
		)
	}
}

func printNodeSummary(s *models.NodeSummary) {
	fmt.Printf("Active Nodes:  %d/%d\n", s.OnlineNodes, s.TotalNodes)
	fmt.Printf("Total Storage: %.1f TB\n", s.TotalStorageTB)
	fmt.Printf("Avg Latency:   %.0fms\n\n", s.AvgLatencyMs)
}

func printNodes(nodes []models.PeerNode) {
	if len(nodes) == 0 {
		fmt.Println("No nodes match the search")
		return
	}

	fmt.Fprintf(os.Stdout, "%-3s %-9s %-8s %-20s %7s %8s %8s %s\n",
		"", "ID", "TYPE", "LOCATION", "UPTIME", "STORAGE", "LATENCY", "VERSION")
	for _, n := range nodes {
		status := color.GreenString("●")
		if !n.Online() {
			status = color.RedString("●")
		}
		fmt.Fprintf(os.Stdout, "%-3s %-9s %-8s %-20s %6.1f%% %5.1f TB %6dms %s\n",
			status, n.ID, n.Type, n.Location, n.Uptime, n.StorageTB, n.LatencyMs, n.Version)
	}
}

func formatHeadline(h models.HeadlineStat) string {
	switch {
	case h.Unit != "":
		return fmt.Sprintf("%.1f %s", h.Value, h.Unit)
	case h.Value >= 1_000_000:
		return fmt.Sprintf("%.1fM", h.Value/1_000_000)
	default:
		return utils.FormatCount(int64(h.Value))
	}
}

func printNetworkStats(s *models.NetworkStats) {
	for _, h := range s.Headlines {
		fmt.Printf("%-14s %12s  %s from last month\n",
			h.Title, formatHeadline(h), color.GreenString("+%.0f%%", h.Change))
	}

	fmt.Println("\nNetwork Health by Region")
	for _, r := range s.Regions {
		fmt.Printf("  %-14s (%d nodes)  %.1f%% uptime  %.0f%% usage\n", r.Region, r.Nodes, r.Uptime, r.Usage)
	}

	fmt.Println("\nData Transfer (24h)")
	fmt.Printf("  Upload   %.1f TB (%.0f%%)\n", s.Transfer.UploadTB, s.Transfer.UploadPercent)
	fmt.Printf("  Download %.1f TB (%.0f%%)\n", s.Transfer.DownloadTB, s.Transfer.DownloadPercent)

	fmt.Println("\nStorage Utilization")
	fmt.Printf("  Total %.1f PB, used %.1f PB (%.1f%%)\n", s.Storage.TotalPB, s.Storage.UsedPB, s.Storage.UsedPercent())
}
