package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/chmdznr/dcdn-simulator/internal/api"
	"github.com/chmdznr/dcdn-simulator/internal/config"
	"github.com/chmdznr/dcdn-simulator/internal/dashboard"
	"github.com/chmdznr/dcdn-simulator/internal/db"
	"github.com/chmdznr/dcdn-simulator/internal/notify"
	"github.com/chmdznr/dcdn-simulator/internal/progress"
	"github.com/chmdznr/dcdn-simulator/internal/registry"
	"github.com/chmdznr/dcdn-simulator/internal/share"
	"github.com/chmdznr/dcdn-simulator/internal/simulator"
	"github.com/chmdznr/dcdn-simulator/pkg/models"
	"github.com/chmdznr/dcdn-simulator/pkg/version"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "print the version",
	}

	app := &cli.App{
		Name:                 "dcdn",
		Usage:                "Simulated decentralized content delivery network dashboard",
		Version:              version.Version,
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a config file (yaml, json or toml)",
				EnvVars: []string{"DCDN_CONFIG"},
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "Seed for the simulation random source (0 = time based)",
			},
			&cli.DurationFlag{
				Name:  "tick",
				Usage: "Interval between simulated progress steps",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "Print detailed version information",
				Action: func(c *cli.Context) error {
					fmt.Printf("Version:    %s\n", version.Version)
					fmt.Printf("Git commit: %s\n", version.GitCommit)
					fmt.Printf("Built:      %s\n", version.BuildTime)
					return nil
				},
			},
			{
				Name:      "upload",
				Usage:     "Simulate uploading files to the network",
				ArgsUsage: "[file...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Name of a synthetic file to upload",
					},
					&cli.Int64Flag{
						Name:  "size",
						Usage: "Size in bytes of the synthetic file",
					},
					&cli.BoolFlag{
						Name:  "qr",
						Usage: "Print a QR code of the share link of the newest file",
					},
					&cli.BoolFlag{
						Name:  "copy-link",
						Usage: "Copy the share link of the newest file to the clipboard",
					},
				},
				Action: uploadFiles,
			},
			{
				Name:  "nodes",
				Usage: "List peer nodes",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"q"},
						Usage:   "Filter nodes by location or ID",
					},
				},
				Action: listNodes,
			},
			{
				Name:   "stats",
				Usage:  "Show network statistics",
				Action: showStats,
			},
			{
				Name:  "serve",
				Usage: "Serve the dashboard as a JSON API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
					},
				},
				Action: serve,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads the config file and environment, then applies flags
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("seed") {
		cfg.Simulator.Seed = c.Uint64("seed")
	}
	if c.IsSet("tick") {
		cfg.Simulator.Tick = c.Duration("tick")
	}
	if c.IsSet("addr") {
		cfg.API.ListenAddr = c.String("addr")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newDashboard wires the registry, simulator and catalog together. The
// returned cleanup tears everything down.
func newDashboard(cfg *config.Config, notifier notify.Notifier) (*dashboard.Dashboard, func(), error) {
	catalog, err := db.New(cfg.Catalog.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog: %v", err)
	}

	settings := cfg.SimulatorSettings()
	sim, err := simulator.New(&settings, simulator.NewSource(cfg.Simulator.Seed))
	if err != nil {
		catalog.Close()
		return nil, nil, fmt.Errorf("failed to create simulator: %v", err)
	}

	dash := dashboard.New(registry.New(), sim, catalog, dashboard.Options{
		NetworkName: cfg.Network.Name,
		Linker:      share.NewLinker(cfg.Share.BaseURL),
		Notifier:    notifier,
	})

	cleanup := func() {
		dash.Close()
		catalog.Close()
	}
	return dash, cleanup, nil
}

// fileHandles turns the command arguments into file handles. Only the name
// and size of local files are used, their content is never read.
func fileHandles(c *cli.Context) ([]models.FileHandle, error) {
	var handles []models.FileHandle
	for _, path := range c.Args().Slice() {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %v", path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", path)
		}
		handles = append(handles, models.FileHandle{Name: filepath.Base(path), Size: info.Size()})
	}
	if name := c.String("name"); name != "" {
		handles = append(handles, models.FileHandle{Name: name, Size: c.Int64("size")})
	}
	if len(handles) == 0 {
		return nil, fmt.Errorf("no files to upload: pass file paths or --name")
	}
	return handles, nil
}

// uploadFiles simulates uploading every given file concurrently, then prints
// the resulting file list.
//
// Pressing Esc, q or Ctrl-C cancels the uploads still in flight.
func uploadFiles(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	handles, err := fileHandles(c)
	if err != nil {
		return err
	}

	// Notifications are held back until the progress bars are gone.
	feed := notify.NewFeed(len(handles) + 10)
	dash, cleanup, err := newDashboard(cfg, feed)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	stopKeys := watchCancelKeys(ctx, stop)

	renderer := progress.New(os.Stdout)
	uploads := make([]*simulator.Upload, 0, len(handles))
	for _, h := range handles {
		u, err := dash.Upload(ctx, h, renderer.Update)
		if err != nil {
			return fmt.Errorf("failed to start upload of %s: %v", h.Name, err)
		}
		uploads = append(uploads, u)
	}

	for _, u := range uploads {
		if _, err := u.Wait(context.Background()); err != nil && !errors.Is(err, simulator.ErrCanceled) {
			log.Printf("Upload of %s failed: %v", u.File.Name, err)
		}
		renderer.Done(u)
	}
	stopKeys()
	renderer.Stop()

	notes := newFeedPrinter(feed, os.Stdout)
	notes.flush()
	printFiles(dash.Files(), dash.TotalDownloads())

	files := dash.Files()
	if len(files) == 0 {
		return nil
	}
	newest := files[0]
	link, _ := dash.ShareLink(newest.ID)
	if c.Bool("qr") {
		qr, err := share.QRTerminal(link)
		if err != nil {
			return err
		}
		fmt.Println(qr)
	}
	if c.Bool("copy-link") {
		if _, err := dash.CopyLink(newest.ID); err != nil {
			log.Printf("Could not copy link: %v", err)
		}
		notes.flush()
	}
	return nil
}

func listNodes(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	dash, cleanup, err := newDashboard(cfg, notify.Discard)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := dash.NodeSummary()
	if err != nil {
		return err
	}
	nodes, err := dash.Nodes(c.String("search"))
	if err != nil {
		return err
	}

	printNodeSummary(summary)
	printNodes(nodes)
	return nil
}

func showStats(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	dash, cleanup, err := newDashboard(cfg, notify.Discard)
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := dash.NetworkStats()
	if err != nil {
		return err
	}
	printNetworkStats(stats)
	return nil
}

// serve runs the JSON API until interrupted
func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	feed := notify.NewFeed(100)
	dash, cleanup, err := newDashboard(cfg, notify.Multi{notify.NewConsole(os.Stdout), feed})
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := dash.Connect(ctx, cfg.Network.ConnectDelay); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Connect failed: %v", err)
		}
	}()

	return api.NewServer(dash, feed).Run(ctx, cfg.API.ListenAddr)
}
