// Package api exposes the dashboard as a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/chmdznr/dcdn-simulator/internal/dashboard"
	"github.com/chmdznr/dcdn-simulator/internal/notify"
	"github.com/chmdznr/dcdn-simulator/internal/share"
	"github.com/chmdznr/dcdn-simulator/pkg/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server serves the dashboard over HTTP
type Server struct {
	dash *dashboard.Dashboard
	feed *notify.Feed
}

// NewServer creates a server. feed may be nil, in which case the
// notifications endpoint returns an empty list.
func NewServer(dash *dashboard.Dashboard, feed *notify.Feed) *Server {
	return &Server{dash: dash, feed: feed}
}

// Router builds the gin engine with all routes
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/status", s.handleStatus)

	router.POST("/uploads", s.handleStartUpload)
	router.GET("/uploads", s.handleListUploads)
	router.GET("/uploads/:id", s.handleGetUpload)
	router.DELETE("/uploads/:id", s.handleCancelUpload)

	router.GET("/files", s.handleListFiles)
	router.GET("/files/:id", s.handleGetFile)
	router.POST("/files/:id/download", s.handleDownload)
	router.DELETE("/files/:id", s.handleDelete)
	router.GET("/files/:id/link", s.handleLink)
	router.GET("/files/:id/qr", s.handleQR)

	router.GET("/nodes", s.handleNodes)
	router.GET("/nodes/summary", s.handleNodeSummary)
	router.GET("/stats", s.handleStats)
	router.GET("/notifications", s.handleNotifications)

	return router
}

// Run serves on addr until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("API listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleStatus(c *gin.Context) {
	stats := s.dash.Stats()
	c.JSON(http.StatusOK, gin.H{
		"connected":      s.dash.Connected(),
		"files":          stats.TotalFiles,
		"totalDownloads": s.dash.TotalDownloads(),
		"uptime":         s.dash.Uptime().Round(time.Second).String(),
	})
}

func (s *Server) handleStartUpload(c *gin.Context) {
	var file models.FileHandle
	if err := c.ShouldBindJSON(&file); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload request"})
		return
	}

	// The upload outlives the request.
	u, err := s.dash.Upload(context.Background(), file, nil)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, u.Snapshot())
}

func (s *Server) handleListUploads(c *gin.Context) {
	c.JSON(http.StatusOK, s.dash.Uploads())
}

func (s *Server) handleGetUpload(c *gin.Context) {
	snap, ok := s.dash.UploadStatus(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "upload not found"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleCancelUpload(c *gin.Context) {
	if !s.dash.CancelUpload(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "upload not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListFiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"files":          s.dash.Files(),
		"totalDownloads": s.dash.TotalDownloads(),
	})
}

func (s *Server) handleGetFile(c *gin.Context) {
	f, ok := s.dash.File(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": dashboard.ErrFileNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, f)
}

// Download and delete of unknown ids are no-ops, not errors.
func (s *Server) handleDownload(c *gin.Context) {
	f, ok := s.dash.Download(c.Param("id"))
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) handleDelete(c *gin.Context) {
	s.dash.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleLink(c *gin.Context) {
	id := c.Param("id")
	link, err := s.dash.ShareLink(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	downloadURL, _ := s.dash.DownloadURL(id)
	c.JSON(http.StatusOK, gin.H{"link": link, "downloadUrl": downloadURL})
}

func (s *Server) handleQR(c *gin.Context) {
	link, err := s.dash.ShareLink(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(share.DefaultQRSize)))
	if err != nil || size <= 0 || size > share.MaxQRSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("size must be between 1 and %d", share.MaxQRSize)})
		return
	}
	png, err := share.QRPNG(link, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) handleNodes(c *gin.Context) {
	nodes, err := s.dash.Nodes(c.Query("q"))
	if err != nil {
		log.Printf("Failed to list nodes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list nodes"})
		return
	}
	if nodes == nil {
		nodes = []models.PeerNode{}
	}
	c.JSON(http.StatusOK, nodes)
}

func (s *Server) handleNodeSummary(c *gin.Context) {
	summary, err := s.dash.NodeSummary()
	if err != nil {
		log.Printf("Failed to summarize nodes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to summarize nodes"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleStats(c *gin.Context) {
	network, err := s.dash.NetworkStats()
	if err != nil {
		log.Printf("Failed to load network stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load network stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"network":  network,
		"registry": s.dash.Stats(),
	})
}

func (s *Server) handleNotifications(c *gin.Context) {
	if s.feed == nil {
		c.JSON(http.StatusOK, []notify.Notification{})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	c.JSON(http.StatusOK, s.feed.Recent(limit))
}
