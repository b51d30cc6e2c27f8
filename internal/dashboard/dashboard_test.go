package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chmdznr/dcdn-simulator/internal/notify"
	"github.com/chmdznr/dcdn-simulator/internal/registry"
	"github.com/chmdznr/dcdn-simulator/internal/share"
	"github.com/chmdznr/dcdn-simulator/internal/simulator"
	"github.com/chmdznr/dcdn-simulator/pkg/models"
)

type stubCatalog struct{}

func (stubCatalog) Nodes(search string) ([]models.PeerNode, error) {
	return []models.PeerNode{{ID: "node-001", Location: search}}, nil
}

func (stubCatalog) NodeSummary() (*models.NodeSummary, error) {
	return &models.NodeSummary{OnlineNodes: 1, TotalNodes: 1}, nil
}

func (stubCatalog) NetworkStats() (*models.NetworkStats, error) {
	return &models.NetworkStats{}, nil
}

type fixture struct {
	dash   *Dashboard
	reg    *registry.Registry
	feed   *notify.Feed
	copied []string
}

func newFixture(t *testing.T, tick time.Duration) *fixture {
	t.Helper()
	cfg := simulator.DefaultConfig()
	cfg.Tick = tick
	sim, err := simulator.New(&cfg, simulator.NewSource(1))
	if err != nil {
		t.Fatalf("simulator.New() error = %v", err)
	}

	f := &fixture{reg: registry.New(), feed: notify.NewFeed(20)}
	f.dash = New(f.reg, sim, stubCatalog{}, Options{
		Linker:   share.NewLinker("https://dcdn.network"),
		Notifier: f.feed,
		Clipboard: func(link string) error {
			f.copied = append(f.copied, link)
			return nil
		},
	})
	t.Cleanup(f.dash.Close)
	return f
}

func (f *fixture) lastMessage() string {
	recent := f.feed.Recent(1)
	if len(recent) == 0 {
		return ""
	}
	return recent[0].Message
}

func TestUploadAddsRecordAtHead(t *testing.T) {
	f := newFixture(t, time.Millisecond)
	f.reg.Append(models.FileRecord{ID: "older", Name: "older.txt"})

	u, err := f.dash.Upload(context.Background(), models.FileHandle{Name: "a.txt", Size: 1024}, nil)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	rec, err := u.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	files := f.dash.Files()
	if len(files) != 2 {
		t.Fatalf("len(Files()) = %d; want 2", len(files))
	}
	head := files[0]
	if head.ID != rec.ID || head.Name != "a.txt" || head.Size != 1024 || head.DownloadCount != 0 {
		t.Errorf("head = %+v", head)
	}
	if head.Replicas < 3 || head.Replicas > 7 {
		t.Errorf("Replicas = %d; want within [3,7]", head.Replicas)
	}
	if got := f.lastMessage(); got != `File "a.txt" uploaded successfully!` {
		t.Errorf("notification = %q", got)
	}

	snap, ok := f.dash.UploadStatus(u.ID)
	if !ok || snap.State != simulator.StateCompleted || snap.Progress != 100 {
		t.Errorf("UploadStatus() = %+v, %v", snap, ok)
	}
}

func TestDownloadAndDelete(t *testing.T) {
	f := newFixture(t, time.Millisecond)
	f.reg.Append(models.FileRecord{ID: "1", Name: "one.txt", Replicas: 4})
	f.reg.Append(models.FileRecord{ID: "2", Name: "two.txt", Replicas: 5})

	rec, ok := f.dash.Download("1")
	if !ok || rec.DownloadCount != 1 || rec.Replicas != 4 {
		t.Errorf("Download(1) = %+v, %v", rec, ok)
	}
	if got := f.lastMessage(); got != "Downloading one.txt" {
		t.Errorf("notification = %q", got)
	}
	f.dash.Download("1")
	f.dash.Download("2")
	if got := f.dash.TotalDownloads(); got != 3 {
		t.Errorf("TotalDownloads() = %d; want 3", got)
	}

	before := len(f.feed.Recent(0))
	if _, ok := f.dash.Download("missing"); ok {
		t.Error("Download(missing) = true; want false")
	}
	if f.dash.Delete("missing") {
		t.Error("Delete(missing) = true; want false")
	}
	if after := len(f.feed.Recent(0)); after != before {
		t.Errorf("no-op actions sent %d notifications", after-before)
	}

	if !f.dash.Delete("1") {
		t.Error("Delete(1) = false; want true")
	}
	files := f.dash.Files()
	if len(files) != 1 || files[0].ID != "2" {
		t.Errorf("Files() = %+v; want only 2", files)
	}
	if got := f.lastMessage(); got != "File deleted successfully" {
		t.Errorf("notification = %q", got)
	}
}

func TestShareLinks(t *testing.T) {
	f := newFixture(t, time.Millisecond)
	f.reg.Append(models.FileRecord{ID: "abc", Name: "my file.txt"})

	link, err := f.dash.ShareLink("abc")
	if err != nil || link != "https://dcdn.network/file/abc" {
		t.Errorf("ShareLink() = %q, %v", link, err)
	}
	if _, err := f.dash.ShareLink("nope"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("ShareLink(nope) error = %v; want ErrFileNotFound", err)
	}

	dl, err := f.dash.DownloadURL("abc")
	if err != nil || dl != "https://dcdn.network/file/abc/my%20file.txt" {
		t.Errorf("DownloadURL() = %q, %v", dl, err)
	}

	if _, err := f.dash.CopyLink("abc"); err != nil {
		t.Fatalf("CopyLink() error = %v", err)
	}
	if len(f.copied) != 1 || f.copied[0] != link {
		t.Errorf("clipboard = %v; want [%s]", f.copied, link)
	}
	if got := f.lastMessage(); got != "Download link copied to clipboard" {
		t.Errorf("notification = %q", got)
	}
}

func TestConnect(t *testing.T) {
	f := newFixture(t, time.Millisecond)
	if f.dash.Connected() {
		t.Fatal("Connected() = true before Connect")
	}

	if err := f.dash.Connect(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if !f.dash.Connected() {
		t.Error("Connected() = false after Connect")
	}
	if got := f.lastMessage(); got != "Connected to dCDN Network" {
		t.Errorf("notification = %q", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := newFixture(t, time.Millisecond)
	if err := g.dash.Connect(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Connect() error = %v; want context.Canceled", err)
	}
	if g.dash.Connected() {
		t.Error("Connected() = true after canceled Connect")
	}
}

func TestCloseCancelsRunningUploads(t *testing.T) {
	f := newFixture(t, time.Hour)

	u, err := f.dash.Upload(context.Background(), models.FileHandle{Name: "slow.bin"}, nil)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	f.dash.Close()

	if u.State() != simulator.StateCanceled {
		t.Errorf("State() = %s; want canceled", u.State())
	}
	if f.reg.Len() != 0 {
		t.Errorf("registry has %d records after teardown", f.reg.Len())
	}
	if _, err := f.dash.Upload(context.Background(), models.FileHandle{Name: "late"}, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Upload() after Close error = %v; want ErrClosed", err)
	}
}

func TestCancelUpload(t *testing.T) {
	f := newFixture(t, time.Hour)

	u, _ := f.dash.Upload(context.Background(), models.FileHandle{Name: "x"}, nil)
	if !f.dash.CancelUpload(u.ID) {
		t.Fatal("CancelUpload() = false; want true")
	}
	if _, err := u.Wait(context.Background()); !errors.Is(err, simulator.ErrCanceled) {
		t.Errorf("Wait() error = %v; want ErrCanceled", err)
	}
	if f.dash.CancelUpload("unknown") {
		t.Error("CancelUpload(unknown) = true; want false")
	}
	if got := f.dash.Uploads(); len(got) != 1 || got[0].State != simulator.StateCanceled {
		t.Errorf("Uploads() = %+v", got)
	}
}

func TestUploadNotificationKeepsNameVerbatim(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a.txt", `File "a.txt" uploaded successfully!`},
		{`my "x".txt`, `File "my "x".txt" uploaded successfully!`},
		{`C:\tmp\b.txt`, `File "C:\tmp\b.txt" uploaded successfully!`},
		{"résumé.pdf", `File "résumé.pdf" uploaded successfully!`},
	}

	for _, tt := range tests {
		f := newFixture(t, time.Millisecond)
		u, err := f.dash.Upload(context.Background(), models.FileHandle{Name: tt.name}, nil)
		if err != nil {
			t.Fatalf("Upload(%q) error = %v", tt.name, err)
		}
		if _, err := u.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
		if got := f.lastMessage(); got != tt.want {
			t.Errorf("notification = %q; want %q", got, tt.want)
		}
	}
}
