package share

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/chmdznr/dcdn-simulator/pkg/models"
)

func TestLinks(t *testing.T) {
	tests := []struct {
		name         string
		baseURL      string
		file         models.FileRecord
		wantLink     string
		wantDownload string
	}{
		{
			name:         "default base",
			baseURL:      "",
			file:         models.FileRecord{ID: "abc123", Name: "a.txt"},
			wantLink:     "https://dcdn.network/file/abc123",
			wantDownload: "https://dcdn.network/file/abc123/a.txt",
		},
		{
			name:         "trailing slash trimmed",
			baseURL:      "http://localhost:8080/",
			file:         models.FileRecord{ID: "x", Name: "report.pdf"},
			wantLink:     "http://localhost:8080/file/x",
			wantDownload: "http://localhost:8080/file/x/report.pdf",
		},
		{
			name:         "name with spaces",
			baseURL:      "",
			file:         models.FileRecord{ID: "y", Name: "my file.txt"},
			wantLink:     "https://dcdn.network/file/y",
			wantDownload: "https://dcdn.network/file/y/my%20file.txt",
		},
		{
			name:         "windows separators",
			baseURL:      "",
			file:         models.FileRecord{ID: "z", Name: "dir\\b.txt"},
			wantLink:     "https://dcdn.network/file/z",
			wantDownload: "https://dcdn.network/file/z/dir/b.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLinker(tt.baseURL)
			if got := l.Link(tt.file); got != tt.wantLink {
				t.Errorf("Link() = %q; want %q", got, tt.wantLink)
			}
			if got := l.DownloadURL(tt.file); got != tt.wantDownload {
				t.Errorf("DownloadURL() = %q; want %q", got, tt.wantDownload)
			}
		})
	}
}

func TestQR(t *testing.T) {
	link := "https://dcdn.network/file/abc123"

	png, err := QRPNG(link, 0)
	if err != nil {
		t.Fatalf("QRPNG() error = %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("QRPNG() did not return a PNG")
	}

	text, err := QRTerminal(link)
	if err != nil {
		t.Fatalf("QRTerminal() error = %v", err)
	}
	if strings.Count(text, "\n") < 10 {
		t.Errorf("QRTerminal() output too short: %q", text)
	}
}

func TestQRPNGSizeBounds(t *testing.T) {
	link := "https://dcdn.network/file/abc123"

	tests := []struct {
		size int
		want int
	}{
		{0, DefaultQRSize},
		{-1, DefaultQRSize},
		{300, 300},
		{MaxQRSize, MaxQRSize},
		{100000, MaxQRSize},
	}

	for _, tt := range tests {
		data, err := QRPNG(link, tt.size)
		if err != nil {
			t.Fatalf("QRPNG(%d) error = %v", tt.size, err)
		}
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("QRPNG(%d) returned invalid PNG: %v", tt.size, err)
		}
		if cfg.Width != tt.want || cfg.Height != tt.want {
			t.Errorf("QRPNG(%d) = %dx%d; want %dx%d", tt.size, cfg.Width, cfg.Height, tt.want, tt.want)
		}
	}
}
