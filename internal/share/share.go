// Package share builds share links for file records and renders them as QR
// codes or copies them to the clipboard.
package share

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/chmdznr/dcdn-simulator/pkg/models"
	"github.com/minio/minio-go/v7/pkg/s3utils"
	qrcode "github.com/skip2/go-qrcode"
)

// DefaultBaseURL is the public gateway of the network
const DefaultBaseURL = "https://dcdn.network"

// Linker builds links below a base URL
type Linker struct {
	BaseURL string
}

// NewLinker creates a linker, falling back to DefaultBaseURL
func NewLinker(baseURL string) Linker {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Linker{BaseURL: baseURL}
}

// Link returns the share link of a record: <base>/file/<id>
func (l Linker) Link(f models.FileRecord) string {
	return fmt.Sprintf("%s/file/%s", l.BaseURL, f.ID)
}

// DownloadURL returns the link with the file name appended, percent encoded
// the way object keys are
func (l Linker) DownloadURL(f models.FileRecord) string {
	name := strings.ReplaceAll(f.Name, "\\", "/")
	name = strings.TrimLeft(name, "/")
	return fmt.Sprintf("%s/%s", l.Link(f), s3utils.EncodePath(name))
}

// QRTerminal renders link as a QR code made of block characters
func QRTerminal(link string) (string, error) {
	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %v", err)
	}
	return q.ToSmallString(false), nil
}

// DefaultQRSize and MaxQRSize bound the edge length of QR images in pixels
const (
	DefaultQRSize = 256
	MaxQRSize     = 1024
)

// QRPNG renders link as a PNG image of size x size pixels. Sizes outside
// (0, MaxQRSize] fall back to DefaultQRSize or MaxQRSize.
func QRPNG(link string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	if size > MaxQRSize {
		size = MaxQRSize
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %v", err)
	}
	return png, nil
}

// Copy writes link to the system clipboard
func Copy(link string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not available on this system")
	}
	if err := clipboard.WriteAll(link); err != nil {
		return fmt.Errorf("failed to copy link: %v", err)
	}
	return nil
}
