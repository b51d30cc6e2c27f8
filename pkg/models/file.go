package models

import "time"

// FileHandle is the file picked for upload. Only its name and size are used.
type FileHandle struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// FileRecord represents one uploaded file held by the network
type FileRecord struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Size          int64     `json:"size"`
	UploadDate    time.Time `json:"uploadDate"`
	DownloadCount int64     `json:"downloadCount"`
	Replicas      int       `json:"replicas"`
}
