package acquisition

import (
	"context"

	"scribe/internal/project"
)

const unknownValue = "Unknown"

// VideoInfo is the source metadata reported by the downloader.
type VideoInfo struct {
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	Uploader    string  `json:"uploader"`
	VideoID     string  `json:"video_id"`
	URL         string  `json:"url"`
	UploadDate  string  `json:"upload_date"`
	ViewCount   int64   `json:"view_count"`
	Description string  `json:"description"`
}

// withDefaults fills the fields a source may omit.
func (v VideoInfo) withDefaults() VideoInfo {
	if v.Title == "" {
		v.Title = unknownValue
	}
	if v.Uploader == "" {
		v.Uploader = unknownValue
	}
	if v.UploadDate == "" {
		v.UploadDate = unknownValue
	}
	return v
}

// Metadata converts the info into a project metadata record.
func (v VideoInfo) Metadata() project.Metadata {
	return project.Metadata{
		"title":       v.Title,
		"duration":    v.Duration,
		"uploader":    v.Uploader,
		"video_id":    v.VideoID,
		"url":         v.URL,
		"upload_date": v.UploadDate,
		"view_count":  v.ViewCount,
		"description": v.Description,
	}
}

// DownloadRequest asks a Downloader to fetch one audio stream.
//
// OutputTemplate is the destination with %(ext)s standing in for the final
// extension. Quality is the target bitrate in kbps.
type DownloadRequest struct {
	URL            string
	OutputTemplate string
	AudioFormat    string
	Quality        int
}

// Download is what a Downloader produced. Path may be empty when the tool
// does not report the final file name.
type Download struct {
	Path string
	Info VideoInfo
}

// Downloader fetches audio and metadata for a video URL.
type Downloader interface {
	Download(ctx context.Context, req DownloadRequest) (Download, error)
	Info(ctx context.Context, url string) (VideoInfo, error)
}

// Request describes one acquisition.
type Request struct {
	URL         string
	AudioFormat string
	Quality     string
}

// Acquired reports the project created for a download.
type Acquired struct {
	Info      VideoInfo
	Paths     project.Paths
	AudioPath string
	Format    string
}
