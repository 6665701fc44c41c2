package services

import (
	"context"

	"github.com/cinesub/SubsceneProxy/internal/models"
)

// SubtitleDownloader defines the interface for downloading subtitle files
type SubtitleDownloader interface {
	// DownloadSubtitle fetches the file behind downloadURL. The site wraps most
	// subtitles in a ZIP (occasionally RAR) archive; archives are unpacked and
	// the subtitle file inside is returned. subtitleID names plain downloads
	// that arrive without a filename of their own.
	DownloadSubtitle(ctx context.Context, downloadURL string, subtitleID string) (*models.DownloadResult, error)

	// Close releases the archive cache resources.
	Close() error
}
