package client

import (
	"context"

	"github.com/cinesub/SubsceneProxy/internal/apperrors"
	"github.com/cinesub/SubsceneProxy/internal/models"
)

// Download retrieves the subtitle file behind a record. The site serves most
// downloads as ZIP archives; the downloader unpacks those and returns the
// subtitle file inside. The record must come from a detail-page lookup so its
// download URL is populated.
func (c *client) Download(ctx context.Context, subtitle *models.Subtitle) (*models.DownloadResult, error) {
	if subtitle == nil || subtitle.DownloadURL == "" {
		return nil, &apperrors.ParseError{Field: "download link"}
	}

	downloadURL, err := c.resolveURL(subtitle.DownloadURL)
	if err != nil {
		return nil, apperrors.NewTransportError(subtitle.DownloadURL, err)
	}

	return c.downloader.DownloadSubtitle(ctx, downloadURL, subtitle.ID)
}
