package models

// DownloadResult represents a fetched and unpacked subtitle file.
type DownloadResult struct {
	Filename    string         // Name of the subtitle file
	Content     []byte         // Content of the subtitle file
	Format      SubtitleFormat // Detected subtitle format
	ContentType string         // MIME type (e.g., "application/x-subrip")
}
