package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nwaples/rardecode/v2"

	"github.com/cinesub/SubsceneProxy/internal/apperrors"
	"github.com/cinesub/SubsceneProxy/internal/cache"
	"github.com/cinesub/SubsceneProxy/internal/config"
	"github.com/cinesub/SubsceneProxy/internal/metrics"
	"github.com/cinesub/SubsceneProxy/internal/models"
)

const (
	defaultArchiveCacheSize = 2000
	defaultArchiveCacheTTL  = 24 * time.Hour
	archiveCacheGroup       = "archive"
)

var (
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
	rarMagic = []byte("Rar!\x1a\x07")
)

// DefaultSubtitleDownloader implements SubtitleDownloader with archive caching
type DefaultSubtitleDownloader struct {
	httpClient   *http.Client
	archiveCache cache.Cache
}

// NewSubtitleDownloader creates a subtitle downloader backed by the configured
// cache provider. Archive bytes are cached by download URL so repeated pulls
// of the same release skip the site entirely.
func NewSubtitleDownloader(httpClient *http.Client) SubtitleDownloader {
	return &DefaultSubtitleDownloader{
		httpClient:   httpClient,
		archiveCache: newArchiveCache(config.GetConfig()),
	}
}

// newArchiveCache builds the archive cache from config, falling back to the
// in-memory provider when the configured one cannot be reached.
func newArchiveCache(cfg *config.Config) cache.Cache {
	logger := config.GetLogger()
	size, ttl := resolveCacheConfig(cfg)

	provider := "memory"
	providerCfg := cache.ProviderConfig{
		Size:   size,
		TTL:    ttl,
		Logger: cacheLogger{},
		Group:  archiveCacheGroup,
	}
	if cfg != nil && cfg.Cache.Provider != "" {
		provider = cfg.Cache.Provider
		providerCfg.RedisAddress = cfg.Cache.RedisAddress
		providerCfg.RedisPassword = cfg.Cache.RedisPassword
		providerCfg.RedisDB = cfg.Cache.RedisDB
	}

	archiveCache, err := cache.New(provider, providerCfg)
	if err != nil {
		logger.Warn().Err(err).Str("provider", provider).Msg("Cache provider unavailable, falling back to in-memory cache")
		archiveCache, err = cache.New("memory", providerCfg)
		if err != nil {
			// The memory provider only fails on programmer error.
			logger.Fatal().Err(err).Msg("Failed to create in-memory cache")
		}
	}
	return archiveCache
}

// resolveCacheConfig returns the archive cache size and TTL, falling back to
// defaults when the config is missing or invalid.
func resolveCacheConfig(cfg *config.Config) (int, time.Duration) {
	size := defaultArchiveCacheSize
	ttl := defaultArchiveCacheTTL

	if cfg == nil {
		return size, ttl
	}
	if cfg.Cache.Size > 0 {
		size = cfg.Cache.Size
	}
	if cfg.Cache.TTL != "" {
		if parsed, err := time.ParseDuration(cfg.Cache.TTL); err == nil {
			ttl = parsed
		} else {
			config.GetLogger().Warn().Err(err).Str("ttl", cfg.Cache.TTL).Msg("Invalid cache TTL, using default 24h")
		}
	}
	return size, ttl
}

// cacheLogger forwards cache backend errors to the application logger.
type cacheLogger struct{}

func (cacheLogger) Error(msg string, err error) {
	config.GetLogger().Error().Err(err).Msg(msg)
}

// DownloadSubtitle downloads a subtitle file, unpacking ZIP and RAR archives
func (d *DefaultSubtitleDownloader) DownloadSubtitle(ctx context.Context, downloadURL string, subtitleID string) (*models.DownloadResult, error) {
	logger := config.GetLogger()
	logger.Info().
		Str("url", downloadURL).
		Str("subtitleID", subtitleID).
		Msg("Downloading subtitle")

	content, contentType, err := d.downloadFile(ctx, downloadURL)
	if err != nil {
		metrics.SubtitleDownloadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	result, err := buildResult(content, contentType, subtitleID)
	if err != nil {
		metrics.SubtitleDownloadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.SubtitleDownloadsTotal.WithLabelValues("success").Inc()
	logger.Info().
		Str("filename", result.Filename).
		Str("contentType", result.ContentType).
		Int("size", len(result.Content)).
		Msg("Subtitle download completed")

	return result, nil
}

// Close releases the archive cache resources.
func (d *DefaultSubtitleDownloader) Close() error {
	return d.archiveCache.Close()
}

// downloadFile retrieves the file behind the URL, serving archives from cache
// when possible.
func (d *DefaultSubtitleDownloader) downloadFile(ctx context.Context, url string) ([]byte, string, error) {
	logger := config.GetLogger()

	if cached, found := d.archiveCache.Get(url); found {
		logger.Debug().
			Str("url", url).
			Int("size", len(cached)).
			Msg("Serving archive from cache")
		return cached, archiveContentType(cached), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", apperrors.NewTransportError(url, err)
	}
	req.Header.Set("User-Agent", config.GetUserAgent())

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, "", apperrors.NewTransportError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", apperrors.NewHTTPError(resp.StatusCode, resp.Status, url)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", apperrors.NewTransportError(url, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Cache archive payloads only
	if bytes.HasPrefix(content, zipMagic) || bytes.HasPrefix(content, rarMagic) {
		d.archiveCache.Set(url, content)
		logger.Debug().
			Str("url", url).
			Int("size", len(content)).
			Msg("Cached archive")
	}

	return content, contentType, nil
}

// buildResult unpacks archives and wraps plain bodies into a DownloadResult.
// The payload's own magic bytes decide the handling, not the Content-Type
// header, which the site gets wrong often enough.
func buildResult(content []byte, contentType, subtitleID string) (*models.DownloadResult, error) {
	logger := config.GetLogger()

	switch {
	case bytes.HasPrefix(content, zipMagic):
		logger.Debug().Int("size", len(content)).Msg("Extracting subtitle from ZIP archive")
		return extractFromZip(content)
	case bytes.HasPrefix(content, rarMagic):
		logger.Debug().Int("size", len(content)).Msg("Extracting subtitle from RAR archive")
		return extractFromRar(content)
	default:
		filename := subtitleID + extensionForContentType(contentType)
		return &models.DownloadResult{
			Filename:    filename,
			Content:     content,
			Format:      models.ParseSubtitleFormat(filename),
			ContentType: contentType,
		}, nil
	}
}

// extractFromZip returns the first subtitle file found in the ZIP archive.
func extractFromZip(zipContent []byte) (*models.DownloadResult, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(zipContent), int64(len(zipContent)))
	if err != nil {
		return nil, fmt.Errorf("failed to open ZIP archive: %w", err)
	}

	logger := config.GetLogger()
	fileCount := 0
	for _, file := range zipReader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		fileCount++

		filename := sanitizeFilename(filepath.Base(file.Name))
		format := models.ParseSubtitleFormat(filename)

		logger.Debug().
			Str("filename", filename).
			Str("format", format.String()).
			Msg("Checking file in ZIP")

		if format == models.FormatUnknown {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file %s in ZIP: %w", file.Name, err)
		}

		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s from ZIP: %w", file.Name, err)
		}

		return &models.DownloadResult{
			Filename:    filename,
			Content:     content,
			Format:      format,
			ContentType: format.ContentType(),
		}, nil
	}

	return nil, &apperrors.ErrSubtitleNotFoundInArchive{FileCount: fileCount}
}

// extractFromRar returns the first subtitle file found in the RAR archive.
func extractFromRar(rarContent []byte) (*models.DownloadResult, error) {
	rarReader, err := rardecode.NewReader(bytes.NewReader(rarContent))
	if err != nil {
		return nil, fmt.Errorf("failed to open RAR archive: %w", err)
	}

	logger := config.GetLogger()
	fileCount := 0
	for {
		header, err := rarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read RAR archive: %w", err)
		}
		if header.IsDir {
			continue
		}
		fileCount++

		filename := sanitizeFilename(filepath.Base(header.Name))
		format := models.ParseSubtitleFormat(filename)

		logger.Debug().
			Str("filename", filename).
			Str("format", format.String()).
			Msg("Checking file in RAR")

		if format == models.FormatUnknown {
			continue
		}

		content, err := io.ReadAll(rarReader)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s from RAR: %w", header.Name, err)
		}

		return &models.DownloadResult{
			Filename:    filename,
			Content:     content,
			Format:      format,
			ContentType: format.ContentType(),
		}, nil
	}

	return nil, &apperrors.ErrSubtitleNotFoundInArchive{FileCount: fileCount}
}

// sanitizeFilename replaces invalid UTF-8 bytes in archive entry names, which
// archives built with legacy encodings produce.
func sanitizeFilename(name string) string {
	if utf8.ValidString(name) {
		return name
	}
	return strings.ToValidUTF8(name, string(utf8.RuneError))
}

// extensionForContentType derives a file extension from the response MIME
// type. The site serves plain subtitle bodies mostly as SubRip, so that is
// the fallback.
func extensionForContentType(contentType string) string {
	ct := strings.ToLower(contentType)

	switch {
	case strings.Contains(ct, "x-subrip") || strings.Contains(ct, "srt"):
		return ".srt"
	case strings.Contains(ct, "ssa"):
		return ".ssa"
	case strings.Contains(ct, "ass"):
		return ".ass"
	case strings.Contains(ct, "vtt"):
		return ".vtt"
	case strings.Contains(ct, "x-microdvd") || strings.Contains(ct, "x-sub"):
		return ".sub"
	default:
		return ".srt"
	}
}

// archiveContentType reports the MIME type for cached archive bytes.
func archiveContentType(content []byte) string {
	if bytes.HasPrefix(content, rarMagic) {
		return "application/x-rar-compressed"
	}
	return "application/zip"
}
