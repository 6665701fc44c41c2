package client

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cinesub/SubsceneProxy/internal/config"
	"github.com/cinesub/SubsceneProxy/internal/languages"
	"github.com/cinesub/SubsceneProxy/internal/models"
	"github.com/cinesub/SubsceneProxy/internal/parser"
	"github.com/cinesub/SubsceneProxy/internal/services"
)

// defaultRetryAttempts is used when retry.max_attempts is not configured.
const defaultRetryAttempts = 3

// Client defines the interface for querying the Subscene website
type Client interface {
	// Search queries the release search and returns the listing rows in page order.
	// A page that carries the site's no-results marker yields apperrors.ErrNotFound.
	Search(ctx context.Context, query string) (*models.ResultSet, error)

	// FindByID fetches the detail page for a subtitle ID using the site's
	// canonical ID path. When only the ID is known this is a best-effort lookup;
	// FindByURL with a listing-provided URL is the reliable route.
	FindByID(ctx context.Context, id string) (*models.Subtitle, error)

	// FindByURL fetches a known detail page (relative or absolute URL) and
	// stamps the resulting record with the given ID.
	FindByURL(ctx context.Context, id string, pageURL string) (*models.Subtitle, error)

	// Download retrieves the subtitle file behind a record, unpacking ZIP/RAR
	// archives when the site serves one.
	Download(ctx context.Context, subtitle *models.Subtitle) (*models.DownloadResult, error)

	// SetLanguageFilter restricts listings to the named languages
	// (comma-separated, e.g. "english,spanish"). Unknown names are dropped.
	SetLanguageFilter(names string)

	// SetLanguageFilterID restricts listings to the given numeric language ids,
	// bypassing name resolution. No arguments clears the filter.
	SetLanguageFilterID(ids ...int)

	// LanguageFilter returns the currently encoded filter value, or "" when unset.
	LanguageFilter() string

	// Close releases any resources held by the client (e.g., cache connections).
	Close() error
}

// client implements the Client interface
type client struct {
	httpClient     *http.Client
	baseURL        string
	searchParser   parser.Parser[models.SearchResult]
	subtitleParser parser.SingleResultParser[models.SubtitleDetails]
	downloader     services.SubtitleDownloader

	// filterMu guards languageFilter; writes are last-writer-wins.
	filterMu       sync.RWMutex
	languageFilter string
}

// NewClient creates a new client instance with proxy configuration if provided
func NewClient(cfg *config.Config) Client {
	// Parse timeout duration
	timeout := 30 * time.Second // default
	if cfg.ClientTimeout != "" {
		if parsedTimeout, err := time.ParseDuration(cfg.ClientTimeout); err != nil {
			logger := config.GetLogger()
			logger.Warn().Err(err).Str("timeout", cfg.ClientTimeout).Msg("Invalid timeout duration, using default 30s")
		} else {
			timeout = parsedTimeout
		}
	}

	// Set up base transport with optional proxy
	// Clone DefaultTransport to preserve all its settings (timeouts, connection pooling, HTTP/2, etc.)
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			// Log error but continue without proxy
			logger := config.GetLogger()
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			// Override only the Proxy field
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	maxAttempts := cfg.Retry.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = defaultRetryAttempts
	}

	// Retry sits under the decompression layer so each attempt sends the raw
	// request and only the final response is decoded (gzip, brotli, zstd).
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: newCompressionTransport(newRetryTransport(baseTransport, maxAttempts)),
	}

	c := &client{
		httpClient:     httpClient,
		baseURL:        cfg.SubsceneDomain,
		searchParser:   parser.NewSearchResultParser(),
		subtitleParser: parser.NewSubtitleParser(),
		downloader:     services.NewSubtitleDownloader(httpClient),
	}

	if cfg.LanguageFilter != "" {
		c.SetLanguageFilter(cfg.LanguageFilter)
	}

	return c
}

// SetLanguageFilter resolves the comma-separated language names and stores the
// encoded id list. The site honors at most three languages per filter; extra
// names are dropped with a warning.
func (c *client) SetLanguageFilter(names string) {
	ids := languages.IDs(names)
	if len(ids) > languages.MaxFilterLanguages {
		logger := config.GetLogger()
		logger.Warn().
			Str("names", names).
			Int("max", languages.MaxFilterLanguages).
			Msg("Language filter exceeds the site limit, keeping the first entries")
		ids = ids[:languages.MaxFilterLanguages]
	}
	c.setEncodedFilter(languages.EncodeIDs(ids))
}

// SetLanguageFilterID stores the given numeric ids directly, without name
// resolution. Calling it with no arguments clears the filter.
func (c *client) SetLanguageFilterID(ids ...int) {
	if len(ids) > languages.MaxFilterLanguages {
		logger := config.GetLogger()
		logger.Warn().
			Ints("ids", ids).
			Int("max", languages.MaxFilterLanguages).
			Msg("Language filter exceeds the site limit, keeping the first entries")
		ids = ids[:languages.MaxFilterLanguages]
	}
	c.setEncodedFilter(languages.EncodeIDs(ids))
}

// LanguageFilter returns the encoded filter currently sent with requests.
func (c *client) LanguageFilter() string {
	c.filterMu.RLock()
	defer c.filterMu.RUnlock()
	return c.languageFilter
}

func (c *client) setEncodedFilter(encoded string) {
	c.filterMu.Lock()
	c.languageFilter = encoded
	c.filterMu.Unlock()
}

// Close releases any resources held by the client, such as cache connections.
func (c *client) Close() error {
	return c.downloader.Close()
}
