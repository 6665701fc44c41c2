package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cinesub/SubsceneProxy/internal/config"
	"github.com/cinesub/SubsceneProxy/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// SearchResultParser implements the Parser interface for release search
// listing pages. Detail URLs stay relative; the client resolves them against
// the configured domain when it follows one.
type SearchResultParser struct{}

// NewSearchResultParser creates a new search result parser instance
func NewSearchResultParser() *SearchResultParser {
	return &SearchResultParser{}
}

// ParseHtml parses the HTML response and extracts the listing rows
func (p *SearchResultParser) ParseHtml(body io.Reader) ([]models.SearchResult, error) {
	reader, err := NewUTF8Reader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare UTF-8 reader: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		config.GetLogger().Error().Err(err).Msg("Failed to parse HTML document")
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return p.ParseDocument(doc)
}

// ParseDocument extracts the listing rows from an already parsed document.
// Rows missing an identifier or a release name are skipped; a page with no
// usable rows yields an empty slice, not an error.
func (p *SearchResultParser) ParseDocument(doc *goquery.Document) ([]models.SearchResult, error) {
	logger := config.GetLogger()
	logger.Debug().Msg("Starting search result extraction")

	results := make([]models.SearchResult, 0)

	// Each listing row holds one anchor in its first cell: a language badge
	// span followed by the release name span.
	doc.Find("table td.a1").Each(func(i int, cell *goquery.Selection) {
		result := p.extractResultFromCell(cell)
		if result == nil {
			logger.Debug().Int("row", i).Msg("Skipping listing row missing required data")
			return
		}

		results = append(results, *result)
		logger.Debug().
			Str("id", result.ID).
			Str("name", result.Name).
			Str("language", result.Language).
			Msg("Extracted search result")
	})

	logger.Debug().Int("total_results", len(results)).Msg("Completed search result extraction")
	return results, nil
}

// extractResultFromCell extracts one listing record from a td.a1 cell
func (p *SearchResultParser) extractResultFromCell(cell *goquery.Selection) *models.SearchResult {
	logger := config.GetLogger()

	link := cell.Find("a").First()
	if link.Length() == 0 {
		logger.Debug().Msg("Listing cell has no anchor")
		return nil
	}

	href, exists := link.Attr("href")
	if !exists || strings.TrimSpace(href) == "" {
		logger.Debug().Msg("Listing anchor missing href attribute")
		return nil
	}

	id := p.extractIDFromHref(href)
	if id == "" {
		logger.Debug().Str("href", href).Msg("Listing href has no numeric identifier")
		return nil
	}

	language, name := p.extractSpans(link)
	if name == "" {
		logger.Debug().Str("href", href).Msg("Listing anchor has no release name")
		return nil
	}

	return &models.SearchResult{
		ID:        id,
		Name:      name,
		Language:  language,
		DetailURL: href,
	}
}

// extractSpans pulls the language badge and the release name out of the
// anchor. The badge carries class "l"; the name is the first span without it.
func (p *SearchResultParser) extractSpans(link *goquery.Selection) (language, name string) {
	link.Find("span").EachWithBreak(func(i int, span *goquery.Selection) bool {
		text := strings.TrimSpace(span.Text())
		if span.HasClass("l") {
			if language == "" {
				language = text
			}
			return true
		}
		if text != "" {
			name = text
			return false
		}
		return true
	})
	return language, name
}

// extractIDFromHref extracts the numeric identifier that ends a detail URL
// like /subtitles/some-release/english/2697714.
func (p *SearchResultParser) extractIDFromHref(href string) string {
	trimmed := strings.Trim(href, "/")
	if trimmed == "" {
		return ""
	}

	segments := strings.Split(trimmed, "/")
	last := segments[len(segments)-1]
	if _, err := strconv.Atoi(last); err != nil {
		return ""
	}
	return last
}
