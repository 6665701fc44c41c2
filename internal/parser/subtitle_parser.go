package parser

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cinesub/SubsceneProxy/internal/apperrors"
	"github.com/cinesub/SubsceneProxy/internal/config"
	"github.com/cinesub/SubsceneProxy/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// SubtitleParser implements the SingleResultParser interface for subtitle
// detail pages. Each page describes exactly one subtitle; the identifier is
// never part of the page body, so the parser returns SubtitleDetails and the
// caller pairs it with the id it already knows. The download href is kept as
// the page serves it; the client resolves it when downloading.
type SubtitleParser struct{}

// NewSubtitleParser creates a new subtitle detail parser instance
func NewSubtitleParser() *SubtitleParser {
	return &SubtitleParser{}
}

var leadingIntRegex = regexp.MustCompile(`(\d+)`)

// ParseHtml parses the HTML response and extracts the subtitle details
func (p *SubtitleParser) ParseHtml(body io.Reader) (models.SubtitleDetails, error) {
	reader, err := NewUTF8Reader(body)
	if err != nil {
		return models.SubtitleDetails{}, fmt.Errorf("failed to prepare UTF-8 reader: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		config.GetLogger().Error().Err(err).Msg("Failed to parse HTML document")
		return models.SubtitleDetails{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return p.ParseDocument(doc)
}

// ParseDocument extracts the subtitle details from an already parsed
// document. Title and download link are required; every other field keeps
// its zero value when the page omits it.
func (p *SubtitleParser) ParseDocument(doc *goquery.Document) (models.SubtitleDetails, error) {
	logger := config.GetLogger()
	logger.Debug().Msg("Starting subtitle detail extraction")

	details := models.SubtitleDetails{}

	title := p.extractTitle(doc)
	if title == "" {
		logger.Debug().Msg("Detail page has no title")
		return models.SubtitleDetails{}, apperrors.NewParseError("title")
	}
	details.Title = title

	downloadURL := p.extractDownloadURL(doc)
	if downloadURL == "" {
		logger.Debug().Str("title", title).Msg("Detail page has no download link")
		return models.SubtitleDetails{}, apperrors.NewParseError("download link")
	}
	details.DownloadURL = downloadURL

	details.Releases = p.extractReleases(doc)
	details.Uploader = strings.TrimSpace(doc.Find("li.author a").First().Text())
	details.Comment = strings.TrimSpace(doc.Find("li.comment-sub .comment").First().Text())

	p.extractDetailsBox(doc, &details)

	logger.Debug().
		Str("title", details.Title).
		Str("language", details.Language).
		Int("releases", len(details.Releases)).
		Bool("hearingImpaired", details.HearingImpaired).
		Msg("Completed subtitle detail extraction")

	return details, nil
}

// extractTitle reads the page heading, preferring the itemprop span the site
// nests inside it.
func (p *SubtitleParser) extractTitle(doc *goquery.Document) string {
	header := doc.Find("div.header h1").First()
	if header.Length() == 0 {
		return ""
	}

	if name := header.Find(`span[itemprop="name"]`).First(); name.Length() > 0 {
		if text := strings.TrimSpace(name.Text()); text != "" {
			return text
		}
	}

	return strings.TrimSpace(header.Text())
}

// extractDownloadURL reads the href of the download button
func (p *SubtitleParser) extractDownloadURL(doc *goquery.Document) string {
	href, exists := doc.Find("a#downloadButton").First().Attr("href")
	if !exists {
		return ""
	}
	return strings.TrimSpace(href)
}

// extractReleases collects the release names this subtitle applies to
func (p *SubtitleParser) extractReleases(doc *goquery.Document) []string {
	var releases []string
	doc.Find("li.release div").Each(func(i int, div *goquery.Selection) {
		if text := strings.TrimSpace(div.Text()); text != "" {
			releases = append(releases, text)
		}
	})
	return releases
}

// extractDetailsBox fills the optional fields listed in the ul.details box:
// language, upload time, hearing-impaired flag, file count and rating.
func (p *SubtitleParser) extractDetailsBox(doc *goquery.Document, details *models.SubtitleDetails) {
	logger := config.GetLogger()

	box := doc.Find("ul.details").First()
	if box.Length() == 0 {
		logger.Debug().Msg("Detail page has no details box")
		return
	}

	details.Language = strings.TrimSpace(box.Find("li.language span").First().Text())

	if datetime, exists := box.Find("li.online time").First().Attr("datetime"); exists {
		details.UploadedAt = p.parseUploadTime(datetime)
	}

	hiText := strings.TrimSpace(box.Find("li.hearing-impaired span").First().Text())
	details.HearingImpaired = strings.EqualFold(hiText, "yes")

	if filesText := strings.TrimSpace(box.Find("li.files").First().Text()); filesText != "" {
		details.Files = p.parseLeadingInt(filesText)
	}

	rated := box.Find("li.rated").First()
	if rated.Length() > 0 {
		if ratingText := strings.TrimSpace(rated.Find("span.rating").First().Text()); ratingText != "" {
			if rating, err := strconv.ParseFloat(ratingText, 64); err == nil {
				details.Rating = &rating
			} else {
				logger.Debug().Str("rating", ratingText).Msg("Failed to parse rating value")
			}
		}
		if countText := strings.TrimSpace(rated.Find("span.count").First().Text()); countText != "" {
			details.RatingCount = p.parseLeadingInt(countText)
		}
	}
}

// parseUploadTime parses the datetime attribute of the upload timestamp.
// The site emits RFC 3339 values; plain dates show up on older pages.
func (p *SubtitleParser) parseUploadTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t
	}

	config.GetLogger().Debug().Str("datetime", value).Msg("Failed to parse upload time")
	return time.Time{}
}

// parseLeadingInt extracts the first integer out of text like "2 files".
func (p *SubtitleParser) parseLeadingInt(text string) int {
	matches := leadingIntRegex.FindStringSubmatch(text)
	if len(matches) < 2 {
		return 0
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0
	}
	return n
}
