package pipeline

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cinesub/SubsceneProxy/internal/apperrors"
	"github.com/cinesub/SubsceneProxy/internal/config"
	"github.com/cinesub/SubsceneProxy/internal/parser"
)

// noResultsSelector matches the marker element the site renders when a search
// comes back empty despite the 200 status.
const noResultsSelector = "div.search-result h2.msg"

// CheckStatus rejects every non-2xx response with an HTTPError. It runs
// before any body inspection so later stages only ever see success pages.
func CheckStatus(resp *Response) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewHTTPError(resp.StatusCode, resp.Status, resp.URL)
	}
	return nil
}

// ParseHTML attaches a goquery document when the response carries HTML,
// detected from the Content-Type header or a body sniff. Parsing is lenient:
// malformed markup still yields a document, and non-HTML bodies pass through
// untouched with a nil Document.
func ParseHTML(resp *Response) error {
	if !isHTML(resp) {
		config.GetLogger().Debug().
			Str("url", resp.URL).
			Str("contentType", resp.Header.Get("Content-Type")).
			Msg("Response is not HTML, skipping document parse")
		return nil
	}

	reader, err := parser.NewUTF8Reader(bytes.NewReader(resp.Body))
	if err != nil {
		// Charset detection failed; parse the raw bytes instead.
		config.GetLogger().Debug().Err(err).Str("url", resp.URL).Msg("Charset detection failed, parsing raw body")
		reader = bytes.NewReader(resp.Body)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}

	resp.Document = doc
	return nil
}

// DetectNoResults returns a stage that converts the site's soft "no results"
// page into an ErrNotFound carrying the query. The site answers such
// searches with HTTP 200 and a marker element, so this has to run after
// ParseHTML and only makes sense on listing pages.
func DetectNoResults(query string) Stage {
	return func(resp *Response) error {
		if resp.Document == nil {
			return nil
		}

		marker := resp.Document.Find(noResultsSelector).First()
		if marker.Length() == 0 {
			return nil
		}

		if strings.Contains(strings.ToLower(marker.Text()), "no results") {
			config.GetLogger().Debug().
				Str("url", resp.URL).
				Str("query", query).
				Msg("Detected no-results marker on listing page")
			return apperrors.NewNoResultsError(query)
		}
		return nil
	}
}

// isHTML reports whether the response should be treated as an HTML page.
func isHTML(resp *Response) bool {
	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(strings.ToLower(contentType), "html") {
		return true
	}
	if contentType == "" && len(resp.Body) > 0 {
		return strings.Contains(http.DetectContentType(resp.Body), "html")
	}
	return false
}
