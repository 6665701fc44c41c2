package client

import (
	"context"
	"errors"
	"net/url"

	"github.com/cinesub/SubsceneProxy/internal/apperrors"
	"github.com/cinesub/SubsceneProxy/internal/config"
	"github.com/cinesub/SubsceneProxy/internal/metrics"
	"github.com/cinesub/SubsceneProxy/internal/models"
	"github.com/cinesub/SubsceneProxy/internal/pipeline"
)

// searchPath is the site's release-name search endpoint.
const searchPath = "/subtitles/release"

// Search queries the release search and extracts the listing rows in page
// order. The site's soft no-results page surfaces as apperrors.ErrNotFound;
// a listing that merely has zero usable rows yields an empty result set.
func (c *client) Search(ctx context.Context, query string) (*models.ResultSet, error) {
	logger := config.GetLogger()

	searchURL := c.baseURL + searchPath
	if query != "" {
		params := url.Values{}
		params.Set("q", query)
		searchURL += "?" + params.Encode()
	}

	logger.Debug().
		Str("url", searchURL).
		Str("query", query).
		Msg("Searching subtitles")

	resp, err := c.fetch(ctx, searchURL)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := pipeline.Run(resp,
		pipeline.CheckStatus,
		pipeline.ParseHTML,
		pipeline.DetectNoResults(query),
	); err != nil {
		status := "error"
		if errors.Is(err, &apperrors.ErrNotFound{}) {
			status = "no_results"
		}
		metrics.SearchesTotal.WithLabelValues(status).Inc()
		return nil, err
	}
	if resp.Document == nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		metrics.ParseFailuresTotal.WithLabelValues("search").Inc()
		return nil, &apperrors.ParseError{Field: "document", URL: resp.URL}
	}

	results, err := c.searchParser.ParseDocument(resp.Document)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		metrics.ParseFailuresTotal.WithLabelValues("search").Inc()
		return nil, err
	}

	metrics.SearchesTotal.WithLabelValues("success").Inc()
	logger.Debug().
		Int("count", len(results)).
		Str("query", query).
		Msg("Extracted search results")

	return &models.ResultSet{
		Query:   query,
		Results: results,
		Total:   len(results),
	}, nil
}
