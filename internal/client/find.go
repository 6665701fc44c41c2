package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/cinesub/SubsceneProxy/internal/apperrors"
	"github.com/cinesub/SubsceneProxy/internal/config"
	"github.com/cinesub/SubsceneProxy/internal/metrics"
	"github.com/cinesub/SubsceneProxy/internal/models"
	"github.com/cinesub/SubsceneProxy/internal/pipeline"
)

// FindByID fetches the detail page through the site's canonical ID path.
// The site redirects it to the full slugged URL when the ID exists.
func (c *client) FindByID(ctx context.Context, id string) (*models.Subtitle, error) {
	return c.FindByURL(ctx, id, fmt.Sprintf("%s/subtitles/%s", c.baseURL, id))
}

// FindByURL fetches the given detail page (relative URLs resolve against the
// configured domain) and returns the extracted record stamped with id. The
// page's own content never overrides the caller-supplied ID.
func (c *client) FindByURL(ctx context.Context, id string, pageURL string) (*models.Subtitle, error) {
	logger := config.GetLogger()

	resolved, err := c.resolveURL(pageURL)
	if err != nil {
		return nil, apperrors.NewTransportError(pageURL, err)
	}

	logger.Debug().
		Str("url", resolved).
		Str("subtitleID", id).
		Msg("Fetching subtitle detail page")

	resp, err := c.fetch(ctx, resolved)
	if err != nil {
		metrics.SubtitleLookupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := pipeline.Run(resp, pipeline.CheckStatus, pipeline.ParseHTML); err != nil {
		metrics.SubtitleLookupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if resp.Document == nil {
		metrics.SubtitleLookupsTotal.WithLabelValues("error").Inc()
		metrics.ParseFailuresTotal.WithLabelValues("subtitle").Inc()
		return nil, &apperrors.ParseError{Field: "document", URL: resp.URL}
	}

	details, err := c.subtitleParser.ParseDocument(resp.Document)
	if err != nil {
		metrics.SubtitleLookupsTotal.WithLabelValues("error").Inc()
		metrics.ParseFailuresTotal.WithLabelValues("subtitle").Inc()
		return nil, err
	}

	metrics.SubtitleLookupsTotal.WithLabelValues("success").Inc()
	subtitle := details.WithID(id)
	return &subtitle, nil
}

// resolveURL turns a listing-relative detail path into an absolute URL.
func (c *client) resolveURL(pageURL string) (string, error) {
	if strings.HasPrefix(pageURL, "http://") || strings.HasPrefix(pageURL, "https://") {
		return pageURL, nil
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
