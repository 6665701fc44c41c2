package client

import (
	"context"
	"net/http"

	"github.com/cinesub/SubsceneProxy/internal/apperrors"
	"github.com/cinesub/SubsceneProxy/internal/config"
	"github.com/cinesub/SubsceneProxy/internal/pipeline"
)

// languageFilterCookie is the cookie the site reads to restrict listings.
const languageFilterCookie = "LanguageFilter"

// fetch executes a GET against the given URL with the session headers applied
// and captures the full response for the pipeline. Failures to complete the
// request surface as apperrors.TransportError with the cause attached.
func (c *client) fetch(ctx context.Context, pageURL string) (*pipeline.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, apperrors.NewTransportError(pageURL, err)
	}

	req.Header.Set("User-Agent", config.GetUserAgent())
	if filter := c.LanguageFilter(); filter != "" {
		// The site wants the bare comma-joined id list. AddCookie would quote
		// a value containing commas, so the header is written directly.
		req.Header.Set("Cookie", languageFilterCookie+"="+filter)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewTransportError(pageURL, err)
	}
	defer resp.Body.Close()

	return pipeline.NewResponse(resp)
}
