// Package pipeline turns raw HTTP responses into parsed documents or typed
// errors. The client composes a response with an ordered list of stages; the
// first stage to fail aborts the run, so callers never see partial results.
package pipeline

import (
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"github.com/cinesub/SubsceneProxy/internal/apperrors"
)

// Response is the unit of work the stages operate on. Body holds the fully
// consumed payload; Document stays nil until ParseHTML attaches one.
type Response struct {
	URL        string
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Document   *goquery.Document
}

// Stage inspects or enriches a response. A non-nil error stops the pipeline.
type Stage func(*Response) error

// Run applies the stages in order and returns the first failure.
func Run(resp *Response, stages ...Stage) error {
	for _, stage := range stages {
		if err := stage(resp); err != nil {
			return err
		}
	}
	return nil
}

// NewResponse captures an http.Response into a pipeline Response, consuming
// the body. Closing the original body stays with the caller.
func NewResponse(httpResp *http.Response) (*Response, error) {
	url := ""
	if httpResp.Request != nil && httpResp.Request.URL != nil {
		url = httpResp.Request.URL.String()
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, apperrors.NewTransportError(url, err)
	}

	return &Response{
		URL:        url,
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Header:     httpResp.Header,
		Body:       body,
	}, nil
}
