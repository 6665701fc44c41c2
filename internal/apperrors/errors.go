package apperrors

import "fmt"

// ErrNotFound represents an error when a requested resource is not found.
// The scraping client also uses it for the site's soft "no results" pages,
// which come back with HTTP 200 and a marker element instead of a 404.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// NewNoResultsError creates the ErrNotFound used when a search page carries
// the site's "no results found" marker.
func NewNoResultsError(query string) *ErrNotFound {
	return &ErrNotFound{
		Resource: "subtitles",
		ID:       query,
	}
}

// HTTPError is returned when the site answers with a non-success status code.
// The response body has already been consumed and discarded by then.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %s fetching %s", e.Status, e.URL)
}

// Is allows for error checking with errors.Is().
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// NewHTTPError creates a new HTTPError.
func NewHTTPError(statusCode int, status, url string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Status:     status,
		URL:        url,
	}
}

// TransportError is returned when a request never produced an HTTP response:
// dial failures, timeouts, TLS problems, cancelled contexts. The underlying
// error is kept as-is and exposed through Unwrap.
type TransportError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

// Is allows for error checking with errors.Is().
func (e *TransportError) Is(target error) bool {
	_, ok := target.(*TransportError)
	return ok
}

// Unwrap exposes the underlying transport failure.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new TransportError.
func NewTransportError(url string, err error) *TransportError {
	return &TransportError{
		URL: url,
		Err: err,
	}
}

// ParseError is returned when a page is structurally missing a field the
// extractor requires. Optional fields never produce it.
type ParseError struct {
	Field string
	URL   string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("page %s is missing required field %q", e.URL, e.Field)
	}
	return fmt.Sprintf("page is missing required field %q", e.Field)
}

// Is allows for error checking with errors.Is().
func (e *ParseError) Is(target error) bool {
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError.
func NewParseError(field string) *ParseError {
	return &ParseError{Field: field}
}

// ErrSubtitleNotFoundInArchive is returned when a downloaded archive contains
// no recognizable subtitle file.
type ErrSubtitleNotFoundInArchive struct {
	FileCount int
}

// Error implements the error interface.
func (e *ErrSubtitleNotFoundInArchive) Error() string {
	return fmt.Sprintf("no subtitle file found in archive (searched %d files)", e.FileCount)
}

// Is allows for error checking with errors.Is().
func (e *ErrSubtitleNotFoundInArchive) Is(target error) bool {
	_, ok := target.(*ErrSubtitleNotFoundInArchive)
	return ok
}
