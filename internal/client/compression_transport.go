package client

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// compressionTransport wraps an http.RoundTripper to automatically handle
// response decompression for gzip, brotli, and zstd encodings
type compressionTransport struct {
	transport http.RoundTripper
}

// newCompressionTransport creates a new transport that handles automatic decompression
func newCompressionTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &compressionTransport{transport: base}
}

// RoundTrip executes a single HTTP transaction, adding Accept-Encoding header
// and automatically decompressing the response.
//
// Content-Encoding may list several codings in application order; they are
// unwound from the last (outermost) to the first. Decoding stops at the first
// coding we do not understand, leaving the remaining prefix in the header.
func (t *compressionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = cloneRequest(req)

	// Add Accept-Encoding header to indicate supported compression formats
	if req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", "gzip, br, zstd")
	}

	// Execute the request
	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// Skip decompression if there's no body to decompress (HEAD, 204, 304 responses)
	if resp.Body == nil || resp.Body == http.NoBody {
		return resp, nil
	}

	encodings := parseContentEncodings(resp.Header.Get("Content-Encoding"))
	if len(encodings) == 0 {
		return resp, nil
	}

	body := resp.Body
	decoded := 0
	for i := len(encodings) - 1; i >= 0; i-- {
		reader, err := newDecodingReader(encodings[i], body)
		if err != nil {
			body.Close()
			return nil, err
		}
		if reader == nil {
			// Unknown coding; anything beneath it stays encoded.
			break
		}
		body = &decompressReadCloser{reader: reader, originalBody: body}
		decoded++
	}

	if decoded == 0 {
		return resp, nil
	}

	resp.Body = body
	if decoded == len(encodings) {
		resp.Header.Del("Content-Encoding")
	} else {
		resp.Header.Set("Content-Encoding", strings.Join(encodings[:len(encodings)-decoded], ", "))
	}
	// Remove Content-Length as it's no longer valid after decompression
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1

	return resp, nil
}

// newDecodingReader returns a reader that decodes the given coding, or nil
// when the coding is not one we handle.
func newDecodingReader(encoding string, body io.Reader) (io.ReadCloser, error) {
	switch encoding {
	case "gzip":
		reader, err := gzip.NewReader(body)
		if err != nil {
			return nil, err
		}
		return reader, nil
	case "br":
		return io.NopCloser(brotli.NewReader(body)), nil
	case "zstd":
		zr, err := zstd.NewReader(body)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	default:
		return nil, nil
	}
}

// decompressReadCloser wraps a decompressor reader and ensures both
// the decompressor and the original body are closed
type decompressReadCloser struct {
	reader       io.ReadCloser
	originalBody io.ReadCloser
}

func (d *decompressReadCloser) Read(p []byte) (int, error) {
	return d.reader.Read(p)
}

func (d *decompressReadCloser) Close() error {
	// Close both the decompressor and the original body
	readerErr := d.reader.Close()
	bodyErr := d.originalBody.Close()

	// Return the first error if any
	if readerErr != nil {
		return readerErr
	}
	return bodyErr
}

// cloneRequest creates a shallow copy of the request
func cloneRequest(req *http.Request) *http.Request {
	// Shallow copy
	r := new(http.Request)
	*r = *req

	// Deep copy headers
	r.Header = make(http.Header, len(req.Header))
	for k, v := range req.Header {
		r.Header[k] = append([]string(nil), v...)
	}

	return r
}

// parseContentEncodings splits a Content-Encoding header into its codings,
// normalized to lowercase, in the order they were applied. "identity" entries
// and blanks are dropped. Returns nil when the header carries no codings.
func parseContentEncodings(header string) []string {
	if strings.TrimSpace(header) == "" {
		return nil
	}

	parts := strings.Split(header, ",")
	encodings := make([]string, 0, len(parts))
	for _, part := range parts {
		encoding := strings.ToLower(strings.TrimSpace(part))
		if encoding == "" || encoding == "identity" {
			continue
		}
		encodings = append(encodings, encoding)
	}
	if len(encodings) == 0 {
		return nil
	}
	return encodings
}
