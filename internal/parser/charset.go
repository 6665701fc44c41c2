package parser

import (
	"io"

	"golang.org/x/net/html/charset"
)

// NewUTF8Reader wraps an io.Reader with automatic character encoding
// detection and conversion to UTF-8. The site mostly serves UTF-8, but older
// pages and mirrors drift into legacy encodings, so every page goes through
// this before goquery sees it.
//
// The charset is detected from:
// 1. HTML <meta charset="..."> or <meta http-equiv="Content-Type"> tags
// 2. Byte order marks (BOM)
// 3. Heuristic detection if neither is present
//
// If the content is already UTF-8, this is a no-op wrapper with minimal overhead.
func NewUTF8Reader(body io.Reader) (io.Reader, error) {
	// contentType is left empty so detection works from the HTML content itself
	return charset.NewReader(body, "")
}
