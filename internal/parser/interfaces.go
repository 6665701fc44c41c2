package parser

import (
	"io"

	"github.com/PuerkitoBio/goquery"
)

// Parser defines a generic interface for extracting a list of records from
// HTML content. ParseHtml owns the full read-decode-parse path; ParseDocument
// accepts a document another layer already parsed.
type Parser[T any] interface {
	ParseHtml(body io.Reader) ([]T, error)
	ParseDocument(doc *goquery.Document) ([]T, error)
}

// SingleResultParser is the single-record counterpart of Parser, used for
// pages that describe exactly one entity.
type SingleResultParser[T any] interface {
	ParseHtml(body io.Reader) (T, error)
	ParseDocument(doc *goquery.Document) (T, error)
}
