package pagetext

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"syndex/internal/document"
)

// TextProvider handles plain text whose pages were already extracted by an
// upstream collaborator. Form feeds are treated as page separators.
type TextProvider struct{}

func (p *TextProvider) Extract(data []byte) (*document.Document, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: not valid utf-8 text", ErrMalformed)
	}

	doc := &document.Document{}
	for i, text := range strings.Split(string(data), "\f") {
		doc.Pages = append(doc.Pages, document.Page{Number: i + 1, Text: text})
	}

	if doc.IsEmpty() {
		return nil, fmt.Errorf("%w: empty text document", ErrMalformed)
	}
	return doc, nil
}
