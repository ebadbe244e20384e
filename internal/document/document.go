package document

import "strings"

// Page is one page of extracted prospectus text.
type Page struct {
	Number int    // 1-based page number from the source document
	Text   string // plain text content, layout not guaranteed
}

// Document is the ordered page text of a single listing document.
// It is immutable once built; all downstream components take it by value
// or read-only pointer and never mutate it.
type Document struct {
	Pages []Page
}

// IsEmpty reports whether the document carries no extractable text at all.
func (d *Document) IsEmpty() bool {
	for _, p := range d.Pages {
		if strings.TrimSpace(p.Text) != "" {
			return false
		}
	}
	return true
}

// FullText joins all pages with form feeds so byte offsets into the
// returned string can be mapped back to pages via PageAt.
func (d *Document) FullText() string {
	var buf strings.Builder
	for i, p := range d.Pages {
		if i > 0 {
			buf.WriteString("\f")
		}
		buf.WriteString(p.Text)
	}
	return buf.String()
}

// PageAt returns the 1-based page number containing the given byte offset
// into FullText(). Returns 0 for an out-of-range offset.
func (d *Document) PageAt(offset int) int {
	if offset < 0 {
		return 0
	}
	pos := 0
	for _, p := range d.Pages {
		end := pos + len(p.Text)
		if offset <= end {
			return p.Number
		}
		pos = end + 1 // form feed separator
	}
	return 0
}
