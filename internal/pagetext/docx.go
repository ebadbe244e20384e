package pagetext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"

	"syndex/internal/document"
)

// DOCXProvider handles .docx listing documents. Paragraphs become lines;
// explicit page breaks are not exposed by the format, so the result is a
// single page.
type DOCXProvider struct{}

func (p *DOCXProvider) Extract(data []byte) (*document.Document, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: parse docx: %v", ErrMalformed, err)
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if text := paragraphText(para); text != "" {
			lines = append(lines, text)
		}
	}

	out := &document.Document{
		Pages: []document.Page{{Number: 1, Text: strings.Join(lines, "\n")}},
	}
	if out.IsEmpty() {
		return nil, fmt.Errorf("%w: docx yielded no text", ErrMalformed)
	}
	return out, nil
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
