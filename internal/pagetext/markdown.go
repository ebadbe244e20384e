package pagetext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"syndex/internal/document"
)

// MarkdownProvider handles markdown conversions of filings (some upstream
// converters emit markdown rather than plain text). Thematic breaks act as
// page separators; headings and blocks become lines.
type MarkdownProvider struct{}

func (p *MarkdownProvider) Extract(data []byte) (*document.Document, error) {
	md := goldmark.New()
	reader := text.NewReader(data)
	root := md.Parser().Parse(reader)

	out := &document.Document{}
	var lines []string

	flushPage := func() {
		if len(lines) == 0 {
			return
		}
		out.Pages = append(out.Pages, document.Page{
			Number: len(out.Pages) + 1,
			Text:   strings.Join(lines, "\n"),
		})
		lines = nil
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.ThematicBreak:
			flushPage()
		case *ast.Heading:
			if t := string(node.Text(data)); t != "" {
				lines = append(lines, t)
			}
		default:
			for _, line := range strings.Split(blockText(n, data), "\n") {
				if line = strings.TrimRight(line, " "); line != "" {
					lines = append(lines, line)
				}
			}
		}
	}
	flushPage()

	if out.IsEmpty() {
		return nil, fmt.Errorf("%w: markdown yielded no text", ErrMalformed)
	}
	return out, nil
}

// blockText gets the text content of a goldmark AST node.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		if lines.Len() > 0 {
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(src))
			}
			return strings.TrimSpace(buf.String())
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(blockText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
