package pagetext

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"syndex/internal/document"
)

// HTMLProvider handles HTML filings. HTML carries no page boundaries, so
// the whole body becomes a single page with one text line per block
// element, which is the line orientation the engine expects.
type HTMLProvider struct{}

func (p *HTMLProvider) Extract(data []byte) (*document.Document, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", ErrMalformed, err)
	}

	var lines []string
	emit := func(t string) {
		t = strings.TrimSpace(t)
		if t != "" {
			lines = append(lines, t)
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "th", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote":
				t := textContent(n)
				if t != "" {
					emit(t)
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	body := findBody(doc)
	if body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	out := &document.Document{
		Pages: []document.Page{{Number: 1, Text: strings.Join(lines, "\n")}},
	}
	if out.IsEmpty() {
		return nil, fmt.Errorf("%w: html yielded no text", ErrMalformed)
	}
	return out, nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
