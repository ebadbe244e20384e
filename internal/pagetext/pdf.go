package pagetext

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"syndex/internal/document"
)

// PDFProvider extracts per-page text from PDF prospectuses. It tries the
// Go library first, then falls back to pdftotext if enabled.
type PDFProvider struct {
	FallbackPdftotext bool
}

func (p *PDFProvider) Extract(data []byte) (*document.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "syndex-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := extractPDFPages(tmpPath)
	if err != nil && p.FallbackPdftotext {
		pages, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: extract pdf text: %v", ErrMalformed, err)
	}

	doc := &document.Document{Pages: pages}
	if doc.IsEmpty() {
		return nil, fmt.Errorf("%w: pdf yielded no text", ErrMalformed)
	}
	return doc, nil
}

func extractPDFPages(path string) ([]document.Page, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []document.Page
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, document.Page{Number: i, Text: text})
	}
	return pages, nil
}

func extractPdftotext(path string) ([]document.Page, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}

	var pages []document.Page
	for i, text := range strings.Split(string(out), "\f") {
		pages = append(pages, document.Page{Number: i + 1, Text: text})
	}
	return pages, nil
}
