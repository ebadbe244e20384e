package pagetext

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"syndex/internal/document"
)

// ErrMalformed marks document bytes that could not be decoded into page
// text. It is a per-call fatal condition, distinct from the in-band
// "section not found" outcome the engine reports as data.
var ErrMalformed = errors.New("malformed document")

// Provider converts raw document bytes into ordered page text.
type Provider interface {
	Extract(data []byte) (*document.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".htm":      true,
	".html":     true,
	".docx":     true,
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// ForFile returns the appropriate provider for a filename.
func ForFile(filename string) (Provider, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFProvider{}, nil
	case ".html", ".htm":
		return &HTMLProvider{}, nil
	case ".docx":
		return &DOCXProvider{}, nil
	case ".md", ".markdown":
		return &MarkdownProvider{}, nil
	case ".txt":
		return &TextProvider{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// ForData sniffs the document format from its leading bytes. Used when the
// caller supplies bytes without a filename.
func ForData(data []byte) Provider {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		return &PDFProvider{}
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return &DOCXProvider{}
	case bytes.HasPrefix(trimmed, []byte("<")):
		return &HTMLProvider{}
	default:
		return &TextProvider{}
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
