package pagetext

import (
	"errors"
	"testing"
)

func TestTextProvider_FormFeedPageSplitting(t *testing.T) {
	p := &TextProvider{}
	doc, err := p.Extract([]byte("cover page\fcontents page\fsection page"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(doc.Pages))
	}
	if doc.Pages[0].Number != 1 || doc.Pages[2].Number != 3 {
		t.Errorf("expected 1-based page numbers, got %d and %d", doc.Pages[0].Number, doc.Pages[2].Number)
	}
	if doc.Pages[1].Text != "contents page" {
		t.Errorf("unexpected page text %q", doc.Pages[1].Text)
	}
}

func TestTextProvider_SinglePage(t *testing.T) {
	p := &TextProvider{}
	doc, err := p.Extract([]byte("just one page"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(doc.Pages))
	}
}

func TestTextProvider_EmptyIsMalformed(t *testing.T) {
	p := &TextProvider{}
	for _, data := range [][]byte{nil, []byte(""), []byte("  \n\f\n  ")} {
		if _, err := p.Extract(data); !errors.Is(err, ErrMalformed) {
			t.Errorf("expected ErrMalformed for %q, got %v", data, err)
		}
	}
}

func TestTextProvider_InvalidUTF8(t *testing.T) {
	p := &TextProvider{}
	if _, err := p.Extract([]byte{0xff, 0xfe, 0x41}); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}
