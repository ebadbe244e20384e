package syndicate

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"syndex/internal/pagetext"
	"syndex/internal/rules"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(rules.MustLoad(), log, false)
}

// prospectusFixture is three pages: cover, contents, syndicate section.
func prospectusFixture() []byte {
	pages := []string{
		strings.Join([]string{
			"Acme Dairy Holdings Limited",
			"(Incorporated in the Cayman Islands with limited liability)",
			"GLOBAL OFFERING",
		}, "\n"),
		strings.Join([]string{
			"TABLE OF CONTENTS",
			"Summary ................................................... 1",
			"Parties Involved in the Global Offering .................. 42",
			"Risk Factors ............................................. 55",
		}, "\n"),
		strings.Join([]string{
			"PARTIES INVOLVED IN THE GLOBAL OFFERING",
			"Sole Sponsor\tDeutsche Securities Asia Limited",
			"Joint Bookrunners",
			"Goldman Sachs (Asia) L.L.C.",
			"Morgan Stanley Asia Limited",
			"CORPORATE INFORMATION",
			"Registered office\tCricket Square, Hutchins Drive",
		}, "\n"),
	}
	return []byte(strings.Join(pages, "\f"))
}

func TestEngine_EndToEnd(t *testing.T) {
	e := newEngine(t)

	res, err := e.Extract(prospectusFixture(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.SectionFound {
		t.Fatal("expected section to be found")
	}
	if res.SectionPage != 3 {
		t.Errorf("expected section on page 3, got %d", res.SectionPage)
	}
	if res.Issuer != "Acme Dairy Holdings Limited" {
		t.Errorf("expected issuer inferred from cover page, got %q", res.Issuer)
	}
	if len(res.Appointments) != 3 {
		t.Fatalf("expected 3 appointments, got %d", len(res.Appointments))
	}
	if res.Appointments[0].Normalized != "Deutsche Bank" {
		t.Errorf("expected sponsor first, got %q", res.Appointments[0].Normalized)
	}
	if !res.Appointments[0].IsLead {
		t.Error("sponsor must be lead")
	}
	for _, app := range res.Appointments[1:] {
		if app.IsLead {
			t.Errorf("%s: bookrunner must not be lead when a sponsor is present", app.Normalized)
		}
	}
}

func TestEngine_Deterministic(t *testing.T) {
	e := newEngine(t)
	data := prospectusFixture()

	first, err := e.Extract(data, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.Extract(data, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical bytes must yield identical results")
	}
}

func TestEngine_MergeInvariant(t *testing.T) {
	e := newEngine(t)

	res, err := e.Extract(prospectusFixture(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := map[string]bool{}
	for _, app := range res.Appointments {
		if seen[app.Normalized] {
			t.Errorf("two appointments share normalized name %q", app.Normalized)
		}
		seen[app.Normalized] = true
	}
}

func TestEngine_IssuerOverride(t *testing.T) {
	e := newEngine(t)

	// With the override pointing at a bank, that bank must vanish from
	// the result instead of the inferred issuer.
	res, err := e.Extract(prospectusFixture(), Options{IssuerName: "Morgan Stanley Asia Limited"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, app := range res.Appointments {
		if app.Normalized == "Morgan Stanley" {
			t.Error("issuer-named bank must be excluded")
		}
	}
}

func TestEngine_SectionNotFoundIsData(t *testing.T) {
	e := newEngine(t)

	res, err := e.Extract([]byte("An introduction document with no syndicate section.\n"), Options{})
	if err != nil {
		t.Fatalf("missing section must not be an error, got %v", err)
	}
	if res.SectionFound {
		t.Error("expected sectionFound=false")
	}
	if len(res.Appointments) != 0 {
		t.Errorf("expected no appointments, got %d", len(res.Appointments))
	}
}

func TestEngine_TOCOnlyDocument(t *testing.T) {
	e := newEngine(t)

	res, err := e.Extract([]byte("Parties Involved in the Offering ........... 42\n"), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SectionFound {
		t.Error("a contents entry alone must not count as the section")
	}
	if res.RawSectionText == "" {
		t.Error("best-effort window must be surfaced for diagnosis")
	}
}

func TestEngine_MalformedBytes(t *testing.T) {
	e := newEngine(t)

	_, err := e.Extract([]byte{0xff, 0xfe, 0x00, 0x01}, Options{})
	if err == nil {
		t.Fatal("expected an error for undecodable bytes")
	}
	if !errors.Is(err, pagetext.ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestAppointment_SerializationShape(t *testing.T) {
	e := newEngine(t)

	res, err := e.Extract(prospectusFixture(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := json.Marshal(res.Appointments[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"bank", "normalizedBank", "roles", "isLead", "rawRole"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q in %s", key, raw)
		}
	}
	if m["normalizedBank"] != "Deutsche Bank" {
		t.Errorf("unexpected normalizedBank %v", m["normalizedBank"])
	}
	if m["rawRole"] != "Sole Sponsor" {
		t.Errorf("unexpected rawRole %v", m["rawRole"])
	}
}
