package syndicate

import (
	"testing"

	"syndex/internal/rules"
)

func newBankClassifier(t *testing.T, issuer string) *BankClassifier {
	t.Helper()
	return NewBankClassifier(rules.MustLoad(), issuer)
}

func TestBankClassifier_AcceptsBankNames(t *testing.T) {
	c := newBankClassifier(t, "")

	cases := map[string]string{
		"Deutsche Securities Asia Limited":                      "Deutsche Bank",
		"Goldman Sachs (Asia) L.L.C.":                           "Goldman Sachs",
		"Morgan Stanley Asia Limited":                           "Morgan Stanley",
		"UBS AG Hong Kong Branch":                               "UBS",
		"CICC Limited":                                          "CICC",
		"The Hongkong and Shanghai Banking Corporation Limited": "HSBC",
	}
	for line, want := range cases {
		cand, ok := c.Classify(line)
		if !ok {
			t.Errorf("expected %q to be accepted", line)
			continue
		}
		if cand.Normalized != want {
			t.Errorf("%q: expected normalized %q, got %q", line, want, cand.Normalized)
		}
		if cand.Raw != line {
			t.Errorf("%q: raw name must be preserved, got %q", line, cand.Raw)
		}
	}
}

func TestBankClassifier_RejectsNoise(t *testing.T) {
	c := newBankClassifier(t, "")

	for _, line := range []string{
		"",
		"Hong Kong",                              // too short, jurisdiction label
		"52nd Floor, Two International Finance Centre", // address boilerplate
		"8 Finance Street, Central",              // street address
		"Cricket Square, Hutchins Drive",         // registered office noise
		"P.O. Box 2681, Grand Cayman",            // mailbox line
		"joint bookrunners",                      // heading, lowercase start
		"With effect from the Listing Date the Company will comply", // prose, no suffix
	} {
		if _, ok := c.Classify(line); ok {
			t.Errorf("expected %q to be rejected", line)
		}
	}
}

func TestBankClassifier_RejectsIssuerName(t *testing.T) {
	c := newBankClassifier(t, "Acme Dairy Holdings Limited")

	if _, ok := c.Classify("Acme Dairy Holdings Limited"); ok {
		t.Error("issuer's own name must be rejected despite its entity suffix")
	}
	// Punctuation and case must not defeat the comparison.
	if _, ok := c.Classify("ACME DAIRY HOLDINGS, LIMITED"); ok {
		t.Error("issuer comparison must tolerate punctuation and case")
	}
	// Other banks still pass.
	if _, ok := c.Classify("Morgan Stanley Asia Limited"); !ok {
		t.Error("non-issuer bank must still be accepted")
	}
}

func TestBankClassifier_LengthBounds(t *testing.T) {
	c := newBankClassifier(t, "")

	if _, ok := c.Classify("AB Limited"); !ok {
		t.Error("ten characters is within bounds")
	}
	if _, ok := c.Classify("A Ltd"); ok {
		t.Error("below minimum length must be rejected")
	}
}

func TestBankClassifier_NormalizeFallbackStripsQualifiers(t *testing.T) {
	c := newBankClassifier(t, "")

	cases := map[string]string{
		"Oddlot Securities (Hong Kong) Limited": "Oddlot Securities",
		"Quam Capital Limited":                  "Quam Capital",
		"Great Wall Financial Asia Ltd.":        "Great Wall Financial",
	}
	for raw, want := range cases {
		if got := c.Normalize(raw); got != want {
			t.Errorf("Normalize(%q): expected %q, got %q", raw, want, got)
		}
	}
}

func TestBankClassifier_NormalizeIdempotent(t *testing.T) {
	c := newBankClassifier(t, "")

	for _, raw := range []string{
		"Deutsche Securities Asia Limited",
		"Goldman Sachs (Asia) L.L.C.",
		"Oddlot Securities (Hong Kong) Limited",
		"CICC Limited",
		"Some Unknown Broker Limited",
		"",
	} {
		once := c.Normalize(raw)
		twice := c.Normalize(once)
		if once != twice {
			t.Errorf("Normalize(%q) not idempotent: %q then %q", raw, once, twice)
		}
	}
}
