package syndicate

import (
	"regexp"
	"strings"
	"unicode"

	"syndex/internal/rules"
)

// BankCandidate is an accepted bank name line.
type BankCandidate struct {
	Raw        string // as it appeared in the document
	Normalized string // canonical short form
}

// BankClassifier decides whether a line plausibly names a financial
// institution and canonicalizes it. Constructed per document because the
// issuer's own name must be rejected.
type BankClassifier struct {
	table       *rules.Table
	issuer      string // comparable form; empty when unknown
	boilerplate *regexp.Regexp
}

func NewBankClassifier(table *rules.Table, issuerName string) *BankClassifier {
	markers := make([]string, 0, len(table.Banks.Boilerplate))
	for _, m := range table.Banks.Boilerplate {
		markers = append(markers, regexp.QuoteMeta(strings.ToLower(m)))
	}
	return &BankClassifier{
		table:       table,
		issuer:      comparableName(issuerName),
		boilerplate: regexp.MustCompile(`(?:^|[^a-z])(?:` + strings.Join(markers, "|") + `)(?:[^a-z]|$)`),
	}
}

const (
	minBankLine = 10
	maxBankLine = 120
)

// Classify applies all acceptance rules to one trimmed line.
func (c *BankClassifier) Classify(line string) (BankCandidate, bool) {
	trimmed := strings.TrimRight(strings.TrimSpace(line), ",;")
	n := len([]rune(trimmed))
	if n < minBankLine || n > maxBankLine {
		return BankCandidate{}, false
	}

	lower := strings.ToLower(trimmed)
	if c.boilerplate.MatchString(lower) {
		return BankCandidate{}, false
	}
	if c.issuer != "" && comparableName(trimmed) == c.issuer {
		return BankCandidate{}, false
	}
	if !hasEntitySuffix(trimmed, c.table.Banks.Suffixes) {
		return BankCandidate{}, false
	}

	first := []rune(trimmed)[0]
	if !unicode.IsUpper(first) && !strings.HasPrefix(trimmed, "The ") {
		return BankCandidate{}, false
	}

	return BankCandidate{Raw: trimmed, Normalized: c.Normalize(trimmed)}, true
}

// Normalize maps a raw bank name to its canonical short form. Total and
// idempotent: unknown names fall back to the cleaned raw name with legal
// and jurisdiction qualifiers stripped.
func (c *BankClassifier) Normalize(raw string) string {
	cleaned := collapseSpaces(strings.TrimRight(strings.TrimSpace(raw), ",;"))
	if cleaned == "" {
		return ""
	}

	lower := strings.ToLower(cleaned)
	for _, a := range c.table.Banks.Aliases {
		if strings.Contains(lower, a.Match) {
			return a.Canonical
		}
	}

	// No alias: strip parenthesized qualifiers, then trailing legal and
	// jurisdiction qualifiers until a fixpoint.
	out := collapseSpaces(parenRe.ReplaceAllString(cleaned, " "))
	for {
		next := strings.TrimRight(strings.TrimSpace(out), ",;")
		lowerOut := strings.ToLower(next)
		for _, q := range c.table.Banks.StripQualifiers {
			if lowerOut == q {
				next = ""
				break
			}
			if strings.HasSuffix(lowerOut, " "+q) {
				next = strings.TrimSpace(next[:len(next)-len(q)-1])
				break
			}
		}
		if next == out {
			break
		}
		out = next
		if out == "" {
			break
		}
	}

	if out == "" {
		return cleaned
	}
	return out
}

var parenRe = regexp.MustCompile(`\([^)]*\)`)

// hasEntitySuffix reports whether the line ends with a recognized
// legal-entity suffix on a word boundary.
func hasEntitySuffix(line string, suffixes []string) bool {
	lower := strings.ToLower(strings.TrimRight(strings.TrimSpace(line), ",;"))
	for _, suf := range suffixes {
		if !strings.HasSuffix(lower, suf) {
			continue
		}
		if len(lower) == len(suf) {
			return true
		}
		prev := lower[len(lower)-len(suf)-1]
		if prev == ' ' || prev == ',' || prev == '.' {
			return true
		}
	}
	return false
}

// comparableName lowers a name and strips punctuation so "ABC Holdings
// Ltd." and "abc holdings ltd" compare equal.
func comparableName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return collapseSpaces(b.String())
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
