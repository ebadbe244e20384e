// Package rules holds the versioned extraction rule table. The table is
// loaded once from the embedded YAML and is read-only afterwards, so a
// single instance can be shared by any number of concurrent extractions.
package rules

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v2"
)

//go:embed rules.yaml
var rawTable []byte

// Heading is one role-heading phrasing and the roles it confers.
type Heading struct {
	Match string   `yaml:"match"`
	Roles []string `yaml:"roles"`

	// prefix matches the phrasing at the start of a line, tolerating a
	// lost tab between the heading and a trailing bank name.
	prefix *regexp.Regexp
}

// Keyword is a fallback containment rule mapping to a single role.
type Keyword struct {
	Contains string `yaml:"contains"`
	Role     string `yaml:"role"`
}

// Alias maps a raw bank-name fragment to its canonical short form.
type Alias struct {
	Match     string `yaml:"match"`
	Canonical string `yaml:"canonical"`
}

// RoleRules configures the role classifier.
type RoleRules struct {
	Priorities map[string]int `yaml:"priorities"`
	Headings   []Heading      `yaml:"headings"`
	Keywords   []Keyword      `yaml:"keywords"`
}

// BankRules configures the bank name classifier.
type BankRules struct {
	Suffixes        []string `yaml:"suffixes"`
	Boilerplate     []string `yaml:"boilerplate"`
	Aliases         []Alias  `yaml:"aliases"`
	StripQualifiers []string `yaml:"strip_qualifiers"`
}

// SectionRules configures the section locator and appointment extractor.
type SectionRules struct {
	TitlePattern string   `yaml:"title_pattern"`
	Terminators  []string `yaml:"terminators"`
	WindowMin    int      `yaml:"window_min"`
	WindowMax    int      `yaml:"window_max"`
	Lookahead    int      `yaml:"lookahead"`

	title *regexp.Regexp
}

// Table is the full rule set. Immutable after Load.
type Table struct {
	Version int          `yaml:"version"`
	Roles   RoleRules    `yaml:"roles"`
	Banks   BankRules    `yaml:"banks"`
	Section SectionRules `yaml:"section"`
}

// Load parses and validates the embedded rule table.
func Load() (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(rawTable, &t); err != nil {
		return nil, fmt.Errorf("parse rule table: %w", err)
	}
	if err := t.compile(); err != nil {
		return nil, err
	}
	return &t, nil
}

// MustLoad is Load for construction paths where a broken embedded table is
// a programming error.
func MustLoad() *Table {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) compile() error {
	if t.Version <= 0 {
		return fmt.Errorf("rule table missing version")
	}
	if len(t.Roles.Headings) == 0 {
		return fmt.Errorf("rule table has no role headings")
	}
	if len(t.Banks.Suffixes) == 0 {
		return fmt.Errorf("rule table has no entity suffixes")
	}

	for role := range map[string]bool{"sponsor": true, "coordinator": true, "bookrunner": true, "leadManager": true, "other": true} {
		if _, ok := t.Roles.Priorities[role]; !ok {
			return fmt.Errorf("rule table missing priority for role %q", role)
		}
	}

	for i := range t.Roles.Headings {
		h := &t.Roles.Headings[i]
		if len(h.Roles) == 0 {
			return fmt.Errorf("heading %q names no roles", h.Match)
		}
		for _, r := range h.Roles {
			if _, ok := t.Roles.Priorities[r]; !ok {
				return fmt.Errorf("heading %q names unknown role %q", h.Match, r)
			}
		}
		re, err := compileHeadingPrefix(h.Match)
		if err != nil {
			return fmt.Errorf("heading %q: %w", h.Match, err)
		}
		h.prefix = re
	}

	if t.Section.TitlePattern == "" {
		return fmt.Errorf("rule table missing section title pattern")
	}
	re, err := regexp.Compile(t.Section.TitlePattern)
	if err != nil {
		return fmt.Errorf("section title pattern: %w", err)
	}
	t.Section.title = re

	if t.Section.WindowMin <= 0 {
		t.Section.WindowMin = 500
	}
	if t.Section.WindowMax < t.Section.WindowMin {
		t.Section.WindowMax = 2000
	}
	if t.Section.Lookahead <= 0 {
		t.Section.Lookahead = 6
	}
	return nil
}

// compileHeadingPrefix turns a heading phrasing into a case-insensitive
// prefix matcher whose first capture group is whatever trails the heading
// (empty for a bare heading line, a bank name for a merged one).
func compileHeadingPrefix(phrase string) (*regexp.Regexp, error) {
	words := strings.Fields(phrase)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	// Dashes inside phrasings ("co-lead") also appear spaced or lost in
	// degraded text, so loosen them.
	pat := strings.Join(words, `[\s]+`)
	pat = strings.ReplaceAll(pat, `co-`, `co[\s-]?`)
	return regexp.Compile(`(?i)^[\s]*` + pat + `\b[\s]*[:\x{2013}\x{2014}-]?[\s]*(.*)$`)
}

// HeadingPrefix reports whether line starts with this heading phrasing and
// returns the trailing remainder.
func (h *Heading) HeadingPrefix(line string) (rest string, ok bool) {
	m := h.prefix.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// SectionTitle returns the compiled section-title regex.
func (s *SectionRules) SectionTitle() *regexp.Regexp {
	return s.title
}
