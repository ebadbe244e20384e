package syndicate

import (
	"strings"

	"syndex/internal/rules"
)

// RoleToken is a normalized syndicate function.
type RoleToken int

const (
	RoleSponsor RoleToken = iota
	RoleCoordinator
	RoleBookrunner
	RoleLeadManager
	RoleOther
)

var roleNames = map[RoleToken]string{
	RoleSponsor:     "sponsor",
	RoleCoordinator: "coordinator",
	RoleBookrunner:  "bookrunner",
	RoleLeadManager: "leadManager",
	RoleOther:       "other",
}

var rolesByName = map[string]RoleToken{
	"sponsor":     RoleSponsor,
	"coordinator": RoleCoordinator,
	"bookrunner":  RoleBookrunner,
	"leadManager": RoleLeadManager,
	"other":       RoleOther,
}

func (r RoleToken) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "other"
}

// RoleMatch is the classification of one heading line.
type RoleMatch struct {
	Roles    []RoleToken
	Priority int // minimum priority among Roles; lower is more senior
	Raw      string
}

// RoleClassifier maps heading lines to taxonomy roles using the ordered
// heading table, with a keyword fallback for role-shaped lines that no
// pattern covers. Safe for concurrent use.
type RoleClassifier struct {
	table *rules.Table
}

func NewRoleClassifier(table *rules.Table) *RoleClassifier {
	return &RoleClassifier{table: table}
}

// Priority returns the table priority for a role token.
func (c *RoleClassifier) Priority(r RoleToken) int {
	return c.table.Roles.Priorities[r.String()]
}

// Classify matches a suspected heading line. Returns nil when the line is
// not role-shaped at all.
func (c *RoleClassifier) Classify(line string) *RoleMatch {
	if m, rest := c.MatchPrefix(line); m != nil && rest == "" {
		return m
	}
	return c.keywordFallback(line)
}

// MatchPrefix matches a heading phrasing at the start of the line and
// returns whatever trails it. Degraded extractions lose the tab between a
// heading and its bank, so the remainder may be a bank name.
func (c *RoleClassifier) MatchPrefix(line string) (*RoleMatch, string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, ""
	}
	norm := normalizeHeadingText(trimmed)
	for i := range c.table.Roles.Headings {
		h := &c.table.Roles.Headings[i]
		rest, ok := h.HeadingPrefix(norm)
		if !ok {
			continue
		}
		m := &RoleMatch{Raw: trimmed}
		for _, name := range h.Roles {
			m.Roles = append(m.Roles, rolesByName[name])
		}
		m.Priority = c.minPriority(m.Roles)
		if rest != "" {
			// Keep only the heading portion as the audit text. The
			// remainder comes from the normalized text; it only differs
			// from the raw line in dash and NBSP unification, which the
			// bank classifier tolerates.
			m.Raw = strings.TrimRight(strings.TrimSpace(norm[:len(norm)-len(rest)]), " :-")
		}
		return m, rest
	}
	return nil, ""
}

// keywordFallback classifies lines that look like a role heading but
// matched no pattern. False negatives cost more than imprecision here, so
// substring containment is enough; lines shaped like bank names (trailing
// entity suffix) never fall through to this.
func (c *RoleClassifier) keywordFallback(line string) *RoleMatch {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > 80 {
		return nil
	}
	if hasEntitySuffix(trimmed, c.table.Banks.Suffixes) {
		return nil
	}
	lower := strings.ToLower(trimmed)
	for _, kw := range c.table.Roles.Keywords {
		if strings.Contains(lower, kw.Contains) {
			m := &RoleMatch{
				Roles: []RoleToken{rolesByName[kw.Role]},
				Raw:   trimmed,
			}
			m.Priority = c.minPriority(m.Roles)
			return m
		}
	}
	return nil
}

func (c *RoleClassifier) minPriority(roles []RoleToken) int {
	min := c.Priority(RoleOther)
	for _, r := range roles {
		if p := c.Priority(r); p < min {
			min = p
		}
	}
	return min
}

// normalizeHeadingText unifies the whitespace and dash variants seen across
// typesetters so one pattern matches them all.
func normalizeHeadingText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '–', '—', '‐', '‑':
			b.WriteRune('-')
		case ' ', '\t':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
