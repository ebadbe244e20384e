package syndicate

import (
	"regexp"
	"strings"

	"syndex/internal/rules"
)

// SectionCandidate is one occurrence of the section title and its
// surrounding text window.
type SectionCandidate struct {
	Start  int    // byte offset of the title match in the full text
	Phrase string // matched title text as printed
	Window string // bounded context after the title

	toc       bool
	qualifies bool
	bankCount int
}

// SectionLocator finds the authoritative "parties involved" section among
// the title's table-of-contents, cross-reference and content occurrences.
type SectionLocator struct {
	table     *rules.Table
	roles     *RoleClassifier
	extractor *AppointmentExtractor
}

func NewSectionLocator(table *rules.Table, roles *RoleClassifier, extractor *AppointmentExtractor) *SectionLocator {
	return &SectionLocator{table: table, roles: roles, extractor: extractor}
}

// dot-leader run then a page number, the table-of-contents shape.
var tocLeaderRe = regexp.MustCompile(`^[ \t]*\.{3,}[ .\t]*\d{1,4}`)

// bare page number right after the title is also a contents entry.
var tocPageRe = regexp.MustCompile(`^[ \t]*\.{0,2}[ \t]*\d{1,4}[ \t]*(?:\n|$)`)

// Locate returns the best candidate and whether any window qualified as
// authoritative content. When none does, the best-scoring candidate is
// still returned so callers can surface it for diagnosis.
func (l *SectionLocator) Locate(fullText string) (SectionCandidate, bool) {
	title := l.table.Section.SectionTitle()
	matches := title.FindAllStringIndex(fullText, -1)
	if len(matches) == 0 {
		return SectionCandidate{}, false
	}

	candidates := make([]SectionCandidate, 0, len(matches))
	for _, m := range matches {
		cand := SectionCandidate{
			Start:  m[0],
			Phrase: fullText[m[0]:m[1]],
			Window: boundedWindow(fullText, m[1], l.table.Section.WindowMax),
		}
		cand.toc = l.isContentsEntry(cand.Window)
		if !cand.toc && l.hasRoleHeading(cand.Window) {
			cand.qualifies = true
			cand.bankCount = len(l.extractor.Extract(cand.Window))
		}
		candidates = append(candidates, cand)
	}

	// Prefer the window whose trial parse yields the most banks; later
	// occurrences are sometimes short restating cross-references, so
	// neither first nor last wins by position alone.
	best := -1
	for i, cand := range candidates {
		if !cand.qualifies {
			continue
		}
		if best < 0 || cand.bankCount > candidates[best].bankCount {
			best = i
		}
	}
	if best >= 0 {
		return candidates[best], true
	}

	// Nothing qualified: surface the most promising non-TOC window, else
	// the first occurrence.
	for _, cand := range candidates {
		if !cand.toc {
			return cand, false
		}
	}
	return candidates[0], false
}

// isContentsEntry recognizes table-of-contents and cross-reference shapes:
// a dot-leader run to a page number, or a bare page number with no section
// body following.
func (l *SectionLocator) isContentsEntry(window string) bool {
	if tocLeaderRe.MatchString(window) {
		return true
	}
	firstLine, rest, _ := strings.Cut(window, "\n")
	if tocPageRe.MatchString(firstLine + "\n") {
		// A genuine section can put its page number on the title line;
		// only treat this as a contents entry when no role heading
		// follows shortly after.
		head := rest
		if len(head) > 200 {
			head = head[:200]
		}
		return !l.hasRoleHeading(head)
	}
	return false
}

// hasRoleHeading reports whether any line or tab cell in the window
// classifies as a role heading.
func (l *SectionLocator) hasRoleHeading(window string) bool {
	for _, line := range strings.Split(window, "\n") {
		for _, cell := range strings.Split(line, "\t") {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if m, rest := l.roles.MatchPrefix(cell); m != nil {
				if rest == "" {
					return true
				}
				// Tab lost between heading and bank still counts.
				if _, ok := l.extractor.banks.Classify(rest); ok {
					return true
				}
			}
		}
	}
	return false
}

func boundedWindow(text string, from, max int) string {
	if from >= len(text) {
		return ""
	}
	end := from + max
	if end > len(text) {
		end = len(text)
	}
	return text[from:end]
}
