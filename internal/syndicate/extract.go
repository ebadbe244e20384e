package syndicate

import (
	"sort"
	"strings"

	"syndex/internal/rules"
)

// Appointment is one bank's merged syndicate appointment. At most one
// exists per normalized bank name per document.
type Appointment struct {
	Bank       string      // raw name as printed, first occurrence wins
	Normalized string      // canonical short form
	Roles      []RoleToken // union of roles, insertion ordered, no duplicates
	RawRoles   []string    // heading text as printed, ordered set
	IsLead     bool
}

func (a *Appointment) hasRole(r RoleToken) bool {
	for _, have := range a.Roles {
		if have == r {
			return true
		}
	}
	return false
}

func (a *Appointment) addRoles(m *RoleMatch) {
	for _, r := range m.Roles {
		if !a.hasRole(r) {
			a.Roles = append(a.Roles, r)
		}
	}
	for _, raw := range a.RawRoles {
		if raw == m.Raw {
			return
		}
	}
	a.RawRoles = append(a.RawRoles, m.Raw)
}

// AppointmentExtractor walks an authoritative section and pairs role
// headings with the banks that follow them.
type AppointmentExtractor struct {
	table *rules.Table
	roles *RoleClassifier
	banks *BankClassifier
}

func NewAppointmentExtractor(table *rules.Table, roles *RoleClassifier, banks *BankClassifier) *AppointmentExtractor {
	return &AppointmentExtractor{table: table, roles: roles, banks: banks}
}

// Extract runs the heading/bank state machine over the section text.
// Headings switch the current role context; bank lines emit or merge
// appointments under it; boilerplate is skipped within a bounded lookahead
// before the context resets.
func (e *AppointmentExtractor) Extract(section string) []*Appointment {
	var (
		byBank  = make(map[string]*Appointment)
		order   []string
		current *RoleMatch
		misses  int
	)

	emit := func(cand BankCandidate, m *RoleMatch) {
		app, ok := byBank[cand.Normalized]
		if !ok {
			app = &Appointment{Bank: cand.Raw, Normalized: cand.Normalized}
			byBank[cand.Normalized] = app
			order = append(order, cand.Normalized)
		}
		app.addRoles(m)
	}

	for _, line := range strings.Split(section, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if e.isTerminator(trimmed) {
			break
		}

		recognized := false
		for _, cell := range strings.Split(line, "\t") {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}

			if m, rest := e.roles.MatchPrefix(cell); m != nil {
				if rest == "" {
					current, recognized = m, true
					continue
				}
				// Lost tab: heading and bank merged into one cell.
				if cand, ok := e.banks.Classify(rest); ok {
					current, recognized = m, true
					emit(cand, m)
					continue
				}
			}

			if cand, ok := e.banks.Classify(cell); ok {
				if current != nil {
					emit(cand, current)
					recognized = true
				}
				continue
			}

			if m := e.roles.Classify(cell); m != nil {
				current, recognized = m, true
			}
		}

		if recognized {
			misses = 0
			continue
		}
		// Address lines, telephone numbers and other noise between a
		// heading and its banks. Bounded so prose after the section's
		// tail cannot keep collecting under a stale heading.
		if current != nil {
			misses++
			if misses > e.table.Section.Lookahead {
				current = nil
				misses = 0
			}
		}
	}

	out := make([]*Appointment, 0, len(order))
	for _, key := range order {
		out = append(out, byBank[key])
	}
	e.flagLeads(out)

	sort.SliceStable(out, func(i, j int) bool {
		return e.minPriority(out[i]) < e.minPriority(out[j])
	})
	return out
}

// flagLeads applies the lead invariant: IsLead is true for exactly the
// appointments holding the minimum-priority role present, and false for
// everyone when no appointment carries a recognized role.
func (e *AppointmentExtractor) flagLeads(apps []*Appointment) {
	unrecognized := e.roles.Priority(RoleOther)
	best := unrecognized
	for _, app := range apps {
		if p := e.minPriority(app); p < best {
			best = p
		}
	}
	for _, app := range apps {
		app.IsLead = best < unrecognized && e.minPriority(app) == best
	}
}

func (e *AppointmentExtractor) minPriority(app *Appointment) int {
	min := e.roles.Priority(RoleOther)
	for _, r := range app.Roles {
		if p := e.roles.Priority(r); p < min {
			min = p
		}
	}
	return min
}

func (e *AppointmentExtractor) isTerminator(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	for _, term := range e.table.Section.Terminators {
		if strings.HasPrefix(lower, term) {
			return true
		}
	}
	return false
}
