package syndicate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"syndex/internal/document"
	"syndex/internal/pagetext"
	"syndex/internal/rules"
)

// Options carries per-document extraction inputs.
type Options struct {
	// Filename, when known, selects the page-text provider by extension;
	// otherwise the format is sniffed from the bytes.
	Filename string

	// IssuerName is the listing company's own name, rejected as a bank
	// candidate. Inferred from the cover page when empty.
	IssuerName string
}

// ExtractionResult is the engine's complete answer for one document.
// "No section" and "no banks" are data here, not errors.
type ExtractionResult struct {
	SectionFound   bool           `json:"sectionFound"`
	SectionPage    int            `json:"sectionPage,omitempty"`
	Appointments   []*Appointment `json:"appointments"`
	RawSectionText string         `json:"rawSectionText"`
	RuleVersion    int            `json:"ruleVersion"`
	Issuer         string         `json:"issuer,omitempty"`
}

// MarshalJSON serializes an appointment in the shape the downstream
// storage collaborator expects.
func (a *Appointment) MarshalJSON() ([]byte, error) {
	roles := make([]string, 0, len(a.Roles))
	for _, r := range a.Roles {
		roles = append(roles, r.String())
	}
	return json.Marshal(struct {
		Bank           string   `json:"bank"`
		NormalizedBank string   `json:"normalizedBank"`
		Roles          []string `json:"roles"`
		IsLead         bool     `json:"isLead"`
		RawRole        string   `json:"rawRole"`
	}{a.Bank, a.Normalized, roles, a.IsLead, strings.Join(a.RawRoles, "; ")})
}

// UnmarshalJSON accepts the wire shape back, so Go clients can round-trip
// job results.
func (a *Appointment) UnmarshalJSON(data []byte) error {
	var wire struct {
		Bank           string   `json:"bank"`
		NormalizedBank string   `json:"normalizedBank"`
		Roles          []string `json:"roles"`
		IsLead         bool     `json:"isLead"`
		RawRole        string   `json:"rawRole"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	a.Bank = wire.Bank
	a.Normalized = wire.NormalizedBank
	a.IsLead = wire.IsLead
	a.Roles = nil
	for _, name := range wire.Roles {
		if r, ok := rolesByName[name]; ok {
			a.Roles = append(a.Roles, r)
		}
	}
	a.RawRoles = nil
	if wire.RawRole != "" {
		a.RawRoles = strings.Split(wire.RawRole, "; ")
	}
	return nil
}

// Engine is the extraction orchestrator: page text, then section location,
// then appointment extraction. Stateless between calls; a single Engine is
// shared by concurrent workers.
type Engine struct {
	table       *rules.Table
	roles       *RoleClassifier
	log         *slog.Logger
	pdfFallback bool
}

func NewEngine(table *rules.Table, log *slog.Logger, pdfFallback bool) *Engine {
	return &Engine{
		table:       table,
		roles:       NewRoleClassifier(table),
		log:         log,
		pdfFallback: pdfFallback,
	}
}

// Extract recovers the underwriting syndicate from raw document bytes.
// Unparseable bytes fail fast with an error wrapping pagetext.ErrMalformed;
// a missing section or an empty syndicate comes back as data.
func (e *Engine) Extract(data []byte, opts Options) (*ExtractionResult, error) {
	var provider pagetext.Provider
	var err error
	if opts.Filename != "" && pagetext.IsSupportedExtension(opts.Filename) {
		provider, err = pagetext.ForFile(opts.Filename)
		if err != nil {
			return nil, err
		}
	} else {
		provider = pagetext.ForData(data)
	}
	if pdf, ok := provider.(*pagetext.PDFProvider); ok {
		pdf.FallbackPdftotext = e.pdfFallback
	}

	doc, err := provider.Extract(data)
	if err != nil {
		return nil, fmt.Errorf("extract page text: %w", err)
	}
	return e.ExtractDocument(doc, opts.IssuerName), nil
}

// ExtractDocument runs the engine over already-extracted page text.
func (e *Engine) ExtractDocument(doc *document.Document, issuerName string) *ExtractionResult {
	if issuerName == "" {
		issuerName = e.inferIssuer(doc)
	}

	banks := NewBankClassifier(e.table, issuerName)
	extractor := NewAppointmentExtractor(e.table, e.roles, banks)
	locator := NewSectionLocator(e.table, e.roles, extractor)

	fullText := doc.FullText()
	cand, found := locator.Locate(fullText)

	res := &ExtractionResult{
		SectionFound:   found,
		Appointments:   []*Appointment{},
		RawSectionText: strings.TrimSpace(cand.Phrase + cand.Window),
		RuleVersion:    e.table.Version,
		Issuer:         issuerName,
	}
	if cand.Phrase != "" {
		res.SectionPage = doc.PageAt(cand.Start)
	}
	if !found {
		e.log.Info("syndicate section not found", "candidates_page", res.SectionPage, "issuer", issuerName)
		return res
	}

	res.Appointments = extractor.Extract(cand.Window)
	e.log.Info("syndicate extracted",
		"page", res.SectionPage,
		"appointments", len(res.Appointments),
		"issuer", issuerName,
		"rule_version", e.table.Version,
	)
	return res
}

// inferIssuer takes the first company-shaped line on the cover page as the
// issuer's name. Cover pages print the listing company before anything
// else that would pass the bank classifier.
func (e *Engine) inferIssuer(doc *document.Document) string {
	if len(doc.Pages) == 0 {
		return ""
	}
	probe := NewBankClassifier(e.table, "")
	for _, line := range strings.Split(doc.Pages[0].Text, "\n") {
		if cand, ok := probe.Classify(line); ok {
			return cand.Raw
		}
	}
	return ""
}
