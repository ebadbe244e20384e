package rules

import (
	"testing"
)

func TestLoad_EmbeddedTable(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Version <= 0 {
		t.Errorf("expected positive version, got %d", table.Version)
	}
	if len(table.Roles.Headings) == 0 {
		t.Error("expected role headings")
	}
	if len(table.Banks.Aliases) == 0 {
		t.Error("expected bank aliases")
	}
	if table.Section.SectionTitle() == nil {
		t.Fatal("expected compiled section title pattern")
	}
}

func TestLoad_PrioritiesCoverAllRoles(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, role := range []string{"sponsor", "coordinator", "bookrunner", "leadManager", "other"} {
		if _, ok := table.Roles.Priorities[role]; !ok {
			t.Errorf("missing priority for role %q", role)
		}
	}
	if table.Roles.Priorities["sponsor"] >= table.Roles.Priorities["coordinator"] {
		t.Error("sponsor must rank above coordinator")
	}
	if table.Roles.Priorities["leadManager"] >= table.Roles.Priorities["other"] {
		t.Error("leadManager must rank above other")
	}
}

func TestHeadingPrefix_BareHeading(t *testing.T) {
	table := MustLoad()
	for _, h := range table.Roles.Headings {
		if h.Match != "sole sponsor" {
			continue
		}
		rest, ok := h.HeadingPrefix("Sole Sponsor")
		if !ok {
			t.Fatal("expected prefix match")
		}
		if rest != "" {
			t.Errorf("expected empty remainder, got %q", rest)
		}
		return
	}
	t.Fatal("sole sponsor heading missing from table")
}

func TestHeadingPrefix_TrailingBankName(t *testing.T) {
	table := MustLoad()
	for _, h := range table.Roles.Headings {
		if h.Match != "sole sponsor" {
			continue
		}
		rest, ok := h.HeadingPrefix("Sole Sponsor Deutsche Securities Asia Limited")
		if !ok {
			t.Fatal("expected prefix match")
		}
		if rest != "Deutsche Securities Asia Limited" {
			t.Errorf("unexpected remainder: %q", rest)
		}
		return
	}
	t.Fatal("sole sponsor heading missing from table")
}

func TestHeadingPrefix_NoMatchInsideWord(t *testing.T) {
	table := MustLoad()
	for _, h := range table.Roles.Headings {
		if h.Match != "sponsor" {
			continue
		}
		if _, ok := h.HeadingPrefix("Sponsorship arrangements"); ok {
			t.Error("must not match inside a longer word")
		}
		return
	}
	t.Fatal("sponsor heading missing from table")
}

func TestSectionTitle_Variants(t *testing.T) {
	table := MustLoad()
	re := table.Section.SectionTitle()

	for _, title := range []string{
		"PARTIES INVOLVED IN THE GLOBAL OFFERING",
		"Parties Involved in the Offering",
		"DIRECTORS AND PARTIES INVOLVED IN THE SHARE OFFERING",
		"parties involved in the\nglobal offering",
	} {
		if !re.MatchString(title) {
			t.Errorf("expected title pattern to match %q", title)
		}
	}

	for _, text := range []string{
		"parties to the underwriting agreement",
		"involved in the offering of services",
	} {
		if re.MatchString(text) {
			t.Errorf("title pattern must not match %q", text)
		}
	}
}
