package outline

import (
	"context"
	"errors"
	"testing"

	"github.com/eykd/linemark/internal/domain"
)

func collectMatches(t *testing.T, svc *Service, q SearchQuery) []Match {
	t.Helper()
	var out []Match
	err := svc.Search(context.Background(), q, func(m Match) error {
		out = append(out, m)
		return nil
	})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	return out
}

func TestSearch_OrdersByPathThenLine(t *testing.T) {
	svc, files, _ := newTestService()

	a := mustAdd(t, svc, "A", Placement{})
	b := mustAdd(t, svc, "B", Placement{ChildOf: a.ID})
	c := mustAdd(t, svc, "C", Placement{})

	writeBody(t, svc, files, c.ID, domain.DoctypeDraft, "needle late\n")
	writeBody(t, svc, files, a.ID, domain.DoctypeDraft, "no hit\nneedle one\nneedle two\n")
	writeBody(t, svc, files, b.ID, domain.DoctypeDraft, "needle nested\n")

	matches := collectMatches(t, svc, SearchQuery{Pattern: "needle"})
	if len(matches) != 4 {
		t.Fatalf("len(matches) = %d, want 4: %v", len(matches), matches)
	}

	wantOrder := []struct {
		mp   string
		line int
	}{
		{"100", 2}, {"100", 3}, {"100-100", 1}, {"200", 1},
	}
	for i, want := range wantOrder {
		if matches[i].MP != want.mp || matches[i].Line != want.line {
			t.Errorf("matches[%d] = %s:%d, want %s:%d", i, matches[i].MP, matches[i].Line, want.mp, want.line)
		}
	}
}

func TestSearch_CaseInsensitiveByDefault(t *testing.T) {
	svc, files, _ := newTestService()
	a := mustAdd(t, svc, "A", Placement{})
	writeBody(t, svc, files, a.ID, domain.DoctypeDraft, "The NEEDLE here\n")

	if got := collectMatches(t, svc, SearchQuery{Pattern: "needle"}); len(got) != 1 {
		t.Errorf("case-insensitive matches = %d, want 1", len(got))
	}
	if got := collectMatches(t, svc, SearchQuery{Pattern: "needle", CaseSensitive: true}); len(got) != 0 {
		t.Errorf("case-sensitive matches = %d, want 0", len(got))
	}
}

func TestSearch_LiteralEscapesPattern(t *testing.T) {
	svc, files, _ := newTestService()
	a := mustAdd(t, svc, "A", Placement{})
	writeBody(t, svc, files, a.ID, domain.DoctypeDraft, "a.b literal dot\nacb regex dot\n")

	literal := collectMatches(t, svc, SearchQuery{Pattern: "a.b", Literal: true})
	if len(literal) != 1 || literal[0].Line != 1 {
		t.Errorf("literal matches = %v, want only line 1", literal)
	}
	regex := collectMatches(t, svc, SearchQuery{Pattern: "a.b"})
	if len(regex) != 2 {
		t.Errorf("regex matches = %d, want 2", len(regex))
	}
}

func TestSearch_DotAllSpansLines(t *testing.T) {
	svc, files, _ := newTestService()
	a := mustAdd(t, svc, "A", Placement{})
	writeBody(t, svc, files, a.ID, domain.DoctypeDraft, "first\nsecond\n")

	matches := collectMatches(t, svc, SearchQuery{Pattern: "first.second", DotAll: true})
	if len(matches) != 1 {
		t.Fatalf("dotall matches = %d, want 1", len(matches))
	}
	if matches[0].Line != 1 {
		t.Errorf("match reported on line %d, want 1 (where it starts)", matches[0].Line)
	}

	if got := collectMatches(t, svc, SearchQuery{Pattern: "first.second"}); len(got) != 0 {
		t.Errorf("without dotall, matches = %d, want 0", len(got))
	}
}

func TestSearch_DoctypeFilterAcceptsGlobs(t *testing.T) {
	svc, files, _ := newTestService()
	ctx := context.Background()

	a := mustAdd(t, svc, "A", Placement{})
	if _, err := svc.AddType(ctx, mustRef(t, a.ID), "research"); err != nil {
		t.Fatalf("AddType error: %v", err)
	}
	writeBody(t, svc, files, a.ID, domain.DoctypeDraft, "needle in draft\n")
	writeBody(t, svc, files, a.ID, domain.DoctypeNotes, "needle in notes\n")
	writeBody(t, svc, files, a.ID, "research", "needle in research\n")

	all := collectMatches(t, svc, SearchQuery{Pattern: "needle"})
	if len(all) != 3 {
		t.Fatalf("unfiltered matches = %d, want 3", len(all))
	}

	notesOnly := collectMatches(t, svc, SearchQuery{Pattern: "needle", Doctypes: []string{"notes"}})
	if len(notesOnly) != 1 || notesOnly[0].Doctype != "notes" {
		t.Errorf("notes matches = %v", notesOnly)
	}

	globbed := collectMatches(t, svc, SearchQuery{Pattern: "needle", Doctypes: []string{"r*"}})
	if len(globbed) != 1 || globbed[0].Doctype != "research" {
		t.Errorf("glob matches = %v", globbed)
	}
}

func TestSearch_SubtreeByPathPrefix(t *testing.T) {
	svc, files, _ := newTestService()

	a := mustAdd(t, svc, "A", Placement{})
	b := mustAdd(t, svc, "B", Placement{ChildOf: a.ID})
	c := mustAdd(t, svc, "C", Placement{})

	writeBody(t, svc, files, a.ID, domain.DoctypeDraft, "needle\n")
	writeBody(t, svc, files, b.ID, domain.DoctypeDraft, "needle\n")
	writeBody(t, svc, files, c.ID, domain.DoctypeDraft, "needle\n")

	ref := mustRef(t, "100")
	matches := collectMatches(t, svc, SearchQuery{Pattern: "needle", Subtree: &ref})
	if len(matches) != 2 {
		t.Errorf("subtree matches = %d, want 2", len(matches))
	}
}

func TestSearch_InvalidRegexFailsBeforeScanning(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.Search(context.Background(), SearchQuery{Pattern: "(unclosed"}, func(Match) error {
		t.Fatal("emit must not be called for an invalid pattern")
		return nil
	})
	if !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("error = %v, want ErrInvalidPattern", err)
	}
}

func TestSearch_LossyUTF8NeverCrashes(t *testing.T) {
	svc, files, _ := newTestService()
	a := mustAdd(t, svc, "A", Placement{})
	files.files["100_"+a.ID+"_draft_a.md"] = "needle \xff\xfe broken\n"

	matches := collectMatches(t, svc, SearchQuery{Pattern: "needle"})
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matches))
	}
	for _, r := range matches[0].Text {
		if r == 0xFFFD {
			return // replacement character present, bytes were sanitized
		}
	}
	t.Error("expected replacement characters in sanitized line")
}

func TestSearch_RecordsSpanWithinLine(t *testing.T) {
	svc, files, _ := newTestService()
	a := mustAdd(t, svc, "A", Placement{})
	writeBody(t, svc, files, a.ID, domain.DoctypeDraft, "xx needle xx\n")

	matches := collectMatches(t, svc, SearchQuery{Pattern: "needle"})
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matches))
	}
	m := matches[0]
	if m.Text[m.Start:m.End] != "needle" {
		t.Errorf("span [%d:%d] of %q = %q, want needle", m.Start, m.End, m.Text, m.Text[m.Start:m.End])
	}
}

func TestSearch_EmitErrorStopsScan(t *testing.T) {
	svc, files, _ := newTestService()
	a := mustAdd(t, svc, "A", Placement{})
	writeBody(t, svc, files, a.ID, domain.DoctypeDraft, "needle\nneedle\n")

	stop := errors.New("stop")
	count := 0
	err := svc.Search(context.Background(), SearchQuery{Pattern: "needle"}, func(Match) error {
		count++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("error = %v, want stop", err)
	}
	if count != 1 {
		t.Errorf("emit called %d times, want 1", count)
	}
}
