package outline

import (
	"context"
	"fmt"

	"github.com/eykd/linemark/internal/domain"
	"github.com/eykd/linemark/internal/frontmatter"
)

// Repair records one fix the repairer applied.
type Repair struct {
	Class string `json:"class"`
	Name  string `json:"name"`
}

// DoctorResult carries every violation found, plus the repairs applied
// when repair mode is on. Valid means no error-severity findings
// remain; warnings flag conditions that are legal but suspect.
type DoctorResult struct {
	Findings []domain.Finding `json:"findings"`
	Repairs  []Repair         `json:"repairs,omitempty"`
	Valid    bool             `json:"valid"`
}

// hasErrors reports whether any finding is error-severity.
func hasErrors(findings []domain.Finding) bool {
	for _, f := range findings {
		if f.Severity == domain.SeverityError {
			return true
		}
	}
	return false
}

// Doctor validates the directory against the outline invariants,
// accumulating every violation. With repair on, it creates missing
// required doctype files and re-validates; the remaining classes are
// reported but never auto-fixed, since fixing them would destroy data.
func (s *Service) Doctor(ctx context.Context, repair bool) (*DoctorResult, error) {
	if repair {
		if err := s.locker.TryLock(ctx); err != nil {
			return nil, err
		}
		defer s.locker.Unlock()
	}

	findings, plan, repairs, err := s.check(ctx)
	if err != nil {
		return nil, err
	}

	if repair && len(plan.Ops) > 0 {
		if err := s.execute(ctx, plan); err != nil {
			return nil, err
		}
		findings, _, _, err = s.check(ctx)
		if err != nil {
			return nil, err
		}
		return &DoctorResult{Findings: findings, Repairs: repairs, Valid: !hasErrors(findings)}, nil
	}

	return &DoctorResult{Findings: findings, Valid: !hasErrors(findings)}, nil
}

// check runs the validation passes in order and prepares the repair
// plan for the one class that is safe to fix automatically.
func (s *Service) check(ctx context.Context) ([]domain.Finding, domain.Plan, []Repair, error) {
	// Classes 1-3 (unparseable names, duplicate ids, duplicate paths)
	// fall out of the directory scan itself.
	loaded, err := s.Load(ctx)
	if err != nil {
		return nil, domain.Plan{}, nil, err
	}
	findings := loaded.Findings
	outline := loaded.Outline

	var plan domain.Plan
	var repairs []Repair

	// Class 4: missing required doctypes.
	for _, n := range outline.Nodes() {
		for _, required := range []string{domain.DoctypeDraft, domain.DoctypeNotes} {
			if n.HasDoctype(required) {
				continue
			}
			findings = append(findings, domain.Finding{
				Class:    domain.FindingMissingDoctype,
				Severity: domain.SeverityError,
				Message:  fmt.Sprintf("node %s missing required type %s", n.ID, required),
				Name:     n.Filename(required),
			})
			content := ""
			if required == domain.DoctypeDraft {
				// Infer the title from the slug carried by the node's
				// surviving files.
				content = frontmatter.Compose(n.Title, "")
			}
			plan.Ops = append(plan.Ops, domain.Op{Kind: domain.OpCreate, Name: n.Filename(required), Content: content})
			repairs = append(repairs, Repair{Class: domain.FindingMissingDoctype, Name: n.Filename(required)})
		}
	}

	// Class 5: draft front-matter title absent or drifted from the slug.
	for _, n := range outline.Nodes() {
		if !n.HasDoctype(domain.DoctypeDraft) {
			continue
		}
		name := n.Filename(domain.DoctypeDraft)
		content, err := s.files.Read(ctx, name)
		if err != nil {
			return nil, domain.Plan{}, nil, &IOError{Err: err}
		}
		title, ok := frontmatter.Title(content)
		if !ok || title == "" {
			findings = append(findings, domain.Finding{
				Class:    domain.FindingTitleMismatch,
				Severity: domain.SeverityError,
				Message:  fmt.Sprintf("node %s draft has no title front-matter", n.ID),
				Name:     name,
			})
			continue
		}
		if expected := s.slugs.Slugify(title); expected != n.Slug {
			findings = append(findings, domain.Finding{
				Class:    domain.FindingTitleMismatch,
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("node %s title %q slugs to %q but filenames carry %q", n.ID, title, expected, n.Slug),
				Name:     name,
			})
		}
	}

	// Class 6: orphans — legal, but flagged.
	for _, n := range outline.Nodes() {
		parent, ok := n.Path.Parent()
		if !ok {
			continue
		}
		if _, exists := outline.AtPath(parent); !exists {
			findings = append(findings, domain.Finding{
				Class:    domain.FindingOrphan,
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("node %s at %s has no parent node at %s", n.ID, n.Path, parent),
				Name:     n.Filename(domain.DoctypeDraft),
			})
		}
	}

	return findings, plan, repairs, nil
}
