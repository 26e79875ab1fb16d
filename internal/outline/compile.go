package outline

import (
	"context"
	"fmt"
	"strings"

	"github.com/eykd/linemark/internal/domain"
	"github.com/eykd/linemark/internal/frontmatter"
)

// Compile concatenates the bodies of one doctype across the outline in
// depth-first path order, restricted to a subtree when ref is given.
// Front-matter is stripped and empty bodies contribute nothing. The
// call fails when the doctype is absent on every selected node.
func (s *Service) Compile(ctx context.Context, doctype string, ref *domain.Ref, separator string) (string, error) {
	if err := domain.ValidateDoctype(doctype); err != nil {
		return "", err
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	outline := loaded.Outline

	nodes := outline.Nodes()
	if ref != nil {
		root, err := s.Resolve(outline, *ref)
		if err != nil {
			return "", err
		}
		nodes = outline.Subtree(root.Path)
	}

	found := false
	var parts []string
	for _, n := range nodes {
		if !n.HasDoctype(doctype) {
			continue
		}
		found = true
		content, err := s.files.Read(ctx, n.Filename(doctype))
		if err != nil {
			return "", &IOError{Err: err}
		}
		body := strings.TrimSpace(frontmatter.Body(content))
		if body != "" {
			parts = append(parts, body)
		}
	}
	if !found {
		return "", fmt.Errorf("%w: %s", ErrDoctypeNotFound, doctype)
	}
	return strings.Join(parts, separator), nil
}
