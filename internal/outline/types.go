package outline

import (
	"context"
	"fmt"
	"strings"

	"github.com/eykd/linemark/internal/domain"
	"github.com/eykd/linemark/internal/frontmatter"
)

// TypesResult reports the doctype set of a node.
type TypesResult struct {
	ID       string   `json:"id"`
	MP       string   `json:"mp"`
	Doctypes []string `json:"doctypes"`
}

// ListTypes returns the doctypes attached to a node.
func (s *Service) ListTypes(ctx context.Context, nodeRef domain.Ref) (*TypesResult, error) {
	loaded, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	node, err := s.Resolve(loaded.Outline, nodeRef)
	if err != nil {
		return nil, err
	}
	return &TypesResult{ID: node.ID, MP: node.Path.String(), Doctypes: node.Doctypes}, nil
}

// AddType attaches a new doctype file to a node. The required
// doctypes are already present and cannot be added again.
func (s *Service) AddType(ctx context.Context, nodeRef domain.Ref, doctype string) (string, error) {
	if err := s.locker.TryLock(ctx); err != nil {
		return "", err
	}
	defer s.locker.Unlock()

	if err := domain.ValidateDoctype(doctype); err != nil {
		return "", err
	}
	if domain.IsReservedDoctype(doctype) {
		return "", fmt.Errorf("%w: %s", ErrReservedDoctype, doctype)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	node, err := s.Resolve(loaded.Outline, nodeRef)
	if err != nil {
		return "", err
	}
	if node.HasDoctype(doctype) {
		return "", fmt.Errorf("%w: %s on %s", ErrDoctypeExists, doctype, node.ID)
	}

	name := node.Filename(doctype)
	plan := domain.Plan{Ops: []domain.Op{{Kind: domain.OpCreate, Name: name}}}
	if err := s.execute(ctx, plan); err != nil {
		return "", err
	}
	return name, nil
}

// RemoveType detaches a doctype file from a node. The required
// doctypes cannot be removed.
func (s *Service) RemoveType(ctx context.Context, nodeRef domain.Ref, doctype string) (string, error) {
	if err := s.locker.TryLock(ctx); err != nil {
		return "", err
	}
	defer s.locker.Unlock()

	if domain.IsReservedDoctype(doctype) {
		return "", fmt.Errorf("%w: %s", ErrReservedDoctype, doctype)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	node, err := s.Resolve(loaded.Outline, nodeRef)
	if err != nil {
		return "", err
	}
	if !node.HasDoctype(doctype) {
		return "", fmt.Errorf("%w: %s on %s", ErrDoctypeNotFound, doctype, node.ID)
	}

	name := node.Filename(doctype)
	plan := domain.Plan{Ops: []domain.Op{{Kind: domain.OpDelete, Name: name}}}
	if err := s.execute(ctx, plan); err != nil {
		return "", err
	}
	return name, nil
}

// ReadType returns the body of a node's doctype file, front-matter
// stripped.
func (s *Service) ReadType(ctx context.Context, nodeRef domain.Ref, doctype string) (string, error) {
	loaded, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	node, err := s.Resolve(loaded.Outline, nodeRef)
	if err != nil {
		return "", err
	}
	if !node.HasDoctype(doctype) {
		return "", fmt.Errorf("%w: %s on %s", ErrDoctypeNotFound, doctype, node.ID)
	}
	content, err := s.files.Read(ctx, node.Filename(doctype))
	if err != nil {
		return "", &IOError{Err: err}
	}
	return frontmatter.Body(content), nil
}

// WriteType replaces the body of a node's doctype file, preserving any
// existing front-matter block. Writing a doctype the node does not yet
// carry creates the file.
func (s *Service) WriteType(ctx context.Context, nodeRef domain.Ref, doctype, body string) (string, error) {
	if err := s.locker.TryLock(ctx); err != nil {
		return "", err
	}
	defer s.locker.Unlock()

	if err := domain.ValidateDoctype(doctype); err != nil {
		return "", err
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	node, err := s.Resolve(loaded.Outline, nodeRef)
	if err != nil {
		return "", err
	}

	name := node.Filename(doctype)
	content := body
	if node.HasDoctype(doctype) {
		existing, err := s.files.Read(ctx, name)
		if err != nil {
			return "", &IOError{Err: err}
		}
		// Keep the leading block verbatim, whatever keys it holds.
		block := strings.TrimSuffix(existing, frontmatter.Body(existing))
		if block != "" && !strings.HasSuffix(block, "\n") {
			block += "\n"
		}
		content = block + body
	}

	plan := domain.Plan{Ops: []domain.Op{{Kind: domain.OpCreate, Name: name, Content: content}}}
	if err := s.execute(ctx, plan); err != nil {
		return "", err
	}
	return name, nil
}
