// Package outline provides the application service coordinating
// directory loading, mutation planning, and plan execution.
package outline

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/eykd/linemark/internal/domain"
	"github.com/eykd/linemark/internal/frontmatter"
)

// ErrEmptyTitle is returned when a title is empty or slugifies to
// nothing.
var ErrEmptyTitle = errors.New("title must produce a non-empty slug")

// ErrReservedDoctype is returned when adding or removing draft or
// notes through the types commands.
var ErrReservedDoctype = errors.New("doctype is reserved")

// ErrDoctypeExists is returned when adding a doctype a node already
// carries.
var ErrDoctypeExists = errors.New("doctype already present")

// ErrDoctypeNotFound is returned when a requested doctype is absent.
var ErrDoctypeNotFound = errors.New("doctype not found")

// FileSystem is the port to the flat outline directory. Every call is
// one suspendable step; implementations must honor ctx cancellation.
type FileSystem interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, name string) (string, error)
	Write(ctx context.Context, name, content string) error
	Rename(ctx context.Context, oldName, newName string) error
	Delete(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}

// IDEncoder mints opaque ids from a monotonically increasing counter
// and recognizes its own output.
type IDEncoder interface {
	Encode(counter uint64) (string, error)
	Decode(id string) (uint64, bool)
}

// Slugifier derives filename-safe slugs from titles. It must be
// deterministic and idempotent.
type Slugifier interface {
	Slugify(title string) string
}

// Locker guards mutating commands with an advisory lock.
type Locker interface {
	TryLock(ctx context.Context) error
	Unlock() error
}

// Service wires the ports together. Reads rebuild the outline from the
// directory on every call; the directory is the only durable state.
type Service struct {
	files  FileSystem
	ids    IDEncoder
	slugs  Slugifier
	locker Locker
}

// New creates a Service with the given collaborators.
func New(files FileSystem, ids IDEncoder, slugs Slugifier, locker Locker) *Service {
	return &Service{files: files, ids: ids, slugs: slugs, locker: locker}
}

// LoadResult pairs a reconstructed outline with the anomalies found
// while scanning.
type LoadResult struct {
	Outline  *domain.Outline
	Findings []domain.Finding
}

// Load scans the directory, groups files by id, and reconstructs the
// outline. Unparseable filenames and id/path collisions become
// findings rather than failures so the validator can report them.
func (s *Service) Load(ctx context.Context) (*LoadResult, error) {
	names, err := s.files.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var findings []domain.Finding
	var refs []domain.FileRef
	for _, name := range names {
		ref, err := domain.DecodeFilename(name)
		if err != nil {
			findings = append(findings, domain.Finding{
				Class:    domain.FindingUnparseableFilename,
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("file %s does not match the node filename grammar", name),
				Name:     name,
			})
			continue
		}
		refs = append(refs, ref)
	}

	outline := domain.NewOutline()
	groups := groupByID(refs)
	for _, g := range groups {
		node, groupFindings := s.buildNode(ctx, g)
		findings = append(findings, groupFindings...)
		if err := outline.Insert(node); err != nil {
			switch {
			case errors.Is(err, domain.ErrDuplicatePath):
				findings = append(findings, domain.Finding{
					Class:    domain.FindingDuplicatePath,
					Severity: domain.SeverityError,
					Message:  fmt.Sprintf("path %s is claimed by more than one id", node.Path),
					Name:     node.Filename(node.Doctypes[0]),
				})
			default:
				return nil, err
			}
			continue
		}
		if counter, ok := s.ids.Decode(node.ID); ok {
			outline.SetNextCounter(counter + 1)
		}
	}

	return &LoadResult{Outline: outline, Findings: findings}, nil
}

// idGroup collects the files sharing one id.
type idGroup struct {
	id   string
	refs []domain.FileRef
}

// groupByID buckets refs by id, preserving first-seen order.
func groupByID(refs []domain.FileRef) []idGroup {
	index := map[string]int{}
	var groups []idGroup
	for _, ref := range refs {
		i, seen := index[ref.ID]
		if !seen {
			i = len(groups)
			index[ref.ID] = i
			groups = append(groups, idGroup{id: ref.ID})
		}
		groups[i].refs = append(groups[i].refs, ref)
	}
	return groups
}

// buildNode reconstructs one node from its file group. The draft file
// is authoritative for slug and title; files at a different path than
// the first-seen one are flagged as duplicate-id violations.
func (s *Service) buildNode(ctx context.Context, g idGroup) (*domain.Node, []domain.Finding) {
	var findings []domain.Finding

	canonical := g.refs[0].Path
	for _, ref := range g.refs[1:] {
		if !ref.Path.Equal(canonical) {
			findings = append(findings, domain.Finding{
				Class:    domain.FindingDuplicateID,
				Severity: domain.SeverityError,
				Message:  fmt.Sprintf("id %s appears at both %s and %s", g.id, canonical, ref.Path),
				Name:     ref.Filename(),
			})
		}
	}

	node := &domain.Node{ID: g.id, Path: canonical}
	var draft *domain.FileRef
	for i, ref := range g.refs {
		if !ref.Path.Equal(canonical) {
			continue
		}
		if node.Slug == "" {
			node.Slug = ref.Slug
		}
		node.AddDoctype(ref.Doctype)
		if ref.Doctype == domain.DoctypeDraft {
			draft = &g.refs[i]
		}
	}
	if draft != nil {
		node.Slug = draft.Slug
	}

	node.Title = node.Slug
	if draft != nil {
		if content, err := s.files.Read(ctx, draft.Filename()); err == nil {
			if title, ok := frontmatter.Title(content); ok && title != "" {
				node.Title = title
			}
		}
	}
	return node, findings
}

// Resolve returns the node matching a boundary reference.
func (s *Service) Resolve(outline *domain.Outline, ref domain.Ref) (*domain.Node, error) {
	if ref.Kind() == domain.RefPath {
		p, err := domain.ParsePath(ref.Value())
		if err != nil {
			return nil, err
		}
		if n, ok := outline.AtPath(p); ok {
			return n, nil
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, ref.Value())
	}
	if n, ok := outline.Get(ref.Value()); ok {
		return n, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, ref.Value())
}

// Placement positions a new node relative to existing ones.
type Placement struct {
	ChildOf   string // append under this node
	SiblingOf string // insert next to this node
	Before    bool   // with SiblingOf: insert before instead of after
}

// AddResult reports a newly created node.
type AddResult struct {
	ID    string   `json:"id"`
	MP    string   `json:"mp"`
	Slug  string   `json:"slug"`
	Files []string `json:"files"`
}

// Add creates a new node with the required doctypes.
func (s *Service) Add(ctx context.Context, title string, place Placement) (*AddResult, error) {
	if err := s.locker.TryLock(ctx); err != nil {
		return nil, err
	}
	defer s.locker.Unlock()

	slugStr := s.slugs.Slugify(title)
	if slugStr == "" {
		return nil, fmt.Errorf("%w: %q", ErrEmptyTitle, title)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	outline := loaded.Outline

	p, err := s.placementPath(outline, place)
	if err != nil {
		return nil, err
	}

	id, err := s.ids.Encode(outline.NextCounter())
	if err != nil {
		return nil, err
	}

	draftName := domain.EncodeFilename(p, id, domain.DoctypeDraft, slugStr)
	notesName := domain.EncodeFilename(p, id, domain.DoctypeNotes, slugStr)

	var plan domain.Plan
	plan.Ops = append(plan.Ops,
		domain.Op{Kind: domain.OpCreate, Name: draftName, Content: frontmatter.Compose(title, "")},
		domain.Op{Kind: domain.OpCreate, Name: notesName, Content: ""},
	)
	if err := s.execute(ctx, plan); err != nil {
		return nil, err
	}

	return &AddResult{
		ID:    id,
		MP:    p.String(),
		Slug:  slugStr,
		Files: []string{draftName, notesName},
	}, nil
}

// placementPath computes the materialized path for a new node.
func (s *Service) placementPath(outline *domain.Outline, place Placement) (domain.Path, error) {
	switch {
	case place.SiblingOf != "":
		ref, err := domain.ParseRef(place.SiblingOf)
		if err != nil {
			return domain.Path{}, err
		}
		sibling, err := s.Resolve(outline, ref)
		if err != nil {
			return domain.Path{}, err
		}
		parent, _ := sibling.Path.Parent()
		occupied := outline.ChildPositions(parent)
		var position int
		if place.Before {
			position, err = domain.BeforePosition(occupied, sibling.Path.LastSegment())
		} else {
			position, err = domain.AfterPosition(occupied, sibling.Path.LastSegment())
		}
		if err != nil {
			return domain.Path{}, err
		}
		return parent.Child(position)

	case place.ChildOf != "":
		ref, err := domain.ParseRef(place.ChildOf)
		if err != nil {
			return domain.Path{}, err
		}
		parent, err := s.Resolve(outline, ref)
		if err != nil {
			return domain.Path{}, err
		}
		position, err := domain.AppendPosition(outline.ChildPositions(parent.Path))
		if err != nil {
			return domain.Path{}, err
		}
		return parent.Path.Child(position)

	default:
		position, err := domain.AppendPosition(outline.ChildPositions(domain.Path{}))
		if err != nil {
			return domain.Path{}, err
		}
		return domain.NewPath(position)
	}
}

// MoveResult reports a completed move.
type MoveResult struct {
	ID      string `json:"id"`
	OldMP   string `json:"old_mp"`
	NewMP   string `json:"new_mp"`
	Renamed int    `json:"renamed"`
}

// Move relocates a node and its subtree. A path target names the
// exact destination; an id target appends the node as the last child
// of that parent.
func (s *Service) Move(ctx context.Context, nodeRef, target domain.Ref) (*MoveResult, error) {
	if err := s.locker.TryLock(ctx); err != nil {
		return nil, err
	}
	defer s.locker.Unlock()

	loaded, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	outline := loaded.Outline

	node, err := s.Resolve(outline, nodeRef)
	if err != nil {
		return nil, err
	}

	var targetPath domain.Path
	if target.Kind() == domain.RefPath {
		targetPath, err = domain.ParsePath(target.Value())
		if err != nil {
			return nil, err
		}
	} else {
		parent, err := s.Resolve(outline, target)
		if err != nil {
			return nil, err
		}
		if parent.Path.HasPrefix(node.Path) {
			return nil, fmt.Errorf("%w: %s is inside %s", domain.ErrCycle, parent.Path, node.Path)
		}
		position, err := domain.AppendPosition(outline.ChildPositions(parent.Path))
		if err != nil {
			return nil, err
		}
		targetPath, err = parent.Path.Child(position)
		if err != nil {
			return nil, err
		}
	}

	plan, err := outline.PlanMove(node.ID, targetPath)
	if err != nil {
		return nil, err
	}
	if err := s.execute(ctx, plan); err != nil {
		return nil, err
	}

	return &MoveResult{
		ID:      node.ID,
		OldMP:   node.Path.String(),
		NewMP:   targetPath.String(),
		Renamed: len(plan.Ops),
	}, nil
}

// RenameResult reports a completed title change.
type RenameResult struct {
	ID       string `json:"id"`
	OldTitle string `json:"old_title"`
	NewTitle string `json:"new_title"`
	OldSlug  string `json:"old_slug"`
	NewSlug  string `json:"new_slug"`
}

// Rename changes a node's title, updating the slug in every doctype
// filename and the title field in the draft front-matter. Id, path,
// and doctype set are untouched.
func (s *Service) Rename(ctx context.Context, nodeRef domain.Ref, newTitle string) (*RenameResult, error) {
	if err := s.locker.TryLock(ctx); err != nil {
		return nil, err
	}
	defer s.locker.Unlock()

	newSlug := s.slugs.Slugify(newTitle)
	if newSlug == "" {
		return nil, fmt.Errorf("%w: %q", ErrEmptyTitle, newTitle)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	node, err := s.Resolve(loaded.Outline, nodeRef)
	if err != nil {
		return nil, err
	}

	var plan domain.Plan
	if newSlug != node.Slug {
		for _, d := range node.Doctypes {
			plan.Ops = append(plan.Ops, domain.Op{
				Kind:    domain.OpRename,
				Name:    domain.EncodeFilename(node.Path, node.ID, d, node.Slug),
				NewName: domain.EncodeFilename(node.Path, node.ID, d, newSlug),
			})
		}
	}

	if node.HasDoctype(domain.DoctypeDraft) {
		oldDraft := domain.EncodeFilename(node.Path, node.ID, domain.DoctypeDraft, node.Slug)
		content, err := s.files.Read(ctx, oldDraft)
		if err != nil {
			return nil, &IOError{Err: err}
		}
		newDraft := domain.EncodeFilename(node.Path, node.ID, domain.DoctypeDraft, newSlug)
		plan.Ops = append(plan.Ops, domain.Op{
			Kind:    domain.OpCreate,
			Name:    newDraft,
			Content: frontmatter.SetTitle(content, newTitle),
		})
	}

	if err := s.execute(ctx, plan); err != nil {
		return nil, err
	}

	return &RenameResult{
		ID:       node.ID,
		OldTitle: node.Title,
		NewTitle: newTitle,
		OldSlug:  node.Slug,
		NewSlug:  newSlug,
	}, nil
}

// DeleteResult reports the nodes removed by a delete.
type DeleteResult struct {
	DeletedIDs []string `json:"deleted_ids"`
	Steps      int      `json:"steps"`
}

// Delete removes a node according to mode.
func (s *Service) Delete(ctx context.Context, nodeRef domain.Ref, mode domain.DeleteMode) (*DeleteResult, error) {
	if err := s.locker.TryLock(ctx); err != nil {
		return nil, err
	}
	defer s.locker.Unlock()

	loaded, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	node, err := s.Resolve(loaded.Outline, nodeRef)
	if err != nil {
		return nil, err
	}

	plan, deleted, err := loaded.Outline.PlanDelete(node.ID, mode)
	if err != nil {
		return nil, err
	}
	if err := s.execute(ctx, plan); err != nil {
		return nil, err
	}

	return &DeleteResult{DeletedIDs: deleted, Steps: len(plan.Ops)}, nil
}

// CompactResult reports a completed compaction.
type CompactResult struct {
	Siblings int `json:"siblings"`
	Renamed  int `json:"renamed"`
}

// Compact renumbers one sibling level: the children of the referenced
// node, or the root level when ref is nil.
func (s *Service) Compact(ctx context.Context, ref *domain.Ref) (*CompactResult, error) {
	if err := s.locker.TryLock(ctx); err != nil {
		return nil, err
	}
	defer s.locker.Unlock()

	loaded, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	parent := domain.Path{}
	if ref != nil {
		node, err := s.Resolve(loaded.Outline, *ref)
		if err != nil {
			return nil, err
		}
		parent = node.Path
	}

	plan, count, err := loaded.Outline.PlanCompact(parent)
	if err != nil {
		return nil, err
	}
	if err := s.execute(ctx, plan); err != nil {
		return nil, err
	}

	return &CompactResult{Siblings: count, Renamed: len(plan.Ops)}, nil
}
