package outline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/eykd/linemark/internal/domain"
	"github.com/eykd/linemark/internal/frontmatter"
)

// ErrInvalidPattern is returned when a search pattern does not compile.
var ErrInvalidPattern = errors.New("invalid search pattern")

// SearchQuery describes one search invocation.
type SearchQuery struct {
	Pattern       string
	Subtree       *domain.Ref // nil searches the whole outline
	Doctypes      []string    // glob patterns; empty matches all
	CaseSensitive bool
	DotAll        bool
	Literal       bool
}

// Match is one search hit: a line containing at least one occurrence
// of the pattern. Span offsets are byte positions within the line.
type Match struct {
	ID      string `json:"id"`
	MP      string `json:"mp"`
	Doctype string `json:"doctype"`
	Line    int    `json:"line"`
	Text    string `json:"text"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// Search scans bodies in depth-first path order and streams matches
// through emit, one file at a time. The pattern is validated before
// any file is opened; an emit error stops the scan.
func (s *Service) Search(ctx context.Context, q SearchQuery, emit func(Match) error) error {
	re, err := compilePattern(q)
	if err != nil {
		return err
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		return err
	}
	outline := loaded.Outline

	nodes := outline.Nodes()
	if q.Subtree != nil {
		if q.Subtree.Kind() == domain.RefPath {
			// A bare path prefix narrows the scan even when no node
			// occupies it.
			prefix, err := domain.ParsePath(q.Subtree.Value())
			if err != nil {
				return err
			}
			nodes = outline.Subtree(prefix)
		} else {
			root, err := s.Resolve(outline, *q.Subtree)
			if err != nil {
				return err
			}
			nodes = outline.Subtree(root.Path)
		}
	}

	for _, n := range nodes {
		for _, doctype := range n.Doctypes {
			if !doctypeSelected(doctype, q.Doctypes) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := s.files.Read(ctx, n.Filename(doctype))
			if err != nil {
				return &IOError{Err: err}
			}
			// Malformed bytes must never crash a scan.
			body := strings.ToValidUTF8(frontmatter.Body(content), "�")
			if err := scanBody(re, n, doctype, body, emit); err != nil {
				return err
			}
		}
	}
	return nil
}

// compilePattern assembles the regex from the query flags. Matching is
// case-insensitive unless asked otherwise; literal escapes the
// pattern; dotall lets . cross line boundaries.
func compilePattern(q SearchQuery) (*regexp.Regexp, error) {
	pattern := q.Pattern
	if q.Literal {
		pattern = regexp.QuoteMeta(pattern)
	}
	var flags string
	if !q.CaseSensitive {
		flags += "i"
	}
	if q.DotAll {
		flags += "s"
	}
	if flags != "" {
		pattern = "(?" + flags + ")" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return re, nil
}

// doctypeSelected reports whether doctype passes the query filters,
// which may be literal names or glob patterns.
func doctypeSelected(doctype string, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if ok, err := doublestar.Match(f, doctype); err == nil && ok {
			return true
		}
	}
	return false
}

// scanBody emits one match per line containing a hit, in ascending
// line order. A match spanning lines is reported on the line where it
// starts, with the span clamped to that line.
func scanBody(re *regexp.Regexp, n *domain.Node, doctype, body string, emit func(Match) error) error {
	spans := re.FindAllStringIndex(body, -1)
	if len(spans) == 0 {
		return nil
	}

	lineStarts := []int{0}
	for i, r := range body {
		if r == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	lineOf := func(offset int) int {
		lo, hi := 0, len(lineStarts)-1
		for lo < hi {
			mid := (lo + hi + 1) / 2
			if lineStarts[mid] <= offset {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		return lo
	}
	lineEnd := func(line int) int {
		if line+1 < len(lineStarts) {
			return lineStarts[line+1] - 1
		}
		return len(body)
	}

	lastLine := -1
	for _, span := range spans {
		line := lineOf(span[0])
		if line == lastLine {
			continue
		}
		lastLine = line
		start, end := lineStarts[line], lineEnd(line)
		matchEnd := span[1]
		if matchEnd > end {
			matchEnd = end
		}
		err := emit(Match{
			ID:      n.ID,
			MP:      n.Path.String(),
			Doctype: doctype,
			Line:    line + 1,
			Text:    strings.TrimSuffix(body[start:end], "\r"),
			Start:   span[0] - start,
			End:     matchEnd - start,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
