package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// FileRef is the decoded form of one node filename.
type FileRef struct {
	Path    Path
	ID      string
	Doctype string
	Slug    string
}

// ErrBadFilename is returned when a filename does not match the node
// filename grammar.
var ErrBadFilename = errors.New("unparseable filename")

// ErrInvalidDoctype is returned when a doctype identifier is malformed.
var ErrInvalidDoctype = errors.New("invalid doctype")

// ErrInvalidID is returned when an id is malformed.
var ErrInvalidID = errors.New("invalid id")

// ErrInvalidSlug is returned when a slug is empty or filename-unsafe.
var ErrInvalidSlug = errors.New("invalid slug")

var (
	// Doctypes come from the filename's third field, so an underscore
	// would shift the field boundaries and is rejected outright.
	doctypePattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	idPattern      = regexp.MustCompile(`^[A-Za-z0-9]{1,20}$`)
)

// ValidateDoctype checks a doctype identifier.
func ValidateDoctype(doctype string) error {
	if !doctypePattern.MatchString(doctype) {
		return fmt.Errorf("%w: %q", ErrInvalidDoctype, doctype)
	}
	return nil
}

// ValidateID checks an opaque id: non-empty alphanumeric, at most 20
// characters.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// ValidateSlug checks a slug: non-empty and free of path separators
// and NUL. Underscores are permitted; the codec splits on the leftmost
// three underscores only, so they never ambiguate.
func ValidateSlug(slug string) error {
	if slug == "" || strings.ContainsAny(slug, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	return nil
}

// EncodeFilename builds the canonical node filename
// {mp}_{id}_{doctype}_{slug}.md.
func EncodeFilename(p Path, id, doctype, slug string) string {
	return p.String() + "_" + id + "_" + doctype + "_" + slug + ".md"
}

// DecodeFilename parses a node filename into its four fields, splitting
// on the leftmost three underscores so the slug may itself contain
// underscores. Every field is validated; any malformation yields an
// error wrapping ErrBadFilename.
func DecodeFilename(name string) (FileRef, error) {
	stem, ok := strings.CutSuffix(name, ".md")
	if !ok {
		return FileRef{}, fmt.Errorf("%w: %q has no .md suffix", ErrBadFilename, name)
	}

	fields := strings.SplitN(stem, "_", 4)
	if len(fields) != 4 {
		return FileRef{}, fmt.Errorf("%w: %q has fewer than four fields", ErrBadFilename, name)
	}

	p, err := ParsePath(fields[0])
	if err != nil {
		return FileRef{}, fmt.Errorf("%w: %q: %v", ErrBadFilename, name, err)
	}
	if err := ValidateID(fields[1]); err != nil {
		return FileRef{}, fmt.Errorf("%w: %q: %v", ErrBadFilename, name, err)
	}
	if err := ValidateDoctype(fields[2]); err != nil {
		return FileRef{}, fmt.Errorf("%w: %q: %v", ErrBadFilename, name, err)
	}
	if err := ValidateSlug(fields[3]); err != nil {
		return FileRef{}, fmt.Errorf("%w: %q: %v", ErrBadFilename, name, err)
	}

	return FileRef{Path: p, ID: fields[1], Doctype: fields[2], Slug: fields[3]}, nil
}

// Filename reconstructs the canonical filename for a FileRef.
func (f FileRef) Filename() string {
	return EncodeFilename(f.Path, f.ID, f.Doctype, f.Slug)
}
