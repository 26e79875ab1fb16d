package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidRef is returned when a node reference cannot be parsed.
var ErrInvalidRef = errors.New("invalid node reference")

// RefKind distinguishes path references from id references.
type RefKind int

const (
	// RefPath selects a node by materialized path.
	RefPath RefKind = iota
	// RefID selects a node by opaque id.
	RefID
)

var pathRefPattern = regexp.MustCompile(`^\d{3}(?:-\d{3})*$`)

// Ref is a parsed node reference from the command boundary: either a
// materialized path (dash-joined digits) or an opaque id, optionally
// written with a leading @.
type Ref struct {
	kind  RefKind
	value string
}

// ParseRef parses a boundary reference. A leading @ is stripped and
// forces id interpretation; otherwise digits-and-dashes read as a
// path and anything else as an id.
func ParseRef(input string) (Ref, error) {
	input = strings.TrimSpace(input)
	if explicit, ok := strings.CutPrefix(input, "@"); ok {
		if err := ValidateID(explicit); err != nil {
			return Ref{}, fmt.Errorf("%w: %q", ErrInvalidRef, input)
		}
		return Ref{kind: RefID, value: explicit}, nil
	}
	if input == "" {
		return Ref{}, fmt.Errorf("%w: empty input", ErrInvalidRef)
	}
	if pathRefPattern.MatchString(input) {
		if _, err := ParsePath(input); err != nil {
			return Ref{}, fmt.Errorf("%w: %q", ErrInvalidRef, input)
		}
		return Ref{kind: RefPath, value: input}, nil
	}
	if err := ValidateID(input); err != nil {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidRef, input)
	}
	return Ref{kind: RefID, value: input}, nil
}

// Kind returns the reference kind.
func (r Ref) Kind() RefKind {
	return r.kind
}

// Value returns the reference value without any @ prefix.
func (r Ref) Value() string {
	return r.value
}

// String returns the bare value.
func (r Ref) String() string {
	return r.value
}
