package domain

import (
	"slices"
	"strings"
)

// ImageReference is a concrete "name:version" image identifier.
// It is compared by exact string match and never parsed for semantic versions.
type ImageReference string

func (r ImageReference) String() string { return string(r) }

// ImageSet is an unordered set of image references.
type ImageSet map[ImageReference]struct{}

// NewImageSet builds a set from refs.
func NewImageSet(refs ...ImageReference) ImageSet {
	s := make(ImageSet, len(refs))
	for _, r := range refs {
		s.Add(r)
	}
	return s
}

// NewImageSetFromStrings builds a set from plain strings, skipping blanks.
func NewImageSetFromStrings(refs []string) ImageSet {
	s := make(ImageSet, len(refs))
	for _, r := range refs {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		s.Add(ImageReference(r))
	}
	return s
}

// Add inserts ref.
func (s ImageSet) Add(ref ImageReference) { s[ref] = struct{}{} }

// Contains reports whether ref is a member.
func (s ImageSet) Contains(ref ImageReference) bool {
	_, ok := s[ref]
	return ok
}

// Intersect returns the members present in both sets.
func (s ImageSet) Intersect(other ImageSet) ImageSet {
	out := make(ImageSet)
	for ref := range s {
		if other.Contains(ref) {
			out.Add(ref)
		}
	}
	return out
}

// Equal reports whether both sets have the same members.
func (s ImageSet) Equal(other ImageSet) bool {
	if len(s) != len(other) {
		return false
	}
	for ref := range s {
		if !other.Contains(ref) {
			return false
		}
	}
	return true
}

// Sorted returns the members in lexical order.
func (s ImageSet) Sorted() []ImageReference {
	out := make([]ImageReference, 0, len(s))
	for ref := range s {
		out = append(out, ref)
	}
	slices.Sort(out)
	return out
}

// Strings returns the members as sorted plain strings.
func (s ImageSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, ref := range sorted {
		out[i] = string(ref)
	}
	return out
}
