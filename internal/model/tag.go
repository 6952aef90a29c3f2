package model

import (
	"sort"
	"strings"
)

// NormalizeTag converts a category or infobox type name into a tag
// identifier: surrounding whitespace is trimmed, the name is lowercased,
// and interior whitespace runs become single underscores.
// "Middle Earth" becomes "middle_earth". Returns the empty string for
// names that contain no usable characters.
func NormalizeTag(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, "_")
}

// TagSet is a per-page set of normalized tags. The zero value is not
// usable; create one with NewTagSet. Duplicate additions collapse to a
// single entry, matching the set semantics of category declarations.
type TagSet struct {
	tags map[string]struct{}
}

// NewTagSet returns an empty TagSet.
func NewTagSet() *TagSet {
	return &TagSet{tags: make(map[string]struct{})}
}

// Add normalizes name and inserts it into the set.
// Empty names (after normalization) are ignored so that the invariant
// "every tag is non-empty and lowercase" holds by construction.
func (s *TagSet) Add(name string) {
	tag := NormalizeTag(name)
	if tag == "" {
		return
	}
	s.tags[tag] = struct{}{}
}

// Contains reports whether the normalized form of name is in the set.
func (s *TagSet) Contains(name string) bool {
	_, ok := s.tags[NormalizeTag(name)]
	return ok
}

// Len returns the number of distinct tags in the set.
func (s *TagSet) Len() int {
	return len(s.tags)
}

// Sorted returns the tags in lexicographic order.
// Sorting here keeps the frontmatter output deterministic regardless of
// the order categories appeared in the source text.
func (s *TagSet) Sorted() []string {
	out := make([]string, 0, len(s.tags))
	for tag := range s.tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
