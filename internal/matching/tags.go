package matching

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// TagSet is an unordered set of normalized tags.
type TagSet map[string]struct{}

// NormalizeTag folds a raw tag into its canonical form: NFKC, trimmed,
// case-folded. Returns "" for blank input.
func NormalizeTag(raw string) string {
	s := strings.TrimSpace(norm.NFKC.String(raw))
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}

// NewTagSet builds a set from raw tags, dropping blanks and duplicates.
func NewTagSet(tags ...string) TagSet {
	set := make(TagSet, len(tags))
	for _, t := range tags {
		if n := NormalizeTag(t); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func (s TagSet) Len() int { return len(s) }

func (s TagSet) Has(tag string) bool {
	_, ok := s[NormalizeTag(tag)]
	return ok
}

// IntersectionSize counts tags present in both sets.
func (s TagSet) IntersectionSize(o TagSet) int {
	small, large := s, o
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for t := range small {
		if _, ok := large[t]; ok {
			n++
		}
	}
	return n
}

func (s TagSet) Intersects(o TagSet) bool {
	return s.IntersectionSize(o) > 0
}

// Slice returns the tags sorted, for stable output.
func (s TagSet) Slice() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
