package book

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// SectionNumber is a chapter's position at each nesting depth, e.g. [2 3 1]
// for the first item under 2.3. Its length is the nesting depth plus one.
// A nil SectionNumber means the chapter is unnumbered.
type SectionNumber []uint32

// ParseSectionNumber parses the dotted form ("2.3.1" or "2.3.1.").
func ParseSectionNumber(s string) (SectionNumber, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	if s == "" {
		return nil, fmt.Errorf("empty section number")
	}
	parts := strings.Split(s, ".")
	out := make(SectionNumber, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid section number %q: %w", s, err)
		}
		out = append(out, uint32(v))
	}
	return out, nil
}

// MustParseSectionNumber is ParseSectionNumber for literals known to be valid.
func MustParseSectionNumber(s string) SectionNumber {
	n, err := ParseSectionNumber(s)
	if err != nil {
		panic(err)
	}
	return n
}

// String renders the dotted form without a trailing dot.
func (n SectionNumber) String() string {
	parts := make([]string, len(n))
	for i, v := range n {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	return strings.Join(parts, ".")
}

// Depth returns the nesting depth (0 for top-level chapters).
func (n SectionNumber) Depth() int {
	return len(n) - 1
}

// Clone returns an independent copy. Clone of nil is nil.
func (n SectionNumber) Clone() SectionNumber {
	if n == nil {
		return nil
	}
	return slices.Clone(n)
}

// Equal reports whether both numbers have the same positions.
func (n SectionNumber) Equal(other SectionNumber) bool {
	return slices.Equal(n, other)
}

// HasStrictPrefix reports whether p is a proper prefix of n, i.e. n is a descendant of p.
func (n SectionNumber) HasStrictPrefix(p SectionNumber) bool {
	return len(n) > len(p) && slices.Equal(n[:len(p)], p)
}
