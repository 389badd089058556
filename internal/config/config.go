// Package config resolves the chapter-zero settings table into a validated
// Config and reads the parts of book.toml the standalone tooling needs.
package config

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// DefaultMarker is the content token that zero-indexes a chapter's direct children.
const DefaultMarker = "<!-- ch0 -->\n"

// Levels is the set of nesting depths that are zero-indexed everywhere.
// Depth 0 is the top level.
type Levels map[int]struct{}

// NewLevels creates a set pre-populated with the provided depths.
func NewLevels(depths ...int) Levels {
	l := make(Levels, len(depths))
	for _, d := range depths {
		l[d] = struct{}{}
	}
	return l
}

// Has reports whether depth d is globally zero-indexed. Safe on a nil set.
func (l Levels) Has(d int) bool {
	_, ok := l[d]
	return ok
}

// Sorted returns the depths in ascending order.
func (l Levels) Sorted() []int {
	out := make([]int, 0, len(l))
	for d := range l {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

func (l Levels) String() string {
	parts := make([]string, 0, len(l))
	for _, d := range l.Sorted() {
		parts = append(parts, strconv.Itoa(d))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Config is the resolved chapter-zero configuration. It is built once per run and read-only afterwards.
type Config struct {
	// Levels zero-indexes every chapter at these depths. Chapters whose
	// children sit at one of these depths ignore the marker.
	Levels Levels

	// Marker signals that the direct children of the chapter containing it
	// are zero-indexed. An empty marker is accepted and matches every chapter.
	Marker string
}

// Default returns the configuration used when the book has no chapter-zero table.
func Default() *Config {
	return &Config{
		Levels: NewLevels(),
		Marker: DefaultMarker,
	}
}

// LogValue implements slog.LogValuer.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("levels", c.Levels.String()),
		slog.String("marker", strconv.Quote(c.Marker)),
	)
}
