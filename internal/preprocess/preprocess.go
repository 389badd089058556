// Package preprocess implements the mdBook preprocessor protocol.
//
// The host runs "<command> supports <renderer>" to ask whether a preprocessor
// should run for a renderer, then runs "<command>" with a JSON array
// [context, book] on stdin and expects the processed book as JSON on stdout.
package preprocess

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/book"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/config"
)

// ProtocolVersion is the mdBook minor series whose JSON layout this package speaks.
const ProtocolVersion = "0.4"

// Preprocessor is a named stage the host runs between parsing and rendering.
type Preprocessor interface {
	// Metadata returns the preprocessor's identity. Metadata().Name selects
	// its table under [preprocessor.<name>] in book.toml.
	Metadata() Metadata

	// Run mutates b in place. A returned error aborts the host build.
	Run(ctx *Context, b *book.Book) error

	// SupportsRenderer reports whether the preprocessor should run for renderer.
	SupportsRenderer(renderer string) bool
}

// Metadata describes a preprocessor.
type Metadata struct {
	Name        string
	Version     string
	Description string
}

// String returns a human-readable representation of the metadata.
func (m Metadata) String() string {
	return fmt.Sprintf("%s@%s", m.Name, m.Version)
}

// Validate checks if the metadata is usable.
func (m Metadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("preprocessor name is required")
	}
	if strings.ContainsAny(m.Name, " .\t\n") {
		return fmt.Errorf("preprocessor name %q must be a single TOML key segment", m.Name)
	}
	return nil
}

// Context is the first element of the host's input: where the book lives,
// its whole configuration, and which renderer is about to run.
type Context struct {
	Root          string         `json:"root"`
	Config        map[string]any `json:"config"`
	Renderer      string         `json:"renderer"`
	MDBookVersion string         `json:"mdbook_version"`
}

// PreprocessorTable returns the raw [preprocessor.<name>] table, or nil when the book has none.
func (c *Context) PreprocessorTable(name string) map[string]any {
	if c == nil {
		return nil
	}
	return config.PreprocessorTable(c.Config, name)
}

// VersionMatches reports whether the host's mdbook_version is in ProtocolVersion's minor series.
func (c *Context) VersionMatches() bool {
	v := strings.TrimPrefix(c.MDBookVersion, "v")
	return v == ProtocolVersion || strings.HasPrefix(v, ProtocolVersion+".")
}
