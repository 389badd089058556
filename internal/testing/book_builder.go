package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

// BookBuilder provides a fluent interface for laying out an mdBook project
// in a temporary directory.
type BookBuilder struct {
	t        *testing.T
	root     string
	srcDir   string
	book     map[string]any
	settings map[string]any
	rawToml  *string
	summary  string
	files    map[string]string
}

// NewBookBuilder creates a builder rooted at a fresh t.TempDir().
func NewBookBuilder(t *testing.T) *BookBuilder {
	t.Helper()
	return &BookBuilder{
		t:        t,
		root:     t.TempDir(),
		srcDir:   "src",
		book:     map[string]any{},
		settings: map[string]any{},
		files:    map[string]string{},
	}
}

// WithTitle sets book.title.
func (bb *BookBuilder) WithTitle(title string) *BookBuilder {
	bb.book["title"] = title
	return bb
}

// WithSourceDir sets book.src.
func (bb *BookBuilder) WithSourceDir(dir string) *BookBuilder {
	bb.srcDir = dir
	bb.book["src"] = dir
	return bb
}

// WithLevels sets preprocessor.chapter-zero.levels.
func (bb *BookBuilder) WithLevels(levels ...int) *BookBuilder {
	return bb.WithSetting("levels", levels)
}

// WithMarker sets preprocessor.chapter-zero.marker.
func (bb *BookBuilder) WithMarker(marker string) *BookBuilder {
	return bb.WithSetting("marker", marker)
}

// WithSetting sets any key of the chapter-zero table, valid or not.
func (bb *BookBuilder) WithSetting(key string, value any) *BookBuilder {
	bb.settings[key] = value
	return bb
}

// WithBookToml replaces the generated book.toml with raw content.
func (bb *BookBuilder) WithBookToml(raw string) *BookBuilder {
	bb.rawToml = &raw
	return bb
}

// WithoutBookToml skips writing book.toml.
func (bb *BookBuilder) WithoutBookToml() *BookBuilder {
	return bb.WithBookToml("")
}

// WithSummary sets the SUMMARY.md content.
func (bb *BookBuilder) WithSummary(summary string) *BookBuilder {
	bb.summary = summary
	return bb
}

// WithChapter adds a chapter file relative to the source directory.
func (bb *BookBuilder) WithChapter(path, content string) *BookBuilder {
	bb.files[path] = content
	return bb
}

// Build writes the project and returns its root directory.
func (bb *BookBuilder) Build() string {
	bb.t.Helper()

	switch {
	case bb.rawToml == nil:
		bb.WriteFile("book.toml", bb.bookToml())
	case *bb.rawToml != "":
		bb.WriteFile("book.toml", *bb.rawToml)
	}

	if bb.summary != "" {
		bb.WriteFile(filepath.Join(bb.srcDir, "SUMMARY.md"), bb.summary)
	}
	for path, content := range bb.files {
		bb.WriteFile(filepath.Join(bb.srcDir, path), content)
	}
	return bb.root
}

// Root returns the project directory.
func (bb *BookBuilder) Root() string {
	return bb.root
}

// SourcePath returns path joined to the project's source directory.
func (bb *BookBuilder) SourcePath(path string) string {
	return filepath.Join(bb.root, bb.srcDir, path)
}

// WriteFile writes content to path relative to the project root, creating
// parent directories.
func (bb *BookBuilder) WriteFile(path, content string) {
	bb.t.Helper()
	full := filepath.Join(bb.root, path)
	if err := os.MkdirAll(filepath.Dir(full), testDirPermissions); err != nil {
		bb.t.Fatalf("Failed to create directory for %s: %v", full, err)
	}
	if err := os.WriteFile(full, []byte(content), testFilePermissions); err != nil {
		bb.t.Fatalf("Failed to write %s: %v", full, err)
	}
}

func (bb *BookBuilder) bookToml() string {
	bb.t.Helper()
	doc := map[string]any{"book": bb.book}
	if len(bb.settings) > 0 {
		doc["preprocessor"] = map[string]any{"chapter-zero": bb.settings}
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		bb.t.Fatalf("Failed to marshal book.toml: %v", err)
	}
	return string(data)
}
