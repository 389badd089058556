package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/errors"
)

// BookFileName is the book configuration file at the root of an mdBook project.
const BookFileName = "book.toml"

const defaultSourceDir = "src"

// BookFile is a parsed book.toml. Only the keys this tool consumes are
// exposed; the raw table is kept for preprocessor lookups.
type BookFile struct {
	Root string
	raw  map[string]any
}

// LoadBookFile reads root/book.toml. A missing file is not an error: mdBook
// itself runs with defaults in that case.
func LoadBookFile(root string) (*BookFile, error) {
	path := filepath.Join(root, BookFileName)
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return &BookFile{Root: root, raw: map[string]any{}}, nil
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read book.toml").
			WithContext("path", path).
			Build()
	}
	return ParseBookFile(root, data)
}

// ParseBookFile parses book.toml content for the book rooted at root.
func ParseBookFile(root string, data []byte) (*BookFile, error) {
	raw := map[string]any{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.WrapError(err, errors.CategoryBook, "book.toml is not valid TOML").
			WithContext("path", filepath.Join(root, BookFileName)).
			Build()
	}
	return &BookFile{Root: root, raw: raw}, nil
}

// Title returns book.title, or an empty string.
func (f *BookFile) Title() string {
	book, _ := f.raw["book"].(map[string]any)
	title, _ := book["title"].(string)
	return title
}

// SourceDir returns the chapter source directory (book.src, default "src"), joined to Root unless absolute.
func (f *BookFile) SourceDir() string {
	src := defaultSourceDir
	if book, ok := f.raw["book"].(map[string]any); ok {
		if s, ok := book["src"].(string); ok && s != "" {
			src = s
		}
	}
	if filepath.IsAbs(src) {
		return src
	}
	return filepath.Join(f.Root, src)
}

// PreprocessorTable returns the raw [preprocessor.<name>] table, or nil when absent.
func (f *BookFile) PreprocessorTable(name string) map[string]any {
	return PreprocessorTable(f.raw, name)
}

// PreprocessorTable looks up config.preprocessor.<name> in a raw book
// configuration. The same shape arrives as JSON in the host's context.
func PreprocessorTable(raw map[string]any, name string) map[string]any {
	preprocessors, ok := raw["preprocessor"].(map[string]any)
	if !ok {
		return nil
	}
	table, _ := preprocessors[name].(map[string]any)
	return table
}
