// Package book models the chapter tree an mdBook preprocessor receives: a
// forest of items where chapters carry an optional section number, content
// and nested sub-items.
package book

import "encoding/json"

// Item is one entry of the book tree. It is a closed set: *Chapter,
// Separator and PartTitle. Consumers switch on the concrete type.
type Item interface {
	isItem()
}

// Items is an ordered list of book items.
type Items []Item

// Separator is the horizontal rule between groups of chapters.
type Separator struct{}

// PartTitle is an unnumbered heading that groups the chapters after it.
type PartTitle struct {
	Title string
}

// Chapter is a numbered or unnumbered page of the book.
type Chapter struct {
	Name        string
	Content     string
	Number      SectionNumber
	SubItems    Items
	Path        *string
	SourcePath  *string
	ParentNames []string

	// Extra holds fields the host sent that this package does not model.
	// They are written back unchanged.
	Extra map[string]json.RawMessage
}

func (*Chapter) isItem()  {}
func (Separator) isItem() {}
func (PartTitle) isItem() {}

// Book is the whole tree handed over by the host tool.
type Book struct {
	Sections Items

	// Extra holds top-level fields such as mdBook's "__non_exhaustive".
	Extra map[string]json.RawMessage

	itemsKey string
}

// New builds a book from top-level items, ready to be serialized for mdBook.
func New(items ...Item) *Book {
	return &Book{
		Sections: items,
		Extra:    map[string]json.RawMessage{"__non_exhaustive": json.RawMessage("null")},
	}
}

// NewChapter creates a chapter with a source path relative to the book's source directory.
// An empty path yields a draft chapter.
func NewChapter(name, content string, number SectionNumber, path string, parentNames []string) *Chapter {
	ch := &Chapter{
		Name:        name,
		Content:     content,
		Number:      number,
		ParentNames: parentNames,
	}
	if path != "" {
		ch.Path = &path
		src := path
		ch.SourcePath = &src
	}
	return ch
}

// IsDraft reports whether the chapter has no backing file.
func (c *Chapter) IsDraft() bool {
	return c.Path == nil
}
