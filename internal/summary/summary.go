// Package summary builds a numbered book from an mdBook project directory.
//
// It reads book.toml and the SUMMARY.md in the source directory, numbers the
// chapters the way mdBook does and loads each chapter's content. The result
// is the same tree mdBook hands to a preprocessor, which lets the outline
// command run the preprocessor without mdBook installed.
//
// SUMMARY.md layout:
//
//	# Summary                  optional title, ignored
//	[Preface](preface.md)      prefix chapters, unnumbered
//	# Part one                 part title
//	- [One](one.md)            numbered chapters, nested lists nest numbers
//	  - [Draft]()              draft chapter: numbered, no file
//	---                        separator
//	[Appendix](appendix.md)    suffix chapters, unnumbered
package summary

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/book"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/config"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/errors"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/logfields"
)

// FileName is the table of contents inside the source directory.
const FileName = "SUMMARY.md"

type phase int

const (
	phasePrefix phase = iota
	phaseNumbered
	phaseSuffix
)

type parser struct {
	src   []byte
	phase phase
	// top counts numbered top-level chapters across every list and part.
	top uint32
}

// Parse turns SUMMARY.md content into a book. Chapters carry names, numbers,
// paths and parent names; content is left empty.
func Parse(src []byte) (*book.Book, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	p := &parser{src: src}
	var items book.Items

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if n == doc.FirstChild() {
				continue
			}
			if node.Level != 1 {
				return nil, p.errorAt(n, "only level 1 headings may be used as part titles")
			}
			if p.phase == phaseSuffix {
				return nil, p.errorAt(n, "part titles are not allowed among suffix chapters")
			}
			p.phase = phaseNumbered
			items = append(items, book.PartTitle{Title: inlineText(node, src)})

		case *ast.ThematicBreak:
			items = append(items, book.Separator{})

		case *ast.Paragraph:
			if p.phase == phaseNumbered {
				p.phase = phaseSuffix
			}
			chapters, err := p.affixChapters(node)
			if err != nil {
				return nil, err
			}
			items = append(items, chapters...)

		case *ast.List:
			if p.phase == phaseSuffix {
				return nil, p.errorAt(n, "numbered chapters are not allowed after suffix chapters")
			}
			p.phase = phaseNumbered
			chapters, err := p.list(node, nil, nil)
			if err != nil {
				return nil, err
			}
			items = append(items, chapters...)

		case *ast.HTMLBlock:
			// Comments and other raw HTML carry no chapters.

		default:
			return nil, p.errorAt(n, "unexpected "+n.Kind().String()+" block")
		}
	}

	return book.New(items...), nil
}

// affixChapters reads a paragraph of prefix or suffix links.
func (p *parser) affixChapters(para *ast.Paragraph) (book.Items, error) {
	var items book.Items
	for c := para.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Link:
			items = append(items, p.chapter(node, nil, nil))
		case *ast.Text:
			if len(bytes.TrimSpace(node.Segment.Value(p.src))) != 0 {
				return nil, p.errorAt(para, "prefix and suffix chapters must be links")
			}
		default:
			return nil, p.errorAt(para, "prefix and suffix chapters must be links")
		}
	}
	return items, nil
}

// list numbers the items of a list. parent is the number of the enclosing
// chapter, nil at the top level.
func (p *parser) list(l *ast.List, parent book.SectionNumber, parentNames []string) (book.Items, error) {
	var items book.Items
	var index uint32

	for li := l.FirstChild(); li != nil; li = li.NextSibling() {
		link, nested, err := p.listItem(li)
		if err != nil {
			return nil, err
		}

		var number book.SectionNumber
		if parent == nil {
			p.top++
			number = book.SectionNumber{p.top}
		} else {
			index++
			number = append(parent.Clone(), index)
		}

		ch := p.chapter(link, number, parentNames)
		if nested != nil {
			names := append(append([]string(nil), parentNames...), ch.Name)
			subs, err := p.list(nested, number, names)
			if err != nil {
				return nil, err
			}
			ch.SubItems = subs
		}
		items = append(items, ch)
	}
	return items, nil
}

// listItem returns the link of a list item and its nested list, if any.
func (p *parser) listItem(li ast.Node) (*ast.Link, *ast.List, error) {
	var link *ast.Link
	var nested *ast.List

	for c := li.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.TextBlock, *ast.Paragraph:
			if link != nil {
				return nil, nil, p.errorAt(c, "list item has more than one line of text")
			}
			l, ok := node.FirstChild().(*ast.Link)
			if !ok {
				return nil, nil, p.errorAt(c, "list items must start with a link")
			}
			link = l
		case *ast.List:
			if nested != nil {
				return nil, nil, p.errorAt(c, "list item has more than one nested list")
			}
			nested = node
		default:
			return nil, nil, p.errorAt(c, "unexpected "+c.Kind().String()+" in list item")
		}
	}
	if link == nil {
		return nil, nil, p.errorAt(li, "list items must start with a link")
	}
	return link, nested, nil
}

func (p *parser) chapter(link *ast.Link, number book.SectionNumber, parentNames []string) *book.Chapter {
	dest := string(link.Destination)
	if unescaped, err := url.PathUnescape(dest); err == nil {
		dest = unescaped
	}
	if dest != "" {
		dest = filepath.ToSlash(filepath.Clean(dest))
	}
	return book.NewChapter(inlineText(link, p.src), "", number, dest, parentNames)
}

func (p *parser) errorAt(n ast.Node, message string) error {
	return errors.BookError("invalid "+FileName+": "+message).
		WithContext("line", lineOf(n, p.src)).
		Build()
}

// inlineText concatenates the literal text below n.
func inlineText(n ast.Node, src []byte) string {
	var buf strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

// lineOf returns the 1-based line of the first source line under n, or 0.
func lineOf(n ast.Node, src []byte) int {
	line := 0
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || c.Type() != ast.TypeBlock || c.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}
		line = bytes.Count(src[:c.Lines().At(0).Start], []byte("\n")) + 1
		return ast.WalkStop, nil
	})
	return line
}

// Load reads book.toml and SUMMARY.md from the book at root and fills in
// every non-draft chapter's content. A chapter whose file is missing keeps
// empty content and is reported at warn level.
func Load(root string, logger *slog.Logger) (*book.Book, *config.BookFile, error) {
	if logger == nil {
		logger = slog.Default()
	}

	bf, err := config.LoadBookFile(root)
	if err != nil {
		return nil, nil, err
	}

	srcDir := bf.SourceDir()
	summaryPath := filepath.Join(srcDir, FileName)
	data, err := os.ReadFile(summaryPath)
	if err != nil {
		category := errors.CategoryFileSystem
		if stderrors.Is(err, fs.ErrNotExist) {
			category = errors.CategoryBook
		}
		return nil, nil, errors.WrapError(err, category, "failed to read "+FileName).
			WithContext("path", summaryPath).
			Build()
	}

	b, err := Parse(data)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, nil, ce.WithContext("path", summaryPath)
		}
		return nil, nil, err
	}

	var loadErr error
	b.ForEachChapter(func(ch *book.Chapter) {
		if loadErr != nil || ch.IsDraft() {
			return
		}
		path := filepath.Join(srcDir, filepath.FromSlash(*ch.Path))
		content, err := os.ReadFile(path)
		switch {
		case err == nil:
			ch.Content = string(content)
		case stderrors.Is(err, fs.ErrNotExist):
			logger.Warn("Chapter file not found, using empty content",
				logfields.Chapter(ch.Name),
				logfields.Path(path))
		default:
			loadErr = errors.WrapError(err, errors.CategoryFileSystem, "failed to read chapter").
				WithContext("path", path).
				WithContext("chapter", ch.Name).
				Build()
		}
	})
	if loadErr != nil {
		return nil, nil, loadErr
	}

	return b, bf, nil
}
