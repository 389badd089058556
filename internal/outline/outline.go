// Package outline reports how the chapter-zero preprocessor renumbers a book
// on disk: every chapter's section number before and after the run.
package outline

import (
	"log/slog"
	"maps"

	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/book"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/chapterzero"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/config"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/metrics"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/summary"
)

// Entry kinds.
const (
	KindChapter   = "chapter"
	KindPart      = "part"
	KindSeparator = "separator"
)

// Entry is one line of the outline.
type Entry struct {
	Kind    string `json:"kind" yaml:"kind"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Depth   int    `json:"depth" yaml:"depth"`
	Before  string `json:"before,omitempty" yaml:"before,omitempty"`
	After   string `json:"after,omitempty" yaml:"after,omitempty"`
	Draft   bool   `json:"draft,omitempty" yaml:"draft,omitempty"`
	Changed bool   `json:"changed,omitempty" yaml:"changed,omitempty"`
}

// Totals summarizes the run behind an outline.
type Totals struct {
	Chapters   int `json:"chapters" yaml:"chapters"`
	Renumbered int `json:"renumbered" yaml:"renumbered"`
	Targets    int `json:"local_targets" yaml:"local_targets"`
	Underflows int `json:"underflows" yaml:"underflows"`
}

// Outline is the before/after numbering of a whole book.
type Outline struct {
	Title   string  `json:"title,omitempty" yaml:"title,omitempty"`
	Levels  []int   `json:"levels" yaml:"levels"`
	Marker  string  `json:"marker" yaml:"marker"`
	Entries []Entry `json:"entries" yaml:"entries"`
	Totals  Totals  `json:"totals" yaml:"totals"`
}

// Options selects the book and overrides its chapter-zero settings.
type Options struct {
	// Root is the book directory holding book.toml.
	Root string
	// Levels replaces the levels from book.toml when non-nil.
	Levels []int
	// Marker replaces the marker from book.toml when non-nil.
	Marker *string

	Logger   *slog.Logger
	Recorder metrics.Recorder
}

// Generate loads the book at opts.Root, runs the preprocessor over it the
// way mdBook would and returns the resulting outline.
func Generate(opts Options) (*Outline, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	b, bf, err := summary.Load(opts.Root, logger)
	if err != nil {
		return nil, err
	}

	table := overrides(bf.PreprocessorTable(chapterzero.Name), opts)
	cfg, err := config.Resolve(table)
	if err != nil {
		return nil, err
	}

	before := b.Clone()
	p := chapterzero.New(chapterzero.WithLogger(logger), chapterzero.WithRecorder(opts.Recorder))
	if err := p.RunWithTable(table, b); err != nil {
		return nil, err
	}

	o := Build(before, b)
	o.Title = bf.Title()
	o.Levels = cfg.Levels.Sorted()
	o.Marker = cfg.Marker
	if report := p.LastReport(); report != nil {
		o.Totals.Targets = len(report.LocalTargets)
		o.Totals.Underflows = len(report.Underflows)
	}
	return o, nil
}

func overrides(table map[string]any, opts Options) map[string]any {
	if opts.Levels == nil && opts.Marker == nil {
		return table
	}
	out := make(map[string]any, len(table)+2)
	maps.Copy(out, table)
	if opts.Levels != nil {
		out["levels"] = opts.Levels
	}
	if opts.Marker != nil {
		out["marker"] = *opts.Marker
	}
	return out
}

// Build pairs the items of before and after, which must share the same
// shape, into outline entries.
func Build(before, after *book.Book) *Outline {
	o := &Outline{Entries: []Entry{}}
	o.collect(padded(before.Sections, len(after.Sections)), after.Sections, 0)
	return o
}

func (o *Outline) collect(before, after book.Items, depth int) {
	for i, item := range after {
		switch it := item.(type) {
		case *book.Chapter:
			prev, _ := before[i].(*book.Chapter)
			e := Entry{
				Kind:  KindChapter,
				Name:  it.Name,
				Depth: depth,
				After: numberString(it.Number),
				Draft: it.IsDraft(),
			}
			if prev != nil {
				e.Before = numberString(prev.Number)
				e.Changed = !prev.Number.Equal(it.Number)
			}
			o.Entries = append(o.Entries, e)
			o.Totals.Chapters++
			if e.Changed {
				o.Totals.Renumbered++
			}
			var prevSubs book.Items
			if prev != nil {
				prevSubs = prev.SubItems
			}
			o.collect(padded(prevSubs, len(it.SubItems)), it.SubItems, depth+1)
		case book.PartTitle:
			o.Entries = append(o.Entries, Entry{Kind: KindPart, Name: it.Title, Depth: depth})
		case book.Separator:
			o.Entries = append(o.Entries, Entry{Kind: KindSeparator, Depth: depth})
		}
	}
}

// padded guards against a before tree that is shorter than the after tree.
func padded(items book.Items, n int) book.Items {
	if len(items) >= n {
		return items
	}
	out := make(book.Items, n)
	copy(out, items)
	return out
}

func numberString(n book.SectionNumber) string {
	if n == nil {
		return ""
	}
	return n.String()
}
