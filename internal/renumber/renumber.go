// Package renumber rewrites chapter section numbers so that selected nesting
// depths count from zero.
//
// Two rules drive the rewrite. The global rule zero-indexes every chapter at
// the depths listed in Config.Levels. The local rule zero-indexes the direct
// children of any chapter whose content contains Config.Marker, unless those
// children already sit at a global level. A decrement always cascades onto
// the matching position of every numbered descendant.
//
// Apply walks the book twice. The first walk applies the global rule,
// consumes markers and records the numbers of marked chapters; the second
// walk decrements the descendants of every recorded number. Marker discovery
// has to finish for the whole tree before any local decrement is applied,
// since a marker on 2.3 must reach 2.3.1.4 regardless of walk order.
//
// Apply is not idempotent: running it twice over its own output decrements
// twice.
package renumber

import (
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/book"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/config"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/logfields"
)

// Rule names which rule caused a decrement.
type Rule string

const (
	RuleGlobal Rule = "global"
	RuleLocal  Rule = "local"
)

// Underflow is a decrement that was skipped because the position was already 0.
type Underflow struct {
	Chapter  string
	Number   book.SectionNumber
	Position int
	Rule     Rule
}

// Report summarizes one Apply call.
type Report struct {
	// Visited counts numbered chapters seen in the first walk.
	Visited int
	// Malformed counts chapters with an empty, non-nil number. They are left alone.
	Malformed int

	GlobalDecrements int
	LocalDecrements  int

	// LocalTargets are the numbers of chapters whose marker was consumed, as
	// they stood after the global rule.
	LocalTargets []book.SectionNumber

	MarkersStripped   int
	MarkersSuperseded int

	Underflows []Underflow
}

// Option configures Apply.
type Option func(*engine)

// WithLogger routes diagnostics to logger instead of slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

type engine struct {
	cfg    *config.Config
	logger *slog.Logger
	report *Report
}

// Apply renumbers b in place according to cfg and reports what changed.
// Chapters without a number, separators and part titles are never touched.
func Apply(cfg *config.Config, b *book.Book, opts ...Option) *Report {
	e := &engine{
		cfg:    cfg,
		logger: slog.Default(),
		report: &Report{},
	}
	for _, opt := range opts {
		opt(e)
	}

	pending := e.applyGlobal(b)
	e.logger.Debug("Local chapter zero targets", slog.Any("targets", numberStrings(pending)))
	e.applyLocal(b, pending)

	return e.report
}

// applyGlobal is the first walk. It returns the numbers of chapters whose
// marker was consumed.
func (e *engine) applyGlobal(b *book.Book) []book.SectionNumber {
	var pending []book.SectionNumber

	b.ForEachChapter(func(ch *book.Chapter) {
		sn := ch.Number
		if sn == nil {
			return
		}
		if len(sn) == 0 {
			e.report.Malformed++
			e.logger.Warn("Skipping chapter with empty section number", logfields.Chapter(ch.Name))
			return
		}
		e.report.Visited++

		for depth := range sn {
			if e.cfg.Levels.Has(depth) {
				e.decrement(ch, depth, RuleGlobal)
			}
		}

		content := normalizeNewlines(ch.Content)
		if !strings.Contains(content, e.cfg.Marker) {
			return
		}
		if e.cfg.Levels.Has(len(sn)) {
			// Children are already zero-indexed globally; the marker stays as written.
			e.report.MarkersSuperseded++
			return
		}

		pending = append(pending, sn.Clone())
		ch.Content = strings.ReplaceAll(content, e.cfg.Marker, "")
		e.report.MarkersStripped++
	})

	e.report.LocalTargets = pending
	return pending
}

// applyLocal is the second walk. Each chapter is matched against the pending
// prefixes using its number as it stood before this walk, so nested markers
// compose regardless of the order prefixes were recorded in.
func (e *engine) applyLocal(b *book.Book, pending []book.SectionNumber) {
	if len(pending) == 0 {
		return
	}

	b.ForEachChapter(func(ch *book.Chapter) {
		if len(ch.Number) == 0 {
			return
		}
		before := ch.Number.Clone()
		for _, prefix := range pending {
			if before.HasStrictPrefix(prefix) {
				e.decrement(ch, len(prefix), RuleLocal)
			}
		}
	})
}

// decrement lowers one position of ch's number. A position already at 0 is
// left as is and recorded as an underflow.
func (e *engine) decrement(ch *book.Chapter, pos int, rule Rule) {
	if ch.Number[pos] == 0 {
		u := Underflow{
			Chapter:  ch.Name,
			Number:   ch.Number.Clone(),
			Position: pos,
			Rule:     rule,
		}
		e.report.Underflows = append(e.report.Underflows, u)
		e.logger.Warn("Section number position already zero, decrement skipped",
			logfields.Chapter(ch.Name),
			logfields.SectionNumber(u.Number),
			logfields.Position(pos),
			logfields.Rule(string(rule)))
		return
	}

	ch.Number[pos]--
	switch rule {
	case RuleGlobal:
		e.report.GlobalDecrements++
	case RuleLocal:
		e.report.LocalDecrements++
	}
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func numberStrings(numbers []book.SectionNumber) []string {
	out := make([]string, len(numbers))
	for i, n := range numbers {
		out[i] = n.String()
	}
	return out
}
