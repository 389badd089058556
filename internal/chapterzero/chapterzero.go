// Package chapterzero is the "chapter-zero" preprocessor: it resolves the
// book's [preprocessor.chapter-zero] table and renumbers the book so the
// configured levels, and the children of marked chapters, start at zero.
package chapterzero

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/book"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/config"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/logfields"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/metrics"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/preprocess"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/renumber"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/version"
)

// Name is the preprocessor name; its settings live under [preprocessor.chapter-zero].
const Name = "chapter-zero"

// unsupportedRenderer is the one renderer the preprocessor opts out of. It
// exists so hosts can exercise their renderer gating.
const unsupportedRenderer = "not-supported"

// Preprocessor zero-indexes section numbers.
type Preprocessor struct {
	logger   *slog.Logger
	recorder metrics.Recorder
	now      func() time.Time

	lastReport *renumber.Report
}

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Preprocessor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Preprocessor) {
		if r != nil {
			p.recorder = r
		}
	}
}

// New creates the preprocessor with slog.Default() and no metrics.
func New(opts ...Option) *Preprocessor {
	p := &Preprocessor{
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ preprocess.Preprocessor = (*Preprocessor)(nil)

// Metadata implements preprocess.Preprocessor.
func (p *Preprocessor) Metadata() preprocess.Metadata {
	return preprocess.Metadata{
		Name:        Name,
		Version:     version.Version,
		Description: "Zero-indexes chapter numbers globally by level or locally by marker",
	}
}

// SupportsRenderer implements preprocess.Preprocessor.
func (p *Preprocessor) SupportsRenderer(renderer string) bool {
	return renderer != unsupportedRenderer
}

// Run resolves the configuration from ctx and renumbers b in place. A
// configuration error is returned before the book is touched.
func (p *Preprocessor) Run(ctx *preprocess.Context, b *book.Book) error {
	return p.RunWithTable(ctx.PreprocessorTable(Name), b)
}

// RunWithTable is Run for callers that already hold the raw settings table.
func (p *Preprocessor) RunWithTable(raw map[string]any, b *book.Book) error {
	start := p.now()
	defer func() {
		p.recorder.ObserveRunDuration(p.now().Sub(start))
	}()

	cfg, err := config.Resolve(raw)
	if err != nil {
		p.recorder.IncRunOutcome(metrics.OutcomeConfigError)
		return err
	}
	p.logger.Debug("Config", slog.Any("config", cfg))
	if cfg.Marker == "" {
		p.logger.Warn("Empty marker matches every chapter; all numbered children will be zero-indexed")
	}

	report := renumber.Apply(cfg, b, renumber.WithLogger(p.logger))
	p.lastReport = report

	p.recorder.AddChapters(report.Visited)
	p.recorder.AddDecrements(string(renumber.RuleGlobal), report.GlobalDecrements)
	p.recorder.AddDecrements(string(renumber.RuleLocal), report.LocalDecrements)
	for _, u := range report.Underflows {
		p.recorder.AddUnderflows(string(u.Rule), 1)
	}
	p.recorder.SetLocalTargets(len(report.LocalTargets))
	p.recorder.IncRunOutcome(metrics.OutcomeSuccess)

	p.logger.Debug("Renumbering finished",
		slog.Int("chapters", report.Visited),
		slog.Int("global_decrements", report.GlobalDecrements),
		slog.Int("local_decrements", report.LocalDecrements),
		slog.Int("underflows", len(report.Underflows)),
		logfields.DurationMS(float64(p.now().Sub(start).Microseconds())/1000))
	return nil
}

// LastReport returns the report of the most recent successful run, or nil.
func (p *Preprocessor) LastReport() *renumber.Report {
	return p.lastReport
}
