package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/config"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/errors"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/logfields"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/outline"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/watch"
)

// OutlineCmd implements the 'outline' command.
type OutlineCmd struct {
	Book     string        `short:"b" help:"Book directory containing book.toml" default:"." type:"existingdir"`
	Format   string        `short:"f" help:"Output format: text, json, yaml" default:"text" enum:"text,json,yaml"`
	Output   string        `short:"o" help:"Output file path (optional, prints to stdout if not specified)" type:"path"`
	Levels   []int         `help:"Override levels from book.toml (comma separated)" sep:","`
	Marker   *string       `help:"Override the marker from book.toml"`
	Watch    bool          `short:"w" help:"Re-render whenever book.toml or a chapter changes"`
	Debounce time.Duration `help:"Quiet period before re-rendering in watch mode" default:"300ms"`
	List     bool          `short:"l" help:"List available formats and exit"`
}

func (o *OutlineCmd) Run(g *Global) error {
	if o.List {
		o.listFormats(os.Stdout)
		return nil
	}

	if !o.Watch {
		return o.render(g, os.Stdout)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return o.watch(ctx, g, os.Stdout)
}

func (o *OutlineCmd) listFormats(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Available outline formats:")
	_, _ = fmt.Fprintln(w)
	for _, format := range outline.SupportedFormats() {
		_, _ = fmt.Fprintf(w, "  %-6s %s\n", format, outline.FormatDescription(format))
	}
}

// render generates the outline once and writes it to o.Output or stdout.
func (o *OutlineCmd) render(g *Global, stdout io.Writer) error {
	result, err := outline.Generate(outline.Options{
		Root:   o.Book,
		Levels: o.Levels,
		Marker: o.Marker,
		Logger: g.Logger,
	})
	if err != nil {
		return err
	}

	if o.Output == "" {
		return outline.Render(stdout, result, outline.Format(o.Format))
	}

	var buf bytes.Buffer
	if err := outline.Render(&buf, result, outline.Format(o.Format)); err != nil {
		return err
	}
	if err := os.WriteFile(o.Output, buf.Bytes(), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output file").
			WithContext("path", o.Output).
			Build()
	}
	g.Logger.Info("Outline written", logfields.Path(o.Output), logfields.Format(o.Format))
	return nil
}

// watch renders once, then again after every debounced change until ctx ends.
// Failed renders are logged so an edit in progress does not end the session.
func (o *OutlineCmd) watch(ctx context.Context, g *Global, stdout io.Writer) error {
	bf, err := config.LoadBookFile(o.Book)
	if err != nil {
		return err
	}

	renderLogged := func(context.Context) error {
		start := time.Now()
		if err := o.render(g, stdout); err != nil {
			return err
		}
		g.Logger.Debug("Outline rendered", logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
		return nil
	}

	if err := renderLogged(ctx); err != nil {
		g.Logger.Error("Outline failed", logfields.Error(err))
	}

	w, err := watch.New(o.Book, bf.SourceDir(), renderLogged, watch.WithDebounce(o.Debounce), watch.WithLogger(g.Logger))
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Stop()
		return err
	}

	<-ctx.Done()
	g.Logger.Info("Stopping outline watch")
	return w.Stop()
}
