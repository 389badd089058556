package commands

import (
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/chapterzero"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/errors"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/logfields"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/metrics"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/preprocess"
)

// RunCmd implements the default command mdBook invokes for every build.
type RunCmd struct {
	MetricsTextfile string `name:"metrics-textfile" help:"Write Prometheus metrics for this run to a textfile" env:"MDBOOK_CHAPTER_ZERO_METRICS_TEXTFILE" type:"path"`
}

func (r *RunCmd) Run(g *Global) error {
	return r.Execute(g, os.Stdin, os.Stdout)
}

// Execute reads mdBook's [context, book] from in and writes the renumbered
// book to out.
func (r *RunCmd) Execute(g *Global, in io.Reader, out io.Writer) error {
	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)

	p := chapterzero.New(chapterzero.WithLogger(g.Logger), chapterzero.WithRecorder(rec))
	err := preprocess.Handle(p, in, out, g.Logger)
	if errors.HasCategory(err, errors.CategoryProtocol) {
		rec.IncRunOutcome(metrics.OutcomeInputError)
	}

	if r.MetricsTextfile != "" {
		if werr := metrics.WriteTextfile(r.MetricsTextfile, reg); werr != nil {
			if err == nil {
				return werr
			}
			g.Logger.Warn("Failed to write metrics textfile", logfields.Path(r.MetricsTextfile), logfields.Error(werr))
		}
	}
	return err
}
