package commands

import (
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/chapterzero"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/logfields"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/preprocess"
)

// SupportsCmd implements "supports <renderer>". The answer is the exit status.
type SupportsCmd struct {
	Renderer string `arg:"" help:"Renderer name, e.g. html"`
}

func (s *SupportsCmd) Run(g *Global) error {
	err := preprocess.Supports(chapterzero.New(chapterzero.WithLogger(g.Logger)), s.Renderer)
	g.Logger.Debug("Renderer support queried", logfields.Renderer(s.Renderer), logfields.Error(err))
	return err
}
