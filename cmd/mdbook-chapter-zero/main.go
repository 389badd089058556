package main

import (
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/mdbook-chapter-zero/cmd/mdbook-chapter-zero/commands"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/errors"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/version"
)

func main() {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cli := &commands.CLI{}
	global := commands.NewGlobal()
	parser := kong.Parse(cli,
		kong.Name("mdbook-chapter-zero"),
		kong.Description("mdBook preprocessor that zero-indexes chapter numbers"),
		kong.UsageOnError(),
		kong.Bind(global),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run()
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
