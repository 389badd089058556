package commands

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/logfields"
)

// LogLevelEnv overrides the log level when --verbose is not given.
const LogLevelEnv = "MDBOOK_CHAPTER_ZERO_LOG_LEVEL"

// Global is shared state passed to every command's Run method.
type Global struct {
	Logger *slog.Logger
	RunID  string
}

// NewGlobal creates the shared state for one process invocation.
func NewGlobal() *Global {
	return &Global{
		Logger: slog.Default(),
		RunID:  uuid.NewString(),
	}
}

// CLI definition & global flags.
type CLI struct {
	Verbose bool             `short:"v" help:"Enable verbose logging" env:"MDBOOK_CHAPTER_ZERO_VERBOSE"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run      RunCmd      `cmd:"" default:"withargs" help:"Preprocess the book mdBook sends on stdin (default)"`
	Supports SupportsCmd `cmd:"" help:"Report whether a renderer is supported (exit 0) or not (exit 1)"`
	Outline  OutlineCmd  `cmd:"" help:"Show section numbers of a book before and after renumbering"`
}

// AfterApply runs after flag parsing; setup logging once. mdBook reads the
// preprocessed book from stdout, so logs always go to stderr.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	g.Logger = logger.With(logfields.RunID(g.RunID))
	return nil
}

// parseLogLevel honours --verbose first, then LogLevelEnv.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(LogLevelEnv))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
