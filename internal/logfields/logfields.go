package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID         = "run_id"
	KeyRenderer      = "renderer"
	KeyMDBookVersion = "mdbook_version"
	KeyChapter       = "chapter"
	KeySectionNumber = "section_number"
	KeyPosition      = "position"
	KeyRule          = "rule"
	KeyPath          = "path"
	KeyFormat        = "format"
	KeyDurationMS    = "duration_ms"
	KeyError         = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Renderer(r string) slog.Attr      { return slog.String(KeyRenderer, r) }
func MDBookVersion(v string) slog.Attr { return slog.String(KeyMDBookVersion, v) }
func Chapter(name string) slog.Attr    { return slog.String(KeyChapter, name) }
func Position(p int) slog.Attr         { return slog.Int(KeyPosition, p) }
func Rule(r string) slog.Attr          { return slog.String(KeyRule, r) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Format(f string) slog.Attr        { return slog.String(KeyFormat, f) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }

// SectionNumber logs a number through its String method so "2.3.1" is what ends up in the log line.
func SectionNumber(n interface{ String() string }) slog.Attr {
	return slog.String(KeySectionNumber, n.String())
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
