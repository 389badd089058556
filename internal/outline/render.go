package outline

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/errors"
)

// Format is an outline output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// SupportedFormats returns the formats Render accepts.
func SupportedFormats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML}
}

// FormatDescription returns a one-line description of format.
func FormatDescription(format Format) string {
	descriptions := map[Format]string{
		FormatText: "Aligned before/after table for terminals",
		FormatJSON: "Structured JSON document",
		FormatYAML: "Structured YAML document",
	}
	return descriptions[format]
}

// Render writes o to w in the given format.
func Render(w io.Writer, o *Outline, format Format) error {
	switch format {
	case FormatText:
		return renderText(w, o)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(o)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(o); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.ValidationError(fmt.Sprintf("unsupported format: %s", format)).
			WithContext("format", string(format)).
			Build()
	}
}

func renderText(w io.Writer, o *Outline) error {
	var sb strings.Builder

	if o.Title != "" {
		sb.WriteString(o.Title + "\n")
	}
	fmt.Fprintf(&sb, "levels %v, marker %s\n\n", o.Levels, strconv.Quote(o.Marker))

	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BEFORE\tAFTER\tCHAPTER")
	for _, e := range o.Entries {
		indent := strings.Repeat("  ", e.Depth)
		switch e.Kind {
		case KindPart:
			fmt.Fprintf(tw, "\t\t%s# %s\n", indent, e.Name)
		case KindSeparator:
			fmt.Fprintf(tw, "\t\t%s---\n", indent)
		default:
			name := e.Name
			if e.Draft {
				name += " (draft)"
			}
			mark := ""
			if e.Changed {
				mark = " *"
			}
			fmt.Fprintf(tw, "%s\t%s%s\t%s%s\n", dash(e.Before), dash(e.After), mark, indent, name)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(&sb, "\n%d chapters, %d renumbered, %d local targets, %d underflows\n",
		o.Totals.Chapters, o.Totals.Renumbered, o.Totals.Targets, o.Totals.Underflows)

	_, err := io.WriteString(w, sb.String())
	return err
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
