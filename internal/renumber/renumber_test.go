package renumber

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/book"
	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/config"
)

const marker = config.DefaultMarker

// ch builds a chapter named after its original number so assertions can find it after renumbering.
func ch(number, content string, subs ...book.Item) *book.Chapter {
	var sn book.SectionNumber
	if number != "" {
		sn = book.MustParseSectionNumber(number)
	}
	c := book.NewChapter(number, content, sn, "", nil)
	c.SubItems = subs
	return c
}

func numbers(b *book.Book) map[string]string {
	out := map[string]string{}
	b.ForEachChapter(func(c *book.Chapter) {
		if c.Number != nil {
			out[c.Name] = c.Number.String()
		}
	})
	return out
}

func chapter(b *book.Book, name string) *book.Chapter {
	for _, c := range b.Chapters() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func cfg(marker string, levels ...int) *config.Config {
	return &config.Config{Levels: config.NewLevels(levels...), Marker: marker}
}

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func sampleBook() *book.Book {
	return book.New(
		ch("", "preface"),
		ch("1", "one", ch("1.1", "", ch("1.1.1", "")), ch("1.2", "")),
		book.PartTitle{Title: "Part"},
		ch("2", "two", ch("2.1", "", ch("2.1.1", ""))),
		book.Separator{},
		ch("3", "three"),
	)
}

func TestApply_IdentityWithoutLevelsOrMarkers(t *testing.T) {
	b := sampleBook()
	want := numbers(b)

	report := Apply(config.Default(), b, quiet())

	require.Equal(t, want, numbers(b))
	require.Zero(t, report.GlobalDecrements)
	require.Zero(t, report.LocalDecrements)
	require.Empty(t, report.LocalTargets)
	require.Equal(t, 8, report.Visited)
}

func TestApply_GlobalTopLevel(t *testing.T) {
	b := sampleBook()

	Apply(cfg(marker, 0), b, quiet())

	require.Equal(t, map[string]string{
		"1": "0", "1.1": "0.1", "1.1.1": "0.1.1", "1.2": "0.2",
		"2": "1", "2.1": "1.1", "2.1.1": "1.1.1",
		"3": "2",
	}, numbers(b))
}

func TestApply_GlobalSecondLevel(t *testing.T) {
	b := sampleBook()

	report := Apply(cfg(marker, 1), b, quiet())

	require.Equal(t, map[string]string{
		"1": "1", "1.1": "1.0", "1.1.1": "1.0.1", "1.2": "1.1",
		"2": "2", "2.1": "2.0", "2.1.1": "2.0.1",
		"3": "3",
	}, numbers(b))
	require.Equal(t, 5, report.GlobalDecrements)
}

func TestApply_GlobalMultipleLevels(t *testing.T) {
	b := sampleBook()

	Apply(cfg(marker, 0, 1), b, quiet())

	require.Equal(t, "0.0.1", numbers(b)["1.1.1"])
	require.Equal(t, "1.0", numbers(b)["2.1"])
}

func TestApply_GlobalIndependentOfSiblingOrder(t *testing.T) {
	forward := book.New(ch("1", "", ch("1.1", ""), ch("1.2", "")), ch("2", ""))
	reversed := book.New(ch("2", ""), ch("1", "", ch("1.2", ""), ch("1.1", "")))

	Apply(cfg(marker, 0, 1), forward, quiet())
	Apply(cfg(marker, 0, 1), reversed, quiet())

	require.Equal(t, numbers(forward), numbers(reversed))
}

func TestApply_LocalMarker(t *testing.T) {
	b := sampleBook()
	chapter(b, "2").Content = "two\n" + marker + "rest"

	report := Apply(config.Default(), b, quiet())

	got := numbers(b)
	require.Equal(t, "2", got["2"], "the marked chapter keeps its own number")
	require.Equal(t, "2.0", got["2.1"])
	require.Equal(t, "2.0.1", got["2.1.1"])
	require.Equal(t, "1.1.1", got["1.1.1"], "other chapters are unaffected")
	require.Equal(t, "3", got["3"])

	require.Equal(t, "two\nrest", chapter(b, "2").Content)
	require.Equal(t, []book.SectionNumber{{2}}, report.LocalTargets)
	require.Equal(t, 1, report.MarkersStripped)
	require.Equal(t, 2, report.LocalDecrements)
}

func TestApply_LocalMarkerRemovesEveryOccurrence(t *testing.T) {
	content := marker + "a" + marker + "b" + marker
	b := book.New(ch("1", content, ch("1.1", "")))

	Apply(config.Default(), b, quiet())

	got := chapter(b, "1").Content
	require.Equal(t, "ab", got)
	require.Equal(t, len(content)-3*len(marker), len(got))
	require.Equal(t, "1.0", numbers(b)["1.1"], "several occurrences still decrement once")
}

func TestApply_LocalMarkerWithCRLF(t *testing.T) {
	b := book.New(ch("1", "title\r\n<!-- ch0 -->\r\nbody\r\n", ch("1.1", "")))

	Apply(config.Default(), b, quiet())

	require.Equal(t, "title\nbody\n", chapter(b, "1").Content)
	require.Equal(t, "1.0", numbers(b)["1.1"])
}

func TestApply_ContentWithoutMarkerKeepsLineEndings(t *testing.T) {
	b := book.New(ch("1", "a\r\nb\r\n"))

	Apply(config.Default(), b, quiet())

	require.Equal(t, "a\r\nb\r\n", chapter(b, "1").Content)
}

func TestApply_MarkerSupersededByGlobalLevel(t *testing.T) {
	b := book.New(ch("1", "x"+marker, ch("1.1", "", ch("1.1.1", ""))))

	report := Apply(cfg(marker, 1), b, quiet())

	require.Equal(t, "x"+marker, chapter(b, "1").Content, "superseded marker is left in place")
	require.Equal(t, "1.0", numbers(b)["1.1"], "children decremented once, by the global rule")
	require.Equal(t, "1.0.1", numbers(b)["1.1.1"])
	require.Equal(t, 1, report.MarkersSuperseded)
	require.Empty(t, report.LocalTargets)
}

func TestApply_MarkerWithUnrelatedGlobalLevel(t *testing.T) {
	b := book.New(ch("1", marker, ch("1.1", "", ch("1.1.1", ""))), ch("2", ""))

	report := Apply(cfg(marker, 0), b, quiet())

	require.Equal(t, map[string]string{"1": "0", "1.1": "0.0", "1.1.1": "0.0.1", "2": "1"}, numbers(b))
	require.Equal(t, []book.SectionNumber{{0}}, report.LocalTargets, "targets are recorded after the global rule")
}

func TestApply_CustomMarker(t *testing.T) {
	b := book.New(
		ch("1", config.DefaultMarker, ch("1.1", "")),
		ch("2", "<!--zero-->", ch("2.1", "")),
	)

	Apply(cfg("<!--zero-->"), b, quiet())

	require.Equal(t, "1.1", numbers(b)["1.1"], "the default marker means nothing once a custom one is configured")
	require.Equal(t, config.DefaultMarker, chapter(b, "1").Content)
	require.Equal(t, "2.0", numbers(b)["2.1"])
	require.Empty(t, chapter(b, "2").Content)
}

func TestApply_NestedMarkersCompose(t *testing.T) {
	b := book.New(ch("2", marker, ch("2.1", marker, ch("2.1.1", ""), ch("2.1.2", "")), ch("2.2", "")))

	report := Apply(config.Default(), b, quiet())

	require.Equal(t, map[string]string{
		"2": "2", "2.1": "2.0", "2.1.1": "2.0.0", "2.1.2": "2.0.1", "2.2": "2.1",
	}, numbers(b))
	require.Empty(t, report.Underflows)
}

func TestApply_MarkerOnLeafChapter(t *testing.T) {
	b := book.New(ch("1", marker), ch("2", ""))

	report := Apply(config.Default(), b, quiet())

	require.Equal(t, map[string]string{"1": "1", "2": "2"}, numbers(b))
	require.Empty(t, chapter(b, "1").Content)
	require.Equal(t, 1, report.MarkersStripped)
	require.Zero(t, report.LocalDecrements)
}

func TestApply_UnnumberedAndOtherItemsUntouched(t *testing.T) {
	b := sampleBook()
	preface := chapter(b, "")
	preface.Content = "preface " + marker

	report := Apply(cfg(marker, 0), b, quiet())

	require.Nil(t, preface.Number)
	require.Equal(t, "preface "+marker, preface.Content, "unnumbered chapters are skipped entirely")
	require.Equal(t, book.PartTitle{Title: "Part"}, b.Sections[2])
	require.Equal(t, book.Separator{}, b.Sections[4])
	require.Empty(t, report.LocalTargets)
}

func TestApply_EmptyNumberIsSkipped(t *testing.T) {
	malformed := book.NewChapter("bad", marker, book.SectionNumber{}, "", nil)
	b := book.New(malformed, ch("1", "", ch("1.1", "")))

	report := Apply(config.Default(), b, quiet())

	require.Equal(t, 1, report.Malformed)
	require.Equal(t, marker, malformed.Content)
	require.Equal(t, map[string]string{"bad": "", "1": "1", "1.1": "1.1"}, numbers(b),
		"an empty prefix must not decrement the whole book")
}

func TestApply_UnderflowIsSkippedAndReported(t *testing.T) {
	var logs bytes.Buffer
	b := book.New(ch("0", "", ch("0.1", "")), ch("1", ""))

	report := Apply(cfg(marker, 0), b, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	require.Equal(t, map[string]string{"0": "0", "0.1": "0.1", "1": "0"}, numbers(b))
	require.Len(t, report.Underflows, 2)
	require.Equal(t, Underflow{Chapter: "0", Number: book.SectionNumber{0}, Position: 0, Rule: RuleGlobal}, report.Underflows[0])
	require.Equal(t, "0.1", report.Underflows[1].Chapter)
	require.Contains(t, logs.String(), "decrement skipped")
	require.Contains(t, logs.String(), "section_number=0.1")
}

func TestApply_UnderflowFromLocalRule(t *testing.T) {
	b := book.New(ch("1", marker, ch("1.0", "")))

	report := Apply(config.Default(), b, quiet())

	require.Equal(t, "1.0", numbers(b)["1.0"])
	require.Len(t, report.Underflows, 1)
	require.Equal(t, RuleLocal, report.Underflows[0].Rule)
	require.Equal(t, 1, report.Underflows[0].Position)
}

func TestApply_IsNotIdempotent(t *testing.T) {
	b := book.New(ch("1", "", ch("1.1", "")), ch("2", ""), ch("3", ""))
	c := cfg(marker, 0)

	Apply(c, b, quiet())
	first := numbers(b)
	Apply(c, b, quiet())

	require.NotEqual(t, first, numbers(b))
	require.Equal(t, "0", numbers(b)["2"])
	require.Equal(t, "1", numbers(b)["3"])
}

func TestApply_EmptyMarkerMatchesEveryChapter(t *testing.T) {
	b := book.New(ch("1", "text", ch("1.1", "", ch("1.1.1", ""))))

	Apply(cfg(""), b, quiet())

	require.Equal(t, "text", chapter(b, "1").Content)
	require.Equal(t, map[string]string{"1": "1", "1.1": "1.0", "1.1.1": "1.0.0"}, numbers(b))
}

func TestApply_LogsTargetsAtDebug(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	b := book.New(ch("3", marker, ch("3.1", "")))

	Apply(config.Default(), b, WithLogger(logger))

	require.True(t, strings.Contains(logs.String(), "targets=[3]"), logs.String())
}
