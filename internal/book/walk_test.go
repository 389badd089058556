package book

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleTree() *Book {
	child := NewChapter("1.1", "", SectionNumber{1, 1}, "a/b.md", []string{"1"})
	grandchild := NewChapter("1.1.1", "", SectionNumber{1, 1, 1}, "a/b/c.md", []string{"1", "1.1"})
	child.SubItems = Items{grandchild}
	top := NewChapter("1", "", SectionNumber{1}, "a.md", nil)
	top.SubItems = Items{child, Separator{}}

	return New(
		NewChapter("Preface", "", nil, "preface.md", nil),
		PartTitle{Title: "Part"},
		top,
		NewChapter("2", "", SectionNumber{2}, "b.md", nil),
	)
}

func TestBook_WalkIsPreOrder(t *testing.T) {
	var seen []string
	sampleTree().Walk(func(item Item) {
		switch it := item.(type) {
		case *Chapter:
			seen = append(seen, it.Name)
		case PartTitle:
			seen = append(seen, "#"+it.Title)
		case Separator:
			seen = append(seen, "---")
		}
	})
	require.Equal(t, []string{"Preface", "#Part", "1", "1.1", "1.1.1", "---", "2"}, seen)
}

func TestBook_ChaptersSkipsOtherItems(t *testing.T) {
	var names []string
	for _, ch := range sampleTree().Chapters() {
		names = append(names, ch.Name)
	}
	require.Equal(t, []string{"Preface", "1", "1.1", "1.1.1", "2"}, names)
}

func TestBook_CloneIsDeep(t *testing.T) {
	orig := sampleTree()
	cp := orig.Clone()

	for _, ch := range cp.Chapters() {
		ch.Content = "changed"
		if ch.Number != nil {
			ch.Number[0] = 42
		}
		if ch.Path != nil {
			*ch.Path = "moved.md"
		}
	}

	for _, ch := range orig.Chapters() {
		require.Empty(t, ch.Content)
		if ch.Number != nil {
			require.NotEqual(t, uint32(42), ch.Number[0])
		}
		require.NotEqual(t, "moved.md", *ch.Path)
	}
	require.Equal(t, orig.Extra, cp.Extra)
}
