package book

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleBook = `{
  "sections": [
    {"Chapter": {
      "name": "Intro",
      "content": "# Intro\n",
      "number": null,
      "sub_items": [],
      "path": "intro.md",
      "source_path": "intro.md",
      "parent_names": []
    }},
    {"PartTitle": "Basics"},
    {"Chapter": {
      "name": "Setup",
      "content": "<!-- ch0 -->\n# Setup\n",
      "number": [1],
      "sub_items": [
        {"Chapter": {
          "name": "Install",
          "content": "",
          "number": [1, 1],
          "sub_items": [],
          "path": null,
          "source_path": null,
          "parent_names": ["Setup"],
          "future_field": {"x": 1}
        }}
      ],
      "path": "setup.md",
      "source_path": "setup.md",
      "parent_names": []
    }},
    "Separator"
  ],
  "__non_exhaustive": null
}`

func TestBook_UnmarshalJSON(t *testing.T) {
	var b Book
	require.NoError(t, json.Unmarshal([]byte(sampleBook), &b))
	require.Len(t, b.Sections, 4)

	intro, ok := b.Sections[0].(*Chapter)
	require.True(t, ok)
	require.Equal(t, "Intro", intro.Name)
	require.Nil(t, intro.Number)
	require.Equal(t, "intro.md", *intro.Path)

	require.Equal(t, PartTitle{Title: "Basics"}, b.Sections[1])
	require.Equal(t, Separator{}, b.Sections[3])

	setup := b.Sections[2].(*Chapter)
	require.Equal(t, SectionNumber{1}, setup.Number)
	require.Len(t, setup.SubItems, 1)

	install := setup.SubItems[0].(*Chapter)
	require.Equal(t, SectionNumber{1, 1}, install.Number)
	require.True(t, install.IsDraft())
	require.Equal(t, []string{"Setup"}, install.ParentNames)
	require.JSONEq(t, `{"x": 1}`, string(install.Extra["future_field"]))

	require.Contains(t, b.Extra, "__non_exhaustive")
}

func TestBook_RoundTripPreservesUnknownFields(t *testing.T) {
	var b Book
	require.NoError(t, json.Unmarshal([]byte(sampleBook), &b))

	out, err := json.Marshal(&b)
	require.NoError(t, err)
	require.JSONEq(t, sampleBook, string(out))
}

func TestBook_ItemsKeyIsPreserved(t *testing.T) {
	in := `{"items": ["Separator"]}`
	var b Book
	require.NoError(t, json.Unmarshal([]byte(in), &b))
	require.Len(t, b.Sections, 1)

	out, err := json.Marshal(&b)
	require.NoError(t, err)
	require.JSONEq(t, in, string(out))
}

func TestBook_UnmarshalErrors(t *testing.T) {
	tests := map[string]string{
		"no items":        `{"__non_exhaustive": null}`,
		"unknown tag":     `{"sections": ["Spacer"]}`,
		"unknown variant": `{"sections": [{"Appendix": {}}]}`,
		"two variants":    `{"sections": [{"Chapter": {}, "PartTitle": "x"}]}`,
		"bad number":      `{"sections": [{"Chapter": {"name": "x", "number": [-1]}}]}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			var b Book
			require.Error(t, json.Unmarshal([]byte(in), &b))
		})
	}
}

func TestChapter_MarshalJSONNilListsBecomeEmpty(t *testing.T) {
	b := New(NewChapter("Draft", "", SectionNumber{1}, "", nil))

	out, err := json.Marshal(b)
	require.NoError(t, err)
	require.JSONEq(t, `{
	  "sections": [{"Chapter": {
	    "name": "Draft", "content": "", "number": [1], "sub_items": [],
	    "path": null, "source_path": null, "parent_names": []
	  }}],
	  "__non_exhaustive": null
	}`, string(out))
}
