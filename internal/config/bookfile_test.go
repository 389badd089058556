package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/errors"
)

const sampleBookTOML = `
[book]
title = "Zero Book"
src = "content"

[preprocessor.chapter-zero]
command = "mdbook-chapter-zero"
levels = [0, 2]
marker = "<!--zero-->"
`

func TestLoadBookFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, BookFileName), []byte(sampleBookTOML), 0o644))

	bf, err := LoadBookFile(root)
	require.NoError(t, err)
	require.Equal(t, "Zero Book", bf.Title())
	require.Equal(t, filepath.Join(root, "content"), bf.SourceDir())

	table := bf.PreprocessorTable("chapter-zero")
	require.NotNil(t, table)

	cfg, err := Resolve(table)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2}, cfg.Levels.Sorted())
	require.Equal(t, "<!--zero-->", cfg.Marker)

	require.Nil(t, bf.PreprocessorTable("other"))
}

func TestLoadBookFile_Missing(t *testing.T) {
	root := t.TempDir()
	bf, err := LoadBookFile(root)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "src"), bf.SourceDir())
	require.Empty(t, bf.Title())
	require.Nil(t, bf.PreprocessorTable("chapter-zero"))
}

func TestParseBookFile_Invalid(t *testing.T) {
	_, err := ParseBookFile("/book", []byte("[book\ntitle = 1"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryBook))
}

func TestParseBookFile_FloatLevelRejected(t *testing.T) {
	bf, err := ParseBookFile("/book", []byte("[preprocessor.chapter-zero]\nlevels = [1.0]\n"))
	require.NoError(t, err)
	_, err = Resolve(bf.PreprocessorTable("chapter-zero"))
	require.ErrorIs(t, err, ErrInvalidLevels)
}

func TestPreprocessorTable_WrongShape(t *testing.T) {
	require.Nil(t, PreprocessorTable(map[string]any{"preprocessor": "x"}, "chapter-zero"))
	require.Nil(t, PreprocessorTable(map[string]any{"preprocessor": map[string]any{"chapter-zero": 1}}, "chapter-zero"))
}
