package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// FileAssertions checks files written below a base directory, typically an
// outline output file or a metrics textfile.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates assertions rooted at baseDir.
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

// AssertFileExists fails the test unless rel is a regular file.
func (fa *FileAssertions) AssertFileExists(rel string) *FileAssertions {
	fa.t.Helper()
	info, err := os.Stat(fa.path(rel))
	require.NoError(fa.t, err, "expected %s to exist", rel)
	require.True(fa.t, info.Mode().IsRegular(), "%s is not a regular file", rel)
	return fa
}

// AssertFileContains fails the test unless rel contains every fragment.
func (fa *FileAssertions) AssertFileContains(rel string, fragments ...string) *FileAssertions {
	fa.t.Helper()
	content := fa.GetFileContent(rel)
	for _, fragment := range fragments {
		require.Contains(fa.t, content, fragment, "in %s", rel)
	}
	return fa
}

// GetFileContent returns the content of rel, failing the test if it cannot be read.
func (fa *FileAssertions) GetFileContent(rel string) string {
	fa.t.Helper()
	data, err := os.ReadFile(fa.path(rel))
	require.NoError(fa.t, err)
	return string(data)
}

func (fa *FileAssertions) path(rel string) string {
	return filepath.Join(fa.baseDir, rel)
}
