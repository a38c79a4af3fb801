package source

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/camt-qif/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func writeZip(t *testing.T, path string, members map[string]string) string {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	for name, content := range members {
		mw, err := w.Create(name)
		require.NoError(t, err)
		_, err = mw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestCollector_Collect(t *testing.T) {
	dir := t.TempDir()
	plain := writeFile(t, filepath.Join(dir, "a.xml"), "<Document/>")
	notes := writeFile(t, filepath.Join(dir, "notes.txt"), "ignore me")
	archive := writeZip(t, filepath.Join(dir, "export.zip"), map[string]string{
		"b.xml":        "<Document>b</Document>",
		"nested/c.XML": "<Document>c</Document>",
		"readme.txt":   "skip",
	})

	logger := logging.NewMockLogger()
	c := NewCollector(logger)
	defer func() { assert.NoError(t, c.Cleanup()) }()

	files, err := c.Collect([]string{plain, notes, archive})
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, plain, files[0])
	assert.Equal(t, "b.xml", filepath.Base(files[1]))
	assert.Equal(t, "c.XML", filepath.Base(files[2]))

	data, err := os.ReadFile(files[2])
	require.NoError(t, err)
	assert.Equal(t, "<Document>c</Document>", string(data))

	assert.Equal(t, []string{plain, archive}, c.Consumed())
	assert.Len(t, logger.GetEntriesByLevel("WARN"), 2)
}

func TestCollector_Cleanup(t *testing.T) {
	dir := t.TempDir()
	archive := writeZip(t, filepath.Join(dir, "export.zip"), map[string]string{"b.xml": "<Document/>"})

	c := NewCollector(logging.NewMockLogger())
	files, err := c.Collect([]string{archive})
	require.NoError(t, err)
	require.Len(t, files, 1)

	extractedDir := filepath.Dir(files[0])
	assert.DirExists(t, extractedDir)

	require.NoError(t, c.Cleanup())
	assert.NoDirExists(t, extractedDir)
	assert.FileExists(t, archive, "cleanup never touches sources")
}

func TestCollector_Prune(t *testing.T) {
	dir := t.TempDir()
	plain := writeFile(t, filepath.Join(dir, "a.xml"), "<Document/>")
	skipped := writeFile(t, filepath.Join(dir, "notes.txt"), "keep")
	archive := writeZip(t, filepath.Join(dir, "export.zip"), map[string]string{"b.xml": "<Document/>"})

	c := NewCollector(logging.NewMockLogger())
	defer func() { assert.NoError(t, c.Cleanup()) }()

	_, err := c.Collect([]string{plain, skipped, archive})
	require.NoError(t, err)
	require.NoError(t, c.Prune())

	assert.NoFileExists(t, plain)
	assert.NoFileExists(t, archive)
	assert.FileExists(t, skipped)
	assert.Empty(t, c.Consumed())
}

func TestCollector_MissingSource(t *testing.T) {
	c := NewCollector(logging.NewMockLogger())
	_, err := c.Collect([]string{filepath.Join(t.TempDir(), "missing.xml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCollector_ZipSlip(t *testing.T) {
	dir := t.TempDir()
	archive := writeZip(t, filepath.Join(dir, "evil.zip"), map[string]string{"../../escape.xml": "<Document/>"})

	c := NewCollector(logging.NewMockLogger())
	defer func() { assert.NoError(t, c.Cleanup()) }()

	_, err := c.Collect([]string{archive})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal path in archive")
}

func TestCollector_DirectorySkipped(t *testing.T) {
	dir := t.TempDir()
	logger := logging.NewMockLogger()
	c := NewCollector(logger)

	files, err := c.Collect([]string{dir})
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.True(t, logger.HasEntry("WARN", "Skipping directory source"))
}
