package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWrite_CreatesDirectoryAndWritesVerbatim(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "generated_tests")
	content := "def test_x(): assert True"

	path, err := NewWriter(zap.NewNop().Sugar(), dir, "test_generated.py").Write(content)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "test_generated.py"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestWrite_OverwritesPreviousContent(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(zap.NewNop().Sugar(), dir, "test_generated.py")

	_, err := writer.Write("a much longer previous generation that must disappear")
	require.NoError(t, err)

	path, err := writer.Write("short")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "short", string(data))
}

func TestWrite_PreservesBytes(t *testing.T) {
	dir := t.TempDir()
	content := "# ünïcode ✓\r\nimport pytest\n\n\tdef test_tab():\n        pass\n"

	path, err := NewWriter(zap.NewNop().Sugar(), dir, "t.py").Write(content)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte(content), data)
}

func TestWrite_LeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := NewWriter(zap.NewNop().Sugar(), dir, "test_generated.py").Write("content")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "test_generated.py", entries[0].Name())
}

func TestWrite_DirectoryIsAFile(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "generated_tests")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0644))

	_, err := NewWriter(zap.NewNop().Sugar(), blocker, "test_generated.py").Write("content")

	assert.Error(t, err)
}

func TestNewWriter_Defaults(t *testing.T) {
	writer := NewWriter(zap.NewNop().Sugar(), "", "")

	assert.Equal(t, filepath.Join("generated_tests", "test_generated.py"), writer.Path())
}

func TestWrite_FileNameWithDirectories(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(zap.NewNop().Sugar(), dir, filepath.Join("sub", "test_generated.py"))

	path, err := writer.Write("x")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "sub", "test_generated.py"), path)
	assert.Equal(t, path, writer.Path())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}
