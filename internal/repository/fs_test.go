package repository

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestResetDir(t *testing.T) {
	t.Run("Should clear an existing directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "devel/stale.html", "old")
		require.NoError(t, ResetDir(fs, "devel", 0755))
		exists, err := afero.Exists(fs, "devel/stale.html")
		require.NoError(t, err)
		assert.False(t, exists)
		isDir, err := afero.IsDir(fs, "devel")
		require.NoError(t, err)
		assert.True(t, isDir)
	})
	t.Run("Should succeed when the directory is absent", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, ResetDir(fs, "devel", 0755))
		isDir, err := afero.IsDir(fs, "devel")
		require.NoError(t, err)
		assert.True(t, isDir)
	})
}

func TestCopyDir(t *testing.T) {
	t.Run("Should copy nested tree byte-identically", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "build/index.html", "<html>root</html>")
		writeFile(t, fs, "build/api/ref.html", "<html>api</html>")
		require.NoError(t, CopyDir(fs, "build", "devel"))
		assert.Equal(t, "<html>root</html>", readFile(t, fs, "devel/index.html"))
		assert.Equal(t, "<html>api</html>", readFile(t, fs, "devel/api/ref.html"))
	})
	t.Run("Should overwrite existing files", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "build/index.html", "new")
		writeFile(t, fs, "site/index.html", "old")
		require.NoError(t, CopyDir(fs, "build", "site"))
		assert.Equal(t, "new", readFile(t, fs, "site/index.html"))
	})
	t.Run("Should keep files missing from the source", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "build/index.html", "new")
		writeFile(t, fs, "site/extra.html", "kept")
		require.NoError(t, CopyDir(fs, "build", "site"))
		assert.Equal(t, "kept", readFile(t, fs, "site/extra.html"))
	})
	t.Run("Should fail for a missing source", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		assert.Error(t, CopyDir(fs, "missing", "site"))
	})
	t.Run("Should fail when source is a file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "build", "not a dir")
		assert.Error(t, CopyDir(fs, "build", "site"))
	})
}
