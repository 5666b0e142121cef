package crawler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("// empty\n"), 0o644))
}

func TestScanProject(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "src/app.ts")
	touch(t, root, "src/util.js")
	touch(t, root, "src/types.d.ts")
	touch(t, root, "vendor/bundle.min.js")
	touch(t, root, "node_modules/lib/index.js")
	touch(t, root, "generated/api.ts")
	touch(t, root, "README.md")

	c := New([]string{"generated"})

	var seen []string
	err := c.ScanProject(root, func(path string) error {
		rel, relErr := filepath.Rel(root, path)
		require.NoError(t, relErr)
		seen = append(seen, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/app.ts", "src/util.js"}, seen)
}

func TestScanProject_CallbackErrorStopsWalk(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.ts")

	c := New(nil)
	err := c.ScanProject(root, func(string) error {
		return os.ErrPermission
	})
	assert.ErrorIs(t, err, os.ErrPermission)
}
