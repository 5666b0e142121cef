package crawler

import (
	"io/fs"
	"path/filepath"

	"jankguard/internal/parse"
)

// Crawler scans a directory for analyzable source files.
type Crawler struct {
	ignored map[string]struct{}
}

// New creates a crawler. The extra directory names are skipped on top of the
// built-in ignore list.
func New(extraIgnores []string) *Crawler {
	c := &Crawler{ignored: map[string]struct{}{
		".git":         {},
		"node_modules": {},
		"dist":         {},
		"build":        {},
		"coverage":     {},
	}}
	for _, name := range extraIgnores {
		if name != "" {
			c.ignored[name] = struct{}{}
		}
	}
	return c
}

// ScanProject walks the root directory and streams every file a frontend
// exists for. Walk errors on individual entries abort the scan; which files
// count is decided by parse.ForPath, so the crawler and the engine can never
// disagree.
func (c *Crawler) ScanProject(root string, onFile func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if _, skip := c.ignored[d.Name()]; skip {
				return filepath.SkipDir
			}
			return nil
		}

		if parse.ForPath(path) == nil {
			return nil
		}
		return onFile(path)
	})
}
