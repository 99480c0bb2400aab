package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
)

// FilesystemLoader reads the corpus from a local directory tree.
// Object names are slash-separated paths relative to the root.
type FilesystemLoader struct {
	root   string
	logger arbor.ILogger
}

// NewFilesystemLoader creates a loader rooted at dir
func NewFilesystemLoader(dir string, logger arbor.ILogger) *FilesystemLoader {
	return &FilesystemLoader{root: dir, logger: logger}
}

// List walks the directory and returns every regular file, sorted
func (l *FilesystemLoader) List(ctx context.Context) ([]string, error) {
	info, err := os.Stat(l.root)
	if err != nil {
		return nil, fmt.Errorf("corpus directory %s is not accessible: %w", l.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus path %s is not a directory", l.root)
	}

	var names []string
	err = filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			// Skip hidden directories such as .git
			if path != l.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list corpus directory %s: %w", l.root, err)
	}

	sort.Strings(names)

	l.logger.Debug().
		Str("dir", l.root).
		Int("objects", len(names)).
		Msg("Listed corpus directory")

	return names, nil
}

// Fetch reads one file by its relative name
func (l *FilesystemLoader) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := filepath.FromSlash(name)
	if !filepath.IsLocal(clean) {
		return nil, fmt.Errorf("invalid document name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(l.root, clean))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// Location returns the root directory
func (l *FilesystemLoader) Location() string {
	return l.root
}

// Close is a no-op for the filesystem
func (l *FilesystemLoader) Close() error {
	return nil
}
