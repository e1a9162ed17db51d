// Package importer walks a directory tree on disk and loads it into an
// internal/tree.FileTree via Upsert, the filesystem-facing collaborator
// spec.md §6 deliberately leaves out of scope. Ignore-glob handling is
// modeled on build/builder.go's Options.IgnoreSizeMax pattern matching.
package importer

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/SNisin/VaultSeek/internal/tree"
)

// Options controls a Walk.
type Options struct {
	// Ignore lists doublestar glob patterns (matched against the path
	// relative to Root, forward-slash separated) that exclude a file or
	// directory, and everything beneath an excluded directory.
	Ignore []string

	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// Walk populates t from every file and directory under root, skipping
// those that match a pattern in opts.Ignore (and everything beneath an
// ignored directory). Returns the number of elements
// added (not counting the synthetic tree root).
func Walk(t *tree.FileTree, root string, opts Options) (int, error) {
	log := opts.logger()
	added := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("skipping path after walk error", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Wrapf(err, "computing relative path for %q", path)
		}
		rel = filepath.ToSlash(rel)

		if matchesAny(opts.Ignore, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			log.Warn("skipping path, could not stat", zap.String("path", path), zap.Error(err))
			return nil
		}

		size := info.Size()
		modified := info.ModTime().Unix()
		attrs := attrsOf(info)

		t.Upsert(rel, &size, &modified, nil, attrs)
		added++
		return nil
	})
	if err != nil {
		return added, errors.Wrapf(err, "walking %q", root)
	}
	return added, nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func attrsOf(info os.FileInfo) tree.Attr {
	var a tree.Attr
	if info.IsDir() {
		a |= tree.AttrDirectory
	}
	if info.Mode()&0200 == 0 {
		a |= tree.AttrReadOnly
	}
	if name := info.Name(); len(name) > 0 && name[0] == '.' {
		a |= tree.AttrHidden
	}
	return a
}
