// Package discover walks a repository and selects the candidate files the
// map covers: supported source languages, not ignored, not binary.
package discover

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/repomap/internal/cache"
	"github.com/mvp-joe/repomap/internal/parsers"
)

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery walks a repository root applying ignore rules.
type Discovery struct {
	root           string
	ignorePatterns []compiledPattern
}

// DefaultIgnores are always skipped regardless of configuration.
var DefaultIgnores = []string{
	".git/**",
	"node_modules/**",
	"vendor/**",
	"dist/**",
	"build/**",
	"target/**",
	"__pycache__/**",
	".venv/**",
	"venv/**",
}

// New creates a Discovery for root with the given additional ignore
// patterns (gitignore-style globs, matched against slash-separated paths
// relative to root).
func New(root string, ignorePatterns []string) (*Discovery, error) {
	d := &Discovery{root: root}

	for _, pattern := range append(append([]string{}, DefaultIgnores...), ignorePatterns...) {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		d.ignorePatterns = append(d.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return d, nil
}

// Files returns the sorted repo-relative paths of all candidate files.
func (d *Discovery) Files() ([]string, error) {
	var files []string

	err := filepath.Walk(d.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath == "." {
				return nil
			}
			if d.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.shouldIgnore(relPath) {
			return nil
		}
		if !parsers.Supported(relPath) {
			return nil
		}
		if isBinary(path) {
			return nil
		}

		files = append(files, relPath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", d.root, err)
	}

	sort.Strings(files)
	return files, nil
}

// shouldIgnore checks if a path matches any ignore pattern. Directories
// also match patterns written with a /** suffix.
func (d *Discovery) shouldIgnore(relPath string) bool {
	if relPath == cache.DirName || strings.HasPrefix(relPath, cache.DirName+"/") {
		return true
	}

	for _, p := range d.ignorePatterns {
		if p.glob.Match(relPath) {
			return true
		}
		if strings.HasSuffix(p.pattern, "/**") &&
			relPath == strings.TrimSuffix(p.pattern, "/**") {
			return true
		}
	}
	return false
}

// isBinary sniffs the first KB for a NUL byte. Unreadable files are
// treated as binary and skipped; extraction would fail on them anyway.
func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, 1024)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return true
	}
	return bytes.IndexByte(buf[:n], 0) >= 0
}
