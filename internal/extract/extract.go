// Package extract turns source files into tags, consulting the tag cache
// before parsing. Files are processed in parallel; per-file failures are
// logged once and skipped rather than aborting the run.
package extract

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/repomap/internal/cache"
	"github.com/mvp-joe/repomap/internal/parsers"
	"github.com/mvp-joe/repomap/internal/tags"
)

// ProgressFunc is called once per processed file.
type ProgressFunc func(relPath string)

// Service extracts tags for repository files.
type Service struct {
	root     string
	cache    cache.TagCache
	progress ProgressFunc

	mu     sync.Mutex
	warned map[string]bool
}

// Option configures a Service.
type Option func(*Service)

// WithProgress sets a callback invoked after each file is processed.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Service) {
		s.progress = fn
	}
}

// NewService creates an extraction service for the repository at root.
func NewService(root string, tagCache cache.TagCache, opts ...Option) *Service {
	s := &Service{
		root:   root,
		cache:  tagCache,
		warned: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExtractAll extracts tags for every file in relPaths, returning them
// sorted by path, line, and name. Unreadable or unparseable files produce
// a single warning and contribute no tags.
func (s *Service) ExtractAll(ctx context.Context, relPaths []string) ([]tags.Tag, error) {
	results := make([][]tags.Tag, len(relPaths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, relPath := range relPaths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fileTags, err := s.extractFile(relPath)
			if err != nil {
				s.warnOnce(relPath, err)
			} else {
				results[i] = fileTags
			}
			if s.progress != nil {
				s.progress(relPath)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []tags.Tag
	for _, fileTags := range results {
		all = append(all, fileTags...)
	}
	tags.SortTags(all)
	return all, nil
}

// extractFile returns the tags for one file, from cache when fresh.
func (s *Service) extractFile(relPath string) ([]tags.Tag, error) {
	absPath := filepath.Join(s.root, relPath)

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	mtime := info.ModTime().UnixNano()
	size := info.Size()

	if cached, ok := s.cache.Get(relPath, mtime, size); ok {
		return cached, nil
	}

	parser, ok := parsers.ForPath(relPath)
	if !ok {
		return nil, fmt.Errorf("no parser for %s", filepath.Ext(relPath))
	}

	source, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	fileTags, err := parser.Extract(source, relPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	sort.SliceStable(fileTags, func(i, j int) bool {
		if fileTags[i].StartLine != fileTags[j].StartLine {
			return fileTags[i].StartLine < fileTags[j].StartLine
		}
		return fileTags[i].Name < fileTags[j].Name
	})

	if err := s.cache.Put(relPath, mtime, size, fileTags); err != nil {
		// Cache write failures degrade performance, not correctness.
		s.warnOnce(relPath, err)
	}
	return fileTags, nil
}

// warnOnce logs one warning per file per run.
func (s *Service) warnOnce(relPath string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.warned[relPath] {
		return
	}
	s.warned[relPath] = true
	log.Printf("Warning: skipping %s: %v", relPath, err)
}
