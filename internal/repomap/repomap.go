// Package repomap wires the full pipeline: discovery, cached tag
// extraction, reference graph construction, centrality ranking, and
// budget-constrained rendering.
package repomap

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/mvp-joe/repomap/internal/cache"
	"github.com/mvp-joe/repomap/internal/config"
	"github.com/mvp-joe/repomap/internal/discover"
	"github.com/mvp-joe/repomap/internal/extract"
	"github.com/mvp-joe/repomap/internal/graph"
	"github.com/mvp-joe/repomap/internal/rank"
	"github.com/mvp-joe/repomap/internal/render"
	"github.com/mvp-joe/repomap/internal/token"
)

// Request describes one map generation run.
type Request struct {
	// Focus files are always fully included in the output.
	Focus []string

	// Others is the candidate file set. Empty means discover the
	// repository.
	Others []string

	// MentionedIdents bias ranking toward symbols the user named.
	MentionedIdents []string

	// MentionedFiles bias ranking toward files the user named without
	// forcing their inclusion.
	MentionedFiles []string

	// TokenBudget overrides the configured budget when positive.
	TokenBudget int

	// Progress, when set, is called once per processed file.
	Progress extract.ProgressFunc
}

// RepoMap generates repository maps for one repository root.
type RepoMap struct {
	root    string
	cfg     *config.Config
	cache   cache.TagCache
	counter token.Counter
}

// New creates a RepoMap for the repository at root. Call Close when done.
func New(root string, cfg *config.Config) (*RepoMap, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}

	tagCache := cache.Nop()
	if cfg.Cache.Enabled {
		tagCache, err = cache.Open(absRoot)
		if err != nil {
			return nil, fmt.Errorf("failed to open tag cache: %w", err)
		}
	}

	var counter token.Counter
	if cfg.Map.Estimate {
		counter = token.NewEstimateCounter()
	} else {
		counter, err = token.NewTiktokenCounter(cfg.Map.Encoding)
		if err != nil {
			tagCache.Close()
			return nil, fmt.Errorf("failed to create token counter: %w", err)
		}
	}

	return &RepoMap{
		root:    absRoot,
		cfg:     cfg,
		cache:   tagCache,
		counter: counter,
	}, nil
}

// Generate runs the pipeline and returns the render plan.
func (rm *RepoMap) Generate(ctx context.Context, req Request) (*render.Plan, error) {
	budget := req.TokenBudget
	if budget <= 0 {
		budget = rm.cfg.Map.TokenBudget
	}
	// Below the minimum the output degrades to bare headers; raise it.
	if budget < config.MinTokenBudget {
		budget = config.MinTokenBudget
	}

	files, focusSet, err := rm.candidateFiles(req)
	if err != nil {
		return nil, err
	}

	svc := extract.NewService(rm.root, rm.cache, extract.WithProgress(req.Progress))
	allTags, err := svc.ExtractAll(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("tag extraction failed: %w", err)
	}

	mentioned := make(map[string]bool, len(req.MentionedIdents))
	for _, ident := range req.MentionedIdents {
		mentioned[ident] = true
	}

	rg := graph.Build(files, allTags, graph.Options{
		MentionedIdents: mentioned,
		MentionBoost:    rm.cfg.Ranking.MentionBoost,
		CommonThreshold: rm.cfg.Ranking.CommonThreshold,
		CommonFactor:    rm.cfg.Ranking.CommonFactor,
	})

	// Mentioned files share the focus personalization bias without the
	// mandatory inclusion.
	personal := make(map[string]bool, len(focusSet)+len(req.MentionedFiles))
	for f := range focusSet {
		personal[f] = true
	}
	for _, f := range req.MentionedFiles {
		personal[normalize(f)] = true
	}

	ranked := rank.Rank(rg, personal, allTags, rank.Options{
		Damping:       rm.cfg.Ranking.Damping,
		Epsilon:       rm.cfg.Ranking.Epsilon,
		MaxIterations: rm.cfg.Ranking.MaxIterations,
		FocusBoost:    rm.cfg.Ranking.FocusBoost,
	})

	plan, err := render.New(rm.counter, budget).Render(ranked, focusSet)
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}
	return plan, nil
}

// CacheStats reports the tag cache entry count and size in bytes.
func (rm *RepoMap) CacheStats() (int, int64, error) {
	return rm.cache.Stats()
}

// ClearCache removes all cached tag entries.
func (rm *RepoMap) ClearCache() error {
	return rm.cache.Clear()
}

// Close releases the tag cache.
func (rm *RepoMap) Close() error {
	return rm.cache.Close()
}

// candidateFiles resolves the run's file set: the union of focus files and
// either the explicit candidate list or a repository walk. Returns the
// sorted set plus the normalized focus set.
func (rm *RepoMap) candidateFiles(req Request) ([]string, map[string]bool, error) {
	focusSet := make(map[string]bool, len(req.Focus))
	for _, f := range req.Focus {
		focusSet[normalize(f)] = true
	}

	seen := make(map[string]bool)
	var files []string
	add := func(f string) {
		f = normalize(f)
		if f == "" || seen[f] {
			return
		}
		seen[f] = true
		files = append(files, f)
	}

	if len(req.Others) > 0 {
		for _, f := range req.Others {
			add(f)
		}
	} else {
		d, err := discover.New(rm.root, rm.cfg.Paths.Ignore)
		if err != nil {
			return nil, nil, err
		}
		discovered, err := d.Files()
		if err != nil {
			return nil, nil, fmt.Errorf("file discovery failed: %w", err)
		}
		for _, f := range discovered {
			add(f)
		}
	}
	for f := range focusSet {
		add(f)
	}

	sort.Strings(files)
	return files, focusSet, nil
}

// normalize converts a path to slash-separated clean form.
func normalize(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
