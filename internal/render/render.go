// Package render turns ranked definition tags into a budget-constrained
// RenderPlan: one or more text parts of per-file excerpts with elision
// markers, each part measured to fit the token budget.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mvp-joe/repomap/internal/rank"
	"github.com/mvp-joe/repomap/internal/token"
)

// ElisionMarker stands in for omitted source lines between included tags.
const ElisionMarker = "⋮..."

// Part is one budget-respecting chunk of rendered text.
type Part struct {
	Index  int
	Text   string
	Tokens int
}

// Plan is the ordered sequence of parts produced by a render call.
type Plan struct {
	Parts []Part

	// IncludedTags is the number of ranked tags that made the cut,
	// focus-file tags included.
	IncludedTags int
}

// Renderer fits ranked tags into a token budget.
type Renderer struct {
	counter token.Counter
	budget  int
}

// New creates a renderer for the given counter and budget.
func New(counter token.Counter, budget int) *Renderer {
	return &Renderer{counter: counter, budget: budget}
}

// Render selects the maximal prefix of ranked tags whose rendered text fits
// the budget. Tags in focus files are always included, even when they alone
// overflow the budget; overflow is handled by splitting into parts at
// elision boundaries, never inside a tag's rendered block.
//
// A token counter error is fatal: an unmeasured budget cannot be enforced.
func (r *Renderer) Render(ranked []rank.RankedTag, focus map[string]bool) (*Plan, error) {
	var focusTags, otherTags []rank.RankedTag
	for _, t := range ranked {
		if focus[t.RelPath] {
			focusTags = append(focusTags, t)
		} else {
			otherTags = append(otherTags, t)
		}
	}

	fit := func(n int) (string, int, error) {
		selected := make([]rank.RankedTag, 0, len(focusTags)+n)
		selected = append(selected, focusTags...)
		selected = append(selected, otherTags[:n]...)
		text := renderTags(selected, focus)
		count, err := r.counter.Count(text)
		if err != nil {
			return "", 0, fmt.Errorf("token counter failed: %w", err)
		}
		return text, count, nil
	}

	// Binary search for the largest fitting prefix. Formatting overhead
	// makes size non-strictly-linear in tag count, so verify the result
	// by linear extension instead of trusting the search blindly.
	low, high := 0, len(otherTags)
	for low < high {
		mid := (low + high + 1) / 2
		_, count, err := fit(mid)
		if err != nil {
			return nil, err
		}
		if count <= r.budget {
			low = mid
		} else {
			high = mid - 1
		}
	}
	n := low
	for n < len(otherTags) {
		_, count, err := fit(n + 1)
		if err != nil {
			return nil, err
		}
		if count > r.budget {
			break
		}
		n++
	}

	text, count, err := fit(n)
	if err != nil {
		return nil, err
	}

	plan := &Plan{IncludedTags: len(focusTags) + n}
	if count <= r.budget {
		plan.Parts = []Part{{Index: 1, Text: text, Tokens: count}}
		return plan, nil
	}

	// Focus files alone exceed the budget. Split at elision boundaries.
	parts, err := r.split(text)
	if err != nil {
		return nil, err
	}
	plan.Parts = parts
	return plan, nil
}

// renderTags produces the grouped-by-file excerpt text. Files appear in
// path order; tags within a file in source-line order, with elision markers
// between non-adjacent tags and after the last one. Focus files always get
// a file entry, even when they define nothing.
func renderTags(selected []rank.RankedTag, focus map[string]bool) string {
	byFile := make(map[string][]rank.RankedTag)
	for f := range focus {
		byFile[f] = nil
	}
	for _, t := range selected {
		byFile[t.RelPath] = append(byFile[t.RelPath], t)
	}

	paths := make([]string, 0, len(byFile))
	for p := range byFile {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	for i, path := range paths {
		if i > 0 {
			b.WriteString("\n")
		}
		fileTags := byFile[path]
		sort.SliceStable(fileTags, func(i, j int) bool {
			return fileTags[i].StartLine < fileTags[j].StartLine
		})

		b.WriteString(path)
		b.WriteString(":\n")

		prevLine := 0
		prevSig := ""
		for _, t := range fileTags {
			if t.StartLine == prevLine && t.Signature == prevSig {
				continue
			}
			if t.StartLine > prevLine+1 {
				b.WriteString(ElisionMarker)
				b.WriteString("\n")
			}
			b.WriteString("│")
			b.WriteString(t.Signature)
			b.WriteString("\n")
			prevLine = t.StartLine
			prevSig = t.Signature
		}
		b.WriteString(ElisionMarker)
		b.WriteString("\n")
	}
	return b.String()
}

// block is an atomic run of rendered lines that must land in a single part.
type block struct {
	header string // file header this block belongs under
	lines  []string
	first  bool // true for the first block of its file
}

// split breaks rendered text into parts at elision boundaries. Continuation
// parts repeat the file header and open with an elision marker so each part
// reads as a self-contained excerpt.
func (r *Renderer) split(text string) ([]Part, error) {
	blocks := splitBlocks(text)

	var parts []Part
	var cur []string
	curHeader := ""

	flush := func() error {
		if len(cur) == 0 {
			return nil
		}
		partText := strings.Join(cur, "\n") + "\n"
		if len(parts) > 0 {
			partText = fmt.Sprintf("Repository contents (continued, part %d):\n\n", len(parts)+1) + partText
		}
		count, err := r.counter.Count(partText)
		if err != nil {
			return fmt.Errorf("token counter failed: %w", err)
		}
		parts = append(parts, Part{Index: len(parts) + 1, Text: partText, Tokens: count})
		cur = nil
		return nil
	}

	for _, blk := range blocks {
		candidate := make([]string, 0, len(cur)+len(blk.lines)+2)
		candidate = append(candidate, cur...)
		if blk.first || blk.header != curHeader {
			if len(candidate) > 0 {
				candidate = append(candidate, "")
			}
			candidate = append(candidate, blk.header)
			if !blk.first {
				candidate = append(candidate, ElisionMarker)
			}
		}
		candidate = append(candidate, blk.lines...)

		candidateText := strings.Join(candidate, "\n") + "\n"
		if len(parts) > 0 {
			candidateText = fmt.Sprintf("Repository contents (continued, part %d):\n\n", len(parts)+1) + candidateText
		}
		count, err := r.counter.Count(candidateText)
		if err != nil {
			return nil, fmt.Errorf("token counter failed: %w", err)
		}

		if count <= r.budget {
			cur = candidate
			curHeader = blk.header
			continue
		}

		if len(cur) == 0 {
			return nil, fmt.Errorf("tag block in %s exceeds token budget %d", strings.TrimSuffix(blk.header, ":"), r.budget)
		}

		if err := flush(); err != nil {
			return nil, err
		}

		fresh := []string{blk.header}
		if !blk.first {
			fresh = append(fresh, ElisionMarker)
		}
		fresh = append(fresh, blk.lines...)
		cur = fresh
		curHeader = blk.header

		freshText := fmt.Sprintf("Repository contents (continued, part %d):\n\n", len(parts)+1) + strings.Join(fresh, "\n") + "\n"
		count, err = r.counter.Count(freshText)
		if err != nil {
			return nil, fmt.Errorf("token counter failed: %w", err)
		}
		if count > r.budget {
			return nil, fmt.Errorf("tag block in %s exceeds token budget %d", strings.TrimSuffix(blk.header, ":"), r.budget)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return parts, nil
}

// splitBlocks parses rendered text into atomic blocks: each signature line
// together with the elision marker that follows it. Blank separator lines
// and file headers are reattached during part assembly.
func splitBlocks(text string) []block {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	var blocks []block
	var header string
	firstOfFile := false

	var cur []string
	flush := func() {
		if len(cur) == 0 {
			return
		}
		blocks = append(blocks, block{header: header, lines: cur, first: firstOfFile})
		firstOfFile = false
		cur = nil
	}

	for _, line := range lines {
		switch {
		case line == "":
			flush()
		case strings.HasSuffix(line, ":") && !strings.HasPrefix(line, "│") && line != ElisionMarker:
			flush()
			header = line
			firstOfFile = true
		case line == ElisionMarker:
			cur = append(cur, line)
			flush()
		default:
			cur = append(cur, line)
		}
	}
	flush()
	return blocks
}
