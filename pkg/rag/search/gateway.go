package search

import (
	"context"
	"fmt"
	"strings"

	"parent-assistant-be/internal/pkg/logger"
	"parent-assistant-be/pkg/rag/level"
	"parent-assistant-be/pkg/rag/ragerr"
)

const (
	// NoInfoText is the context handed to the composer when nothing matched.
	NoInfoText = "Bilgi bulunamadı. Bu konuda dokümanlarımızda bilgi yok."

	// ChunkDelimiter separates formatted chunks in a context block.
	ChunkDelimiter = "\n\n---\n\n"

	DefaultK = 4
)

// Candidate is one item returned by a Searcher. Score is a distance:
// lower means closer.
type Candidate struct {
	Content string  `json:"content"`
	Level   string  `json:"level"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
}

// Searcher returns up to n candidates ordered by relevance.
type Searcher interface {
	Search(ctx context.Context, query string, n int) ([]Candidate, error)
}

// Result is the outcome of one retrieval.
type Result struct {
	Items []Candidate
	Text  string
	Found bool
}

// NoInfo is the result used whenever retrieval yields nothing.
func NoInfo() Result {
	return Result{Text: NoInfoText}
}

// IsNoInfo reports whether text is the no-information sentinel.
func IsNoInfo(text string) bool {
	return strings.TrimSpace(text) == NoInfoText
}

// Gateway over-fetches from the Searcher and filters by the active levels.
type Gateway struct {
	searcher Searcher
	logger   logger.ILogger
	k        int
}

func NewGateway(searcher Searcher, log logger.ILogger, k int) *Gateway {
	if k <= 0 {
		k = DefaultK
	}
	return &Gateway{searcher: searcher, logger: log, k: k}
}

func (g *Gateway) K() int { return g.k }

// Retrieve asks for 2k candidates, keeps those whose level is active and
// truncates to the first k in the order the Searcher returned them.
func (g *Gateway) Retrieve(ctx context.Context, query string, levels level.Set) Result {
	if levels.Empty() {
		g.logger.Warn("RetrievalGateway", "No active levels, skipping search", nil)
		return NoInfo()
	}

	candidates, err := g.searcher.Search(ctx, query, 2*g.k)
	if err != nil {
		rerr := &ragerr.RetrievalError{Query: query, Err: err}
		g.logger.Error("RetrievalGateway", "Search collaborator failed", map[string]interface{}{
			"error": rerr,
		})
		return NoInfo()
	}

	items := make([]Candidate, 0, g.k)
	for _, c := range candidates {
		l, err := level.Parse(c.Level)
		if err != nil || !levels.Contains(l) {
			continue
		}
		c.Level = string(l)
		items = append(items, c)
		if len(items) == g.k {
			break
		}
	}

	g.logger.Info("RetrievalGateway", "Retrieved context", map[string]interface{}{
		"query":      query,
		"levels":     levels.Strings(),
		"candidates": len(candidates),
		"kept":       len(items),
	})

	if len(items) == 0 {
		return NoInfo()
	}
	return Result{Items: items, Text: FormatContext(items), Found: true}
}

// FormatContext renders items as "**[LEVEL] title**\ncontent" blocks.
func FormatContext(items []Candidate) string {
	parts := make([]string, len(items))
	for i, it := range items {
		tag := strings.ToUpper(it.Level)
		if l, err := level.Parse(it.Level); err == nil {
			tag = l.Tag()
		}
		title := it.Title
		if title == "" {
			title = "Başlıksız"
		}
		parts[i] = fmt.Sprintf("**[%s] %s**\n%s", tag, title, it.Content)
	}
	return strings.Join(parts, ChunkDelimiter)
}

// Titles lists the item titles, used for turn records.
func (r Result) Titles() []string {
	titles := make([]string, len(r.Items))
	for i, it := range r.Items {
		titles[i] = it.Title
	}
	return titles
}
