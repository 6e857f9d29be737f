package news

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	DisabledMessage  = "🚧 Haber ve etkinlik arama özelliği henüz aktif değil."
	ListErrorMessage = "Haber listesi alınamadı."
	EmptyMessage     = "Şu anda görüntülenebilecek duyuru bulunmuyor."
)

var ErrDisabled = errors.New("news search disabled")

// Item is one announcement. Content is empty when only the list card
// could be read.
type Item struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content,omitempty"`
	Date    string `json:"date"`
	URL     string `json:"url,omitempty"`
	Image   string `json:"image,omitempty"`
}

// Source searches the school's announcements.
type Source interface {
	Search(ctx context.Context, query string) ([]Item, error)
}

// Disabled is the Source used when scraping is switched off.
type Disabled struct{}

func (Disabled) Search(context.Context, string) ([]Item, error) {
	return nil, ErrDisabled
}

// ContextFor runs the search and renders the result as a context block,
// or as one of the fixed status texts when there is nothing to show.
// found is false for the status texts.
func ContextFor(ctx context.Context, src Source, query string) (text string, titles []string, found bool) {
	items, err := src.Search(ctx, query)
	switch {
	case errors.Is(err, ErrDisabled):
		return DisabledMessage, nil, false
	case err != nil:
		return ListErrorMessage, nil, false
	case len(items) == 0:
		return EmptyMessage, nil, false
	}

	titles = make([]string, len(items))
	for i, it := range items {
		titles[i] = it.Title
	}
	return Format(items), titles, true
}

// Format renders items as context chunks separated like retrieval results.
func Format(items []Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		var b strings.Builder
		title := it.Title
		if title == "" {
			title = "Duyuru"
		}
		fmt.Fprintf(&b, "**[HABER] %s**\n", title)

		var meta []string
		if it.Date != "" {
			meta = append(meta, "📅 "+it.Date)
		}
		if it.Image != "" {
			meta = append(meta, fmt.Sprintf("![%s](%s)", title, it.Image))
		}
		if it.URL != "" {
			meta = append(meta, fmt.Sprintf("[Detay](%s)", it.URL))
		}
		if len(meta) > 0 {
			b.WriteString(strings.Join(meta, " | "))
			b.WriteString("\n")
		}

		body := it.Content
		if body == "" {
			body = it.Summary
		}
		b.WriteString(body)
		parts = append(parts, strings.TrimRight(b.String(), "\n"))
	}
	return strings.Join(parts, "\n\n---\n\n")
}
