package news

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"parent-assistant-be/internal/pkg/logger"

	"golang.org/x/net/html"
)

const (
	listPath       = "/icerik/duyurular/liste"
	detailLimit    = 3
	maxBodyBytes   = 2 << 20
	titleScanRunes = 150
	titleCutRunes  = 100
)

var backgroundURL = regexp.MustCompile(`url\((.*?)\)`)

// Scraper reads announcements from the school website.
type Scraper struct {
	baseURL string
	client  *http.Client
	logger  logger.ILogger
}

func NewScraper(baseURL string, timeout time.Duration, log logger.ILogger) *Scraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Scraper{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  log,
	}
}

// Search lists announcements matching query, falling back to the full list
// when nothing matches, and enriches the first three with their detail page.
func (s *Scraper) Search(ctx context.Context, query string) ([]Item, error) {
	items, err := s.list(ctx, strings.TrimSpace(query))
	if err != nil {
		s.logger.Error("NewsScraper", "List page failed", map[string]interface{}{"error": err, "query": query})
		return nil, err
	}

	if len(items) == 0 && strings.TrimSpace(query) != "" {
		s.logger.Info("NewsScraper", "No match, fetching full list", map[string]interface{}{"query": query})
		items, err = s.list(ctx, "")
		if err != nil {
			s.logger.Error("NewsScraper", "Fallback list failed", map[string]interface{}{"error": err})
			return nil, err
		}
	}

	if len(items) > detailLimit {
		items = items[:detailLimit]
	}
	for i := range items {
		if items[i].URL == "" {
			continue
		}
		detail, err := s.detail(ctx, items[i].URL)
		if err != nil {
			s.logger.Warn("NewsScraper", "Detail page failed, using summary", map[string]interface{}{
				"url":   items[i].URL,
				"error": err.Error(),
			})
			continue
		}
		if detail.Title != "" {
			items[i].Title = detail.Title
		}
		if detail.Image != "" {
			items[i].Image = detail.Image
		}
		items[i].Content = detail.Content
	}

	s.logger.Info("NewsScraper", "News search done", map[string]interface{}{
		"query": query,
		"items": len(items),
	})
	return items, nil
}

func (s *Scraper) listURL(title string) string {
	return fmt.Sprintf("%s%s?title=%s&year=", s.baseURL, listPath, url.QueryEscape(title))
}

func (s *Scraper) fetch(ctx context.Context, target string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; parent-assistant/1.0)")
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", target, resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", target, err)
	}
	return doc, nil
}

func (s *Scraper) list(ctx context.Context, title string) ([]Item, error) {
	doc, err := s.fetch(ctx, s.listURL(title))
	if err != nil {
		return nil, err
	}

	var items []Item
	for _, wrapper := range findAll(doc, "div", "col-md-12", "mb-4", "animated", "fadeIn") {
		card := findFirst(wrapper, "", "card-archive-item")
		if card == nil {
			continue
		}

		var item Item
		if imagery := findFirst(card, "", "card__imagery"); imagery != nil {
			if m := backgroundURL.FindStringSubmatch(getAttr(imagery, "style")); m != nil {
				item.Image = s.resolve(strings.Trim(m[1], `'" `))
			}
		}
		if titleBox := findFirst(card, "", "card__title"); titleBox != nil {
			if a := findFirst(titleBox, "a"); a != nil {
				item.Title = textContent(a)
				item.URL = s.resolve(getAttr(a, "href"))
			}
		}
		item.Summary = textContent(findFirst(card, "", "card__body", "d-none", "d-md-block"))
		if dateBox := findFirst(card, "", "card__date"); dateBox != nil {
			date := textContent(findFirst(dateBox, "span", "d-none", "d-md-block"))
			item.Date = strings.TrimSpace(strings.ReplaceAll(date, "Eklenme Tarihi:", ""))
		}

		items = append(items, item)
	}
	return items, nil
}

var errNoDetail = errors.New("detail page has no content")

func (s *Scraper) detail(ctx context.Context, target string) (Item, error) {
	doc, err := s.fetch(ctx, target)
	if err != nil {
		return Item{}, err
	}

	page := findFirst(doc, "div", "page-detail")
	if page == nil {
		return Item{}, errNoDetail
	}

	var item Item
	if box := findFirst(page, "", "news-image"); box != nil {
		if img := findFirst(box, "img"); img != nil {
			item.Image = s.resolve(getAttr(img, "src"))
		}
	}

	var paragraphs []string
	for _, content := range findAll(page, "", "not-content") {
		for _, p := range findAll(content, "p") {
			paragraphs = append(paragraphs, textContent(p))
		}
	}
	if len(paragraphs) == 0 {
		return Item{}, errNoDetail
	}

	if len(paragraphs) == 1 {
		item.Title, item.Content = splitSingleParagraph(paragraphs[0])
	} else {
		item.Title = paragraphs[0]
		item.Content = strings.Join(paragraphs[1:], "\n\n")
	}
	return item, nil
}

// splitSingleParagraph takes the first sentence as title when it ends
// within the first 150 characters; otherwise the title is a cut prefix
// and the whole text stays as content.
func splitSingleParagraph(text string) (title, content string) {
	runes := []rune(text)
	scan := runes
	if len(scan) > titleScanRunes {
		scan = scan[:titleScanRunes]
	}
	for i, r := range scan {
		if r == '.' {
			return strings.TrimSpace(string(runes[:i+1])), strings.TrimSpace(string(runes[i+1:]))
		}
	}
	if utf8.RuneCountInString(text) > titleCutRunes {
		return string(runes[:titleCutRunes]) + "...", text
	}
	return text, text
}

func (s *Scraper) resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return ref
	}
	base, err := url.Parse(s.baseURL + "/")
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
