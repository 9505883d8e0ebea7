package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-invest-reporter/internal/analyzer/config"
	"golang-invest-reporter/internal/entity"
	"golang-invest-reporter/pkg/logger"
	"golang-invest-reporter/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
)

const articleContentLimit = 3000

type articleRepository struct {
	cfg           *config.Config
	log           *logger.Logger
	httpClient    *http.Client
	feedParser    *gofeed.Parser
	inmemoryCache *cache.Cache
}

// NewArticleRepository creates a repository that looks up headlines from an
// RSS feed and enriches news items with extracted article body text.
func NewArticleRepository(cfg *config.Config, log *logger.Logger) ArticleRepository {
	return &articleRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		feedParser:    gofeed.NewParser(),
		inmemoryCache: cache.New(10*time.Minute, 30*time.Minute),
	}
}

// Lookup searches the configured RSS feed for recent headlines mentioning
// the ticker. Used as a fallback when the primary news endpoint has nothing.
func (r *articleRepository) Lookup(ctx context.Context, ticker string, limit int) ([]entity.NewsItem, error) {
	cacheKey := "rss:" + ticker
	if cached, found := r.inmemoryCache.Get(cacheKey); found {
		return cached.([]entity.NewsItem), nil
	}

	query := url.QueryEscape(ticker + " stock")
	feedURL := fmt.Sprintf("%s/search?q=%s&hl=en-US&gl=US&ceid=US:en", r.cfg.News.RSSBaseURL, query)
	feed, err := r.feedParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		r.log.Error("Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return nil, fmt.Errorf("failed to parse RSS feed: %w", err)
	}

	items := make([]entity.NewsItem, 0, limit)
	for _, it := range feed.Items {
		if len(items) >= limit {
			break
		}
		published := ""
		if it.PublishedParsed != nil {
			published = it.PublishedParsed.Format("2006-01-02")
		}
		source := feed.Title
		if it.Author != nil && it.Author.Name != "" {
			source = it.Author.Name
		}
		items = append(items, entity.NewsItem{
			Title:         it.Title,
			PublishedDate: published,
			URL:           it.Link,
			Source:        source,
		})
	}

	r.inmemoryCache.Set(cacheKey, items, cache.DefaultExpiration)
	return items, nil
}

// Enrich fetches and extracts article body text for up to max items. Items
// whose articles cannot be fetched keep their headline only; enrichment
// never fails the pipeline.
func (r *articleRepository) Enrich(ctx context.Context, items []entity.NewsItem, max int) []entity.NewsItem {
	if !r.cfg.News.FetchArticles {
		return items
	}

	enriched := 0
	for i := range items {
		if enriched >= max {
			break
		}
		if items[i].URL == "" || items[i].Content != "" {
			continue
		}
		if !utils.ShouldContinue(ctx) {
			break
		}

		content, err := r.fetchArticleContent(ctx, items[i].URL)
		if err != nil {
			r.log.Debug("Skipping article enrichment", logger.ErrorField(err), logger.StringField("url", items[i].URL))
			continue
		}
		items[i].Content = utils.TruncateText(content, articleContentLimit)
		enriched++
	}
	return items
}

func (r *articleRepository) fetchArticleContent(ctx context.Context, articleURL string) (string, error) {
	if cached, found := r.inmemoryCache.Get("article:" + articleURL); found {
		return cached.(string), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for article: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch article content, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read article body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse article content: %w", err)
	}
	content := doc.Content()
	docHTML, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(content)))
	if err != nil {
		return "", fmt.Errorf("failed to parse extracted article html: %w", err)
	}

	content = strings.TrimSpace(docHTML.Text())
	content = strings.ReplaceAll(content, "\n", " ")
	content = strings.ReplaceAll(content, "\t", " ")
	content = strings.ReplaceAll(content, "\r", " ")
	content = strings.Join(strings.Fields(content), " ")

	r.inmemoryCache.Set("article:"+articleURL, content, cache.DefaultExpiration)
	return content, nil
}
