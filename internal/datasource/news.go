// Package datasource hosts auxiliary feeds that complement the
// statistical providers, currently European economic news.
package datasource

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/europulse/internal/infra"
	"github.com/seenimoa/europulse/pkg/models"
)

// NewsSource is one configured RSS feed.
type NewsSource struct {
	Name   string
	RSSURL string
}

// DefaultNewsSources lists the European economic news RSS feeds polled
// out of the box.
var DefaultNewsSources = []NewsSource{
	{
		Name:   "ECB Press",
		RSSURL: "https://www.ecb.europa.eu/rss/press.html",
	},
	{
		Name:   "Eurostat News",
		RSSURL: "https://ec.europa.eu/eurostat/en/rss",
	},
	{
		Name:   "Reuters Europe",
		RSSURL: "https://www.reutersagency.com/feed/?best-regions=europe&post_type=best",
	},
	{
		Name:   "EUobserver Economy",
		RSSURL: "https://euobserver.com/rss/economic",
	},
}

// News fetches and merges economic news from the configured feeds.
type News struct {
	sources []NewsSource
	cache   *infra.Cache
	limiter *infra.RateLimiter
	parser  *gofeed.Parser
}

// NewNews creates a news source with the default European feeds.
func NewNews() *News {
	return NewNewsWithSources(DefaultNewsSources)
}

// NewNewsWithSources creates a news source with custom feeds.
func NewNewsWithSources(sources []NewsSource) *News {
	return &News{
		sources: sources,
		cache:   infra.NewCache(10 * time.Minute),
		limiter: infra.NewRateLimiter(2, time.Second), // conservative: 2 req/s
		parser:  gofeed.NewParser(),
	}
}

// GetEconomicNews returns recent articles from all configured sources,
// newest first. Failed sources are skipped; the result is empty only
// when every feed failed.
func (n *News) GetEconomicNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	cacheKey := fmt.Sprintf("news:economic:%d", limit)
	if cached, ok := n.cache.Get(cacheKey); ok {
		return cached.([]models.NewsArticle), nil
	}

	var all []models.NewsArticle
	for _, src := range n.sources {
		articles, err := n.fetchRSS(ctx, src)
		if err != nil {
			// Non-critical: skip failed sources.
			continue
		}
		all = append(all, articles...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	n.cache.Set(cacheKey, all)
	return all, nil
}

// GetCountryNews returns articles mentioning the given country.
func (n *News) GetCountryNews(ctx context.Context, country string, limit int) ([]models.NewsArticle, error) {
	cacheKey := fmt.Sprintf("news:country:%s:%d", strings.ToLower(country), limit)
	if cached, ok := n.cache.Get(cacheKey); ok {
		return cached.([]models.NewsArticle), nil
	}

	all, err := n.GetEconomicNews(ctx, 0)
	if err != nil {
		return nil, err
	}

	keywords := countryKeywords(country)
	var filtered []models.NewsArticle
	for _, a := range all {
		if matchesAny(a.Title+" "+a.Summary, keywords) {
			filtered = append(filtered, a)
		}
	}

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	n.cache.Set(cacheKey, filtered)
	return filtered, nil
}

// fetchRSS parses one RSS feed into articles.
func (n *News) fetchRSS(ctx context.Context, src NewsSource) ([]models.NewsArticle, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := n.parser.ParseURLWithContext(src.RSSURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", src.Name, err)
	}

	articles := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := models.NewsArticle{
			Title:   item.Title,
			URL:     item.Link,
			Source:  src.Name,
			Summary: cleanHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		articles = append(articles, a)
	}

	return articles, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// countryKeywords returns search keywords for a country name,
// including common institutional aliases.
func countryKeywords(country string) []string {
	c := strings.ToLower(country)
	keywords := []string{c}

	aliasMap := map[string][]string{
		"germany":     {"bundesbank", "german economy", "berlin"},
		"france":      {"banque de france", "french economy", "paris"},
		"italy":       {"banca d'italia", "italian economy", "rome"},
		"spain":       {"banco de españa", "spanish economy", "madrid"},
		"netherlands": {"dutch economy", "dnb", "amsterdam"},
	}
	if aliases, ok := aliasMap[c]; ok {
		keywords = append(keywords, aliases...)
	}
	return keywords
}

// matchesAny reports whether content contains any of the keywords,
// case-insensitively.
func matchesAny(content string, keywords []string) bool {
	lower := strings.ToLower(content)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
