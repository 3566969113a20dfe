package datasource

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Test Feed</title>
<item>
	<title>Euro area annual inflation down to 2.2%%</title>
	<link>https://example.org/articles/1</link>
	<description>&lt;p&gt;Flash estimate from &lt;b&gt;Eurostat&lt;/b&gt; for the euro area.&lt;/p&gt;</description>
	<pubDate>Mon, 02 Jun 2025 09:00:00 GMT</pubDate>
</item>
<item>
	<title>Bundesbank revises German growth outlook</title>
	<link>https://example.org/articles/2</link>
	<description>Growth forecast lowered.</description>
	<pubDate>Tue, 03 Jun 2025 09:00:00 GMT</pubDate>
</item>
</channel>
</rss>`

func newFeedServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, sampleFeed)
	}))
}

func TestGetEconomicNews(t *testing.T) {
	srv := newFeedServer(t, nil)
	defer srv.Close()

	n := NewNewsWithSources([]NewsSource{{Name: "Test", RSSURL: srv.URL}})

	articles, err := n.GetEconomicNews(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetEconomicNews: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("len(articles) = %d, want 2", len(articles))
	}

	// Newest first.
	if articles[0].URL != "https://example.org/articles/2" {
		t.Errorf("articles[0].URL = %q, want the newer item first", articles[0].URL)
	}

	// HTML must be stripped from summaries.
	inflation := articles[1]
	if inflation.Summary != "Flash estimate from Eurostat for the euro area." {
		t.Errorf("Summary = %q, want HTML stripped", inflation.Summary)
	}
	if inflation.Source != "Test" {
		t.Errorf("Source = %q, want Test", inflation.Source)
	}
}

func TestGetEconomicNewsLimit(t *testing.T) {
	srv := newFeedServer(t, nil)
	defer srv.Close()

	n := NewNewsWithSources([]NewsSource{{Name: "Test", RSSURL: srv.URL}})
	articles, err := n.GetEconomicNews(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetEconomicNews: %v", err)
	}
	if len(articles) != 1 {
		t.Errorf("len(articles) = %d, want 1", len(articles))
	}
}

func TestGetEconomicNewsCached(t *testing.T) {
	var hits int32
	srv := newFeedServer(t, &hits)
	defer srv.Close()

	n := NewNewsWithSources([]NewsSource{{Name: "Test", RSSURL: srv.URL}})
	if _, err := n.GetEconomicNews(context.Background(), 5); err != nil {
		t.Fatal(err)
	}
	if _, err := n.GetEconomicNews(context.Background(), 5); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("feed fetched %d times, want 1", got)
	}
}

func TestGetEconomicNewsSkipsFailedSources(t *testing.T) {
	good := newFeedServer(t, nil)
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer bad.Close()

	n := NewNewsWithSources([]NewsSource{
		{Name: "Bad", RSSURL: bad.URL},
		{Name: "Good", RSSURL: good.URL},
	})

	articles, err := n.GetEconomicNews(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetEconomicNews: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("len(articles) = %d, want 2 from the healthy source", len(articles))
	}
}

func TestGetCountryNews(t *testing.T) {
	srv := newFeedServer(t, nil)
	defer srv.Close()

	n := NewNewsWithSources([]NewsSource{{Name: "Test", RSSURL: srv.URL}})

	// "Germany" matches via the Bundesbank alias.
	articles, err := n.GetCountryNews(context.Background(), "Germany", 0)
	if err != nil {
		t.Fatalf("GetCountryNews: %v", err)
	}
	if len(articles) != 1 || articles[0].URL != "https://example.org/articles/2" {
		t.Errorf("articles = %+v, want only the Bundesbank item", articles)
	}
}
