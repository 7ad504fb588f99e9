package customsearch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/search"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("cx") != "engine" || q.Get("num") != "10" || q.Get("hq") != "freelance designers" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if !strings.Contains(q.Get("q"), "site:reddit.com") {
			t.Errorf("q missing site filter: %q", q.Get("q"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"items":[
			{"title":"Burned out freelancing","snippet":"juggling clients...","link":"https://www.reddit.com/r/freelance/1","displayLink":"www.reddit.com"},
			{"title":"Q","snippet":"s","link":"https://dev.stackexchange.com/q/1"}
		]}`)
	}))
	defer srv.Close()

	c, err := NewClient(context.Background(), "key", "engine", option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	resp, err := c.Search(context.Background(), &search.Request{Query: "freelance burnout", AudienceHint: "freelance designers", MaxResults: 50})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("len(results) = %d", len(resp.Results))
	}
	if resp.Results[0].DisplayLink != "reddit.com" || resp.Results[1].DisplayLink != "dev.stackexchange.com" {
		t.Errorf("results = %+v", resp.Results)
	}
}

func TestSearchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c, err := NewClient(context.Background(), "key", "engine", option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.Search(context.Background(), &search.Request{Query: "q"}); err == nil {
		t.Fatal("expected error")
	}
}
