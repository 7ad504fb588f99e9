package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/search"
)

func TestSearch(t *testing.T) {
	var got SearchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(SearchResponse{Results: []SearchResult{
			{Title: "Freelance burnout", URL: "https://www.reddit.com/r/freelance/1", Content: "I can't keep up"},
		}})
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, 0)
	resp, err := c.Search(context.Background(), &search.Request{Query: "freelance burnout", AudienceHint: "designers", MaxResults: 3})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if got.Query != "freelance burnout designers" || got.MaxResults != 3 || got.Topic != "general" {
		t.Errorf("request = %+v", got)
	}
	if len(got.IncludeDomains) != len(search.DefaultDomains) {
		t.Errorf("include_domains = %v", got.IncludeDomains)
	}
	if len(resp.Results) != 1 || resp.Results[0].DisplayLink != "reddit.com" || resp.Results[0].Snippet != "I can't keep up" {
		t.Errorf("results = %+v", resp.Results)
	}
}

func TestSearchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := NewClient("key", srv.URL, 0).Search(context.Background(), &search.Request{Query: "q"}); err == nil {
		t.Fatal("expected error")
	}
}
