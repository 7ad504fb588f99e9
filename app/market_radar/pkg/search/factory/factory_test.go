package factory

import (
	"context"
	"errors"
	"testing"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/customsearch"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/search"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/searxng"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/tavily"
)

func TestNewDiscussionSearcher(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		check   func(s search.Searcher) bool
		wantErr error
	}{
		{
			name:    "nothing configured",
			mutate:  func(c *config.Config) {},
			wantErr: search.ErrUnconfigured,
		},
		{
			name: "custom search preferred",
			mutate: func(c *config.Config) {
				c.Sources.CustomSearch.APIKey, c.Sources.CustomSearch.CX = "k", "cx"
				c.Sources.Tavily.APIKey = "t"
			},
			check: func(s search.Searcher) bool { _, ok := s.(*customsearch.Client); return ok },
		},
		{
			name:   "tavily auto",
			mutate: func(c *config.Config) { c.Sources.Tavily.APIKey = "t" },
			check:  func(s search.Searcher) bool { _, ok := s.(*tavily.Client); return ok },
		},
		{
			name:   "searxng auto",
			mutate: func(c *config.Config) { c.Sources.SearXNG.BaseURL = "http://localhost:8080" },
			check:  func(s search.Searcher) bool { _, ok := s.(*searxng.Client); return ok },
		},
		{
			name:    "explicit provider without key",
			mutate:  func(c *config.Config) { c.Sources.Discussion.Provider = ProviderTavily },
			wantErr: search.ErrUnconfigured,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			s, err := NewDiscussionSearcher(context.Background(), cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewDiscussionSearcher: %v", err)
			}
			if !tt.check(s) {
				t.Errorf("unexpected searcher %T", s)
			}
		})
	}
}

func TestUnknownProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Sources.Discussion.Provider = "bing"
	_, err := NewDiscussionSearcher(context.Background(), cfg)
	if err == nil || errors.Is(err, search.ErrUnconfigured) {
		t.Fatalf("err = %v, want unknown provider error", err)
	}
}
