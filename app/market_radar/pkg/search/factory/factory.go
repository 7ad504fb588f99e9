package factory

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/customsearch"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/search"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/searxng"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/tavily"
)

// 讨论搜索提供方
const (
	ProviderCustomSearch = "custom_search"
	ProviderTavily       = "tavily"
	ProviderSearXNG      = "searxng"
)

// NewDiscussionSearcher 根据配置创建讨论搜索实例。
// 未指定提供方时按 custom_search、tavily、searxng 的顺序选择第一个有凭据的；
// 都没有时返回 search.ErrUnconfigured。
func NewDiscussionSearcher(ctx context.Context, cfg *config.Config) (search.Searcher, error) {
	src := cfg.Sources
	provider := src.Discussion.Provider
	if provider == "" {
		switch {
		case src.CustomSearch.APIKey != "" && src.CustomSearch.CX != "":
			provider = ProviderCustomSearch
		case src.Tavily.APIKey != "":
			provider = ProviderTavily
		case src.SearXNG.BaseURL != "":
			provider = ProviderSearXNG
		default:
			return nil, search.ErrUnconfigured
		}
	}

	switch provider {
	case ProviderCustomSearch:
		if src.CustomSearch.APIKey == "" || src.CustomSearch.CX == "" {
			return nil, fmt.Errorf("custom search api key or cx is missing: %w", search.ErrUnconfigured)
		}
		var opts []option.ClientOption
		if src.CustomSearch.Endpoint != "" {
			opts = append(opts, option.WithEndpoint(src.CustomSearch.Endpoint))
		}
		return customsearch.NewClient(ctx, src.CustomSearch.APIKey, src.CustomSearch.CX, opts...)

	case ProviderTavily:
		if src.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing: %w", search.ErrUnconfigured)
		}
		timeout := time.Duration(cfg.Pipeline.RequestTimeout) * time.Second
		return tavily.NewClient(src.Tavily.APIKey, src.Tavily.BaseURL, timeout), nil

	case ProviderSearXNG:
		if src.SearXNG.BaseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing: %w", search.ErrUnconfigured)
		}
		return searxng.NewClient(src.SearXNG.BaseURL, src.SearXNG.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}
