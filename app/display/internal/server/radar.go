package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/market_radar/app/display/internal/conf"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/engine"
	mrLogger "github.com/iWorld-y/market_radar/app/market_radar/pkg/logger"
)

// NewRadarEngine 初始化 market_radar 引擎，store 为 nil 时不持久化
func NewRadarEngine(c *conf.Radar, store engine.ReportStore, logger log.Logger) (*engine.Engine, func(), error) {
	helper := log.NewHelper(logger)
	cfg := RadarConfig(c)

	// 初始化日志
	if err := mrLogger.InitLogger(cfg.Log.Level, cfg.Log.File, cfg.Log.FileOptions()); err != nil {
		helper.Errorf("Failed to init market_radar logger: %v", err)
		_ = mrLogger.InitLogger("info", "") // 降级处理
	}

	// 初始化核心引擎
	eng, err := engine.NewFromConfig(context.Background(), cfg, store)
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("Cleaning up market_radar engine")
	}
	return eng, cleanup, nil
}

// RadarConfig 将 internal/conf.Radar 转换为 pkg/config.Config，并应用环境变量与默认值
func RadarConfig(c *conf.Radar) *config.Config {
	cfg := &config.Config{}
	if c == nil {
		c = &conf.Radar{}
	}

	if l := c.Llm; l != nil {
		cfg.LLM = config.LLMConfig{
			Provider: l.Provider,
			BaseURL:  l.BaseUrl,
			APIKey:   l.ApiKey,
			Model:    l.Model,
			Timeout:  int(l.Timeout),
		}
	}

	if src := c.Sources; src != nil {
		if yt := src.Youtube; yt != nil {
			cfg.Sources.YouTube = config.YouTubeConfig{
				APIKey:          yt.ApiKey,
				Endpoint:        yt.Endpoint,
				VideosPerQuery:  int(yt.VideosPerQuery),
				CommentsPerCall: int(yt.CommentsPerCall),
			}
		}
		if d := src.Discussion; d != nil {
			cfg.Sources.Discussion = config.DiscussionConfig{
				Provider:   d.Provider,
				MaxResults: int(d.MaxResults),
				Domains:    d.Domains,
				Enrich:     d.Enrich,
			}
		}
		if cs := src.CustomSearch; cs != nil {
			cfg.Sources.CustomSearch = config.CustomSearchConfig{APIKey: cs.ApiKey, CX: cs.Cx}
		}
		if tv := src.Tavily; tv != nil {
			cfg.Sources.Tavily = config.TavilyConfig{APIKey: tv.ApiKey, BaseURL: tv.BaseUrl}
		}
		if sx := src.Searxng; sx != nil {
			cfg.Sources.SearXNG = config.SearXNGConfig{BaseURL: sx.BaseUrl, Timeout: int(sx.Timeout)}
		}
		if rd := src.Reddit; rd != nil {
			cfg.Sources.Reddit = config.RedditConfig{
				Disabled:  rd.Disabled,
				BaseURL:   rd.BaseUrl,
				UserAgent: rd.UserAgent,
				Limit:     int(rd.Limit),
			}
		}
	}

	if p := c.Pipeline; p != nil {
		cfg.Pipeline = config.PipelineConfig{
			RequestedCount: int(p.RequestedCount),
			MaxQueries:     int(p.MaxQueries),
			CallDelayMS:    int(p.CallDelayMs),
			RequestTimeout: int(p.RequestTimeout),
			RunTimeout:     int(p.RunTimeout),
			KeywordFile:    p.KeywordFile,
		}
	}
	if lg := c.Log; lg != nil {
		cfg.Log = config.LogConfig{Level: lg.Level, File: lg.File}
	}
	if cc := c.Concurrency; cc != nil {
		cfg.Concurrency = config.ConcurrencyConfig{QPS: int(cc.Qps), RPM: int(cc.Rpm)}
	}

	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	return cfg
}
