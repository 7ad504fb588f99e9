package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/adapter"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/aggregator"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/keywords"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/llm"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/logger"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/query"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/reddit"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/search"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/search/factory"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/throttle"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/youtube"
)

// saveTimeout 运行结束后持久化报告的超时
const saveTimeout = 10 * time.Second

// Synthesizer 查询合成
type Synthesizer interface {
	Synthesize(ctx context.Context, profile model.Profile) query.Result
}

// ReportStore 报告持久化
type ReportStore interface {
	SaveReport(ctx context.Context, report *model.Report) error
}

// Deps 引擎依赖，为 nil 的适配器视为未配置
type Deps struct {
	Synthesizer Synthesizer
	Video       adapter.CandidateAdapter
	Discussion  adapter.CandidateAdapter
	Sentiment   adapter.SentimentSource
	Builder     *aggregator.Builder
	Store       ReportStore
}

// Options 运行参数
type Options struct {
	RequestedCount    int
	CommentsPerQuery  int
	DiscussionResults int
	// RunTimeout 整次运行的超时，超时后已获取的结果仍会进入报告
	RunTimeout time.Duration
}

// Engine 市场情报流水线：合成查询，并发调用三类来源，聚合为报告。
// 引擎本身不持有跨运行的可变状态，可被并发调用。
type Engine struct {
	deps     Deps
	opts     Options
	validate *validator.Validate
}

// New 创建引擎
func New(deps Deps, opts Options) *Engine {
	if deps.Synthesizer == nil {
		deps.Synthesizer = query.NewSynthesizer(nil, nil, query.MaxQueries)
	}
	if deps.Video == nil {
		deps.Video = adapter.NewVideoAdapter(nil, nil)
	}
	if deps.Discussion == nil {
		deps.Discussion = adapter.NewDiscussionAdapter(nil)
	}
	if deps.Sentiment == nil {
		deps.Sentiment = adapter.NewSentimentAdapter(nil)
	}
	if deps.Builder == nil {
		deps.Builder = aggregator.New(nil)
	}
	if opts.RequestedCount <= 0 {
		opts.RequestedCount = aggregator.DefaultRequestedCount
	}
	return &Engine{deps: deps, opts: opts, validate: validator.New()}
}

// NewFromConfig 按配置装配全部能力，缺少凭据的来源以未配置状态参与运行
func NewFromConfig(ctx context.Context, cfg *config.Config, store ReportStore) (*Engine, error) {
	tables := keywords.Default()
	if cfg.Pipeline.KeywordFile != "" {
		t, err := keywords.Load(cfg.Pipeline.KeywordFile)
		if err != nil {
			return nil, fmt.Errorf("关键词表加载失败: %w", err)
		}
		tables = t
	}

	gen, err := llm.NewGenerator(ctx, cfg.LLM, cfg.Concurrency)
	switch {
	case errors.Is(err, llm.ErrUnconfigured):
		logger.Log.Info("未配置 LLM api key，查询合成只使用确定性规则")
	case err != nil:
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	tf := throttle.IntervalFactory(time.Duration(cfg.Pipeline.CallDelayMS) * time.Millisecond)
	requestTimeout := time.Duration(cfg.Pipeline.RequestTimeout) * time.Second

	var comments adapter.CommentSearcher
	if yt := cfg.Sources.YouTube; yt.APIKey != "" {
		var opts []option.ClientOption
		if yt.Endpoint != "" {
			opts = append(opts, option.WithEndpoint(yt.Endpoint))
		}
		client, err := youtube.NewClient(ctx, yt.APIKey, yt.VideosPerQuery, yt.CommentsPerCall, opts...)
		if err != nil {
			return nil, fmt.Errorf("视频评论客户端初始化失败: %w", err)
		}
		comments = client
	} else {
		logger.Log.Info("未配置 YouTube api key，视频评论来源不可用")
	}

	searcher, err := factory.NewDiscussionSearcher(ctx, cfg)
	switch {
	case errors.Is(err, search.ErrUnconfigured):
		logger.Log.Infof("讨论区搜索不可用: %v", err)
	case err != nil:
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}
	discussionOpts := []adapter.DiscussionOption{adapter.WithThrottle(tf), adapter.WithSearchTimeout(requestTimeout)}
	if len(cfg.Sources.Discussion.Domains) > 0 {
		discussionOpts = append(discussionOpts, adapter.WithDomains(cfg.Sources.Discussion.Domains))
	}
	if cfg.Sources.Discussion.Enrich {
		discussionOpts = append(discussionOpts, adapter.WithEnricher(adapter.ReadabilityEnricher(requestTimeout)))
	}

	var analyzer adapter.SentimentAnalyzer
	if rd := cfg.Sources.Reddit; !rd.Disabled {
		analyzer = reddit.NewClient(rd.BaseURL, rd.UserAgent, rd.Limit, requestTimeout, tables)
	}

	deps := Deps{
		Synthesizer: query.NewSynthesizer(gen, tables, cfg.Pipeline.MaxQueries),
		Video:       adapter.NewVideoAdapter(comments, tf, adapter.WithVideoTimeout(requestTimeout)),
		Discussion:  adapter.NewDiscussionAdapter(searcher, discussionOpts...),
		Sentiment:   adapter.NewSentimentAdapter(analyzer),
		Builder:     aggregator.New(tables),
		Store:       store,
	}
	return New(deps, Options{
		RequestedCount:    cfg.Pipeline.RequestedCount,
		CommentsPerQuery:  cfg.Sources.YouTube.CommentsPerCall,
		DiscussionResults: cfg.Sources.Discussion.MaxResults,
		RunTimeout:        time.Duration(cfg.Pipeline.RunTimeout) * time.Second,
	}), nil
}

// ValidateProfile 画像三个文本字段全部为空时返回 model.ErrInvalidProfile
func (e *Engine) ValidateProfile(profile model.Profile) error {
	if err := e.validate.Struct(profile); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidProfile, err)
	}
	if profile.Empty() {
		return model.ErrInvalidProfile
	}
	return nil
}

// RunMarketIntelligence 执行一次完整运行。
// 只有画像无效时返回错误；来源失败、超时、无数据都体现在报告中。
func (e *Engine) RunMarketIntelligence(ctx context.Context, profile model.Profile, requestedCount int) (*model.Report, error) {
	if err := e.ValidateProfile(profile); err != nil {
		return nil, err
	}
	if requestedCount <= 0 {
		requestedCount = e.opts.RequestedCount
	}

	runCtx := ctx
	if e.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.opts.RunTimeout)
		defer cancel()
	}

	start := time.Now()
	qr := e.deps.Synthesizer.Synthesize(runCtx, profile)
	logger.Log.Infof("查询合成完成: %d 条 (兜底: %v)", len(qr.Queries), qr.FromFallback)

	// 三类来源互不共享状态，各自写入自己的结果槽
	var (
		g                 errgroup.Group
		video, discussion model.Outcome[[]model.Candidate]
		sentiment         model.Outcome[model.SentimentAggregate]
	)
	g.Go(func() error {
		video = e.deps.Video.Fetch(runCtx, qr.Queries, profile, e.opts.CommentsPerQuery)
		return nil
	})
	g.Go(func() error {
		discussion = e.deps.Discussion.Fetch(runCtx, qr.Queries, profile, e.opts.DiscussionResults)
		return nil
	})
	g.Go(func() error {
		sentiment = e.deps.Sentiment.Analyze(runCtx, qr.Queries, profile)
		return nil
	})
	_ = g.Wait()

	report := e.deps.Builder.Build(aggregator.Input{
		Queries:             qr.Queries,
		QueriesFromFallback: qr.FromFallback,
		Candidates: []aggregator.AdapterResult{
			{Source: e.deps.Video.Source(), Outcome: video},
			{Source: e.deps.Discussion.Source(), Outcome: discussion},
		},
		Sentiment:      sentiment,
		Profile:        profile,
		RequestedCount: requestedCount,
	})
	report.RunID = uuid.NewString()

	logger.Log.WithField("run_id", report.RunID).Infof("运行完成: 保留 %d 条, 状态 %s, 耗时 %v",
		len(report.Quotes), report.Status, time.Since(start).Round(time.Millisecond))

	if e.deps.Store != nil {
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
		defer cancel()
		if err := e.deps.Store.SaveReport(saveCtx, report); err != nil {
			logger.Log.Errorf("保存报告失败 [%s]: %v", report.RunID, err)
		}
	}
	return report, nil
}
