package adapter

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/logger"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/search"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/throttle"
)

const (
	// thinSnippet 摘要短于该长度时尝试抓取正文
	thinSnippet = 200
	// maxEnriched 正文截断长度
	maxEnriched = 2000
)

// subSources 域名到来源子类型的映射，按顺序匹配
var subSources = []struct {
	pattern string
	name    string
}{
	{"reddit.com", "reddit"},
	{"quora.com", "quora"},
	{"stackexchange.com", "stackexchange"},
	{"stackoverflow.com", "stackexchange"},
	{"ycombinator.com", "hackernews"},
	{"indiehackers.com", "indiehackers"},
	{"medium.com", "medium"},
}

// SubSource 根据域名判断来源子类型，未知域名为 blog
func SubSource(displayLink string) string {
	host := strings.ToLower(displayLink)
	for _, s := range subSources {
		if host == s.pattern || strings.HasSuffix(host, "."+s.pattern) {
			return s.name
		}
	}
	return "blog"
}

// DiscussionAdapter 讨论区搜索适配器，只使用第一条查询
type DiscussionAdapter struct {
	searcher search.Searcher
	enricher Enricher
	domains  []string
	throttle throttle.Factory
	timeout  time.Duration
}

var _ CandidateAdapter = (*DiscussionAdapter)(nil)

// DiscussionOption 可选配置
type DiscussionOption func(*DiscussionAdapter)

// WithEnricher 摘要过短时抓取正文
func WithEnricher(e Enricher) DiscussionOption {
	return func(a *DiscussionAdapter) { a.enricher = e }
}

// WithDomains 覆盖默认白名单
func WithDomains(domains []string) DiscussionOption {
	return func(a *DiscussionAdapter) { a.domains = domains }
}

// WithThrottle 正文抓取之间的节流
func WithThrottle(tf throttle.Factory) DiscussionOption {
	return func(a *DiscussionAdapter) { a.throttle = tf }
}

// WithSearchTimeout 搜索与每次正文抓取的超时
func WithSearchTimeout(d time.Duration) DiscussionOption {
	return func(a *DiscussionAdapter) { a.timeout = d }
}

// NewDiscussionAdapter searcher 为 nil 表示未配置
func NewDiscussionAdapter(searcher search.Searcher, opts ...DiscussionOption) *DiscussionAdapter {
	a := &DiscussionAdapter{searcher: searcher, throttle: throttle.None}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Source 实现 CandidateAdapter
func (a *DiscussionAdapter) Source() model.Source { return model.SourceDiscussion }

// Fetch 实现 CandidateAdapter
func (a *DiscussionAdapter) Fetch(ctx context.Context, queries []string, profile model.Profile, limit int) model.Outcome[[]model.Candidate] {
	if a.searcher == nil {
		logger.Log.Info("讨论区搜索未配置，跳过")
		return unavailable([]model.Candidate{}, search.ErrUnconfigured.Error())
	}
	q, ok := primary(queries)
	if !ok {
		return candidates(nil, 0, 0, nil, false)
	}

	callCtx, cancel := callContext(ctx, a.timeout)
	resp, err := a.searcher.Search(callCtx, &search.Request{
		Query:        q,
		AudienceHint: profile.Audience,
		MaxResults:   limit,
		Domains:      a.domains,
	})
	cancel()
	if err != nil {
		if errors.Is(err, search.ErrUnconfigured) {
			logger.Log.Info("讨论区搜索未配置，跳过")
			return unavailable([]model.Candidate{}, err.Error())
		}
		logger.Log.Errorf("讨论区搜索失败 [%s]: %v", q, err)
		return candidates(nil, 1, 1, err, false)
	}

	var (
		out         []model.Candidate
		seen        = make(map[string]struct{})
		lastErr     error
		interrupted bool
	)
	th := a.throttle()
	for _, r := range resp.Results {
		if r.URL == "" {
			continue
		}
		id := "web:" + r.URL
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		snippet := strings.TrimSpace(r.Snippet)
		if a.enricher != nil && utf8.RuneCountInString(snippet) < thinSnippet {
			if err := th.Wait(ctx); err != nil {
				lastErr = err
				interrupted = true
				break
			}
			fetchCtx, cancel := callContext(ctx, a.timeout)
			text, err := a.enricher(fetchCtx, r.URL)
			cancel()
			if err != nil {
				logger.Log.Debugf("抓取正文失败 [%s]: %v", r.URL, err)
			} else if text = truncate(strings.TrimSpace(text), maxEnriched); len(text) > len(snippet) {
				snippet = text
			}
		}

		display := r.DisplayLink
		if display == "" {
			display = search.DisplayLink(r.URL)
		}
		out = append(out, model.Candidate{
			ID:          id,
			Text:        joinText(r.Title, snippet),
			Source:      model.SourceDiscussion,
			SubSource:   SubSource(display),
			URL:         r.URL,
			IsRealQuote: true,
		})
	}
	return candidates(out, 0, 1, lastErr, interrupted)
}

func joinText(title, snippet string) string {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return snippet
	case snippet == "":
		return title
	default:
		return title + "\n" + snippet
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
