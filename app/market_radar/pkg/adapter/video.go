package adapter

import (
	"context"
	"strconv"
	"time"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/logger"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/throttle"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/youtube"
)

// VideoAdapter 视频评论适配器：每条查询调用一次，顺序执行并节流，最后按 ID 去重
type VideoAdapter struct {
	searcher CommentSearcher
	throttle throttle.Factory
	timeout  time.Duration
}

var _ CandidateAdapter = (*VideoAdapter)(nil)

// VideoOption 可选配置
type VideoOption func(*VideoAdapter)

// WithVideoTimeout 单条查询的评论搜索超时
func WithVideoTimeout(d time.Duration) VideoOption {
	return func(a *VideoAdapter) { a.timeout = d }
}

// NewVideoAdapter searcher 为 nil 表示未配置
func NewVideoAdapter(searcher CommentSearcher, tf throttle.Factory, opts ...VideoOption) *VideoAdapter {
	if tf == nil {
		tf = throttle.None
	}
	a := &VideoAdapter{searcher: searcher, throttle: tf}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Source 实现 CandidateAdapter
func (a *VideoAdapter) Source() model.Source { return model.SourceVideoComment }

// Fetch 实现 CandidateAdapter，limit 为每条查询的评论上限
func (a *VideoAdapter) Fetch(ctx context.Context, queries []string, _ model.Profile, limit int) model.Outcome[[]model.Candidate] {
	if a.searcher == nil {
		logger.Log.Info("视频评论来源未配置，跳过")
		return unavailable([]model.Candidate{}, "video comment search not configured")
	}

	var (
		out         []model.Candidate
		seen        = make(map[string]struct{})
		failures    int
		lastErr     error
		interrupted bool
	)
	_, err := throttle.Each(ctx, a.throttle(), queries, func(ctx context.Context, q string) error {
		callCtx, cancel := callContext(ctx, a.timeout)
		comments, err := a.searcher.SearchComments(callCtx, q, limit)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Log.Errorf("视频评论搜索失败 [%s]: %v", q, err)
			failures++
			lastErr = err
			return nil
		}
		for i, c := range comments {
			cand := videoCandidate(c, i)
			if _, dup := seen[cand.ID]; dup {
				continue
			}
			seen[cand.ID] = struct{}{}
			out = append(out, cand)
		}
		return nil
	})
	if err != nil {
		logger.Log.Warnf("视频评论搜索被中断，保留已获取的 %d 条: %v", len(out), err)
		lastErr = err
		interrupted = true
	}
	return candidates(out, failures, len(queries), lastErr, interrupted)
}

func videoCandidate(c youtube.Comment, idx int) model.Candidate {
	id := c.ID
	if id == "" {
		id = c.VideoID + ":" + strconv.Itoa(idx)
	}
	return model.Candidate{
		ID:          "yt:" + id,
		Text:        c.Text,
		Source:      model.SourceVideoComment,
		SubSource:   "youtube",
		Author:      c.Author,
		URL:         youtube.VideoURL(c.VideoID),
		Upvotes:     c.LikeCount,
		Timestamp:   c.PublishedAt,
		IsRealQuote: true,
	}
}
