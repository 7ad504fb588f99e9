package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/youtube"
)

// CandidateAdapter 返回候选片段的来源适配器。
// Fetch 从不返回错误：失败以 Outcome 的状态和原因表达。
type CandidateAdapter interface {
	Source() model.Source
	Fetch(ctx context.Context, queries []string, profile model.Profile, limit int) model.Outcome[[]model.Candidate]
}

// SentimentSource 仅情绪来源，只返回聚合结果
type SentimentSource interface {
	Analyze(ctx context.Context, queries []string, profile model.Profile) model.Outcome[model.SentimentAggregate]
}

// CommentSearcher 视频评论搜索能力
type CommentSearcher interface {
	SearchComments(ctx context.Context, query string, limit int) ([]youtube.Comment, error)
}

// SentimentAnalyzer 情绪聚合能力
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, query, audienceHint string) (model.SentimentAggregate, error)
}

// candidates 根据收集结果与失败情况决定 Outcome 状态。
// interrupted 表示节流或取消导致部分查询没有执行。
func candidates(out []model.Candidate, failures, attempts int, lastErr error, interrupted bool) model.Outcome[[]model.Candidate] {
	if out == nil {
		out = []model.Candidate{}
	}
	switch {
	case attempts > 0 && failures == attempts:
		return model.Outcome[[]model.Candidate]{Value: out, Status: model.OutcomeFailed, Reason: reason(lastErr)}
	case failures > 0 || interrupted || isCanceled(lastErr):
		return model.Outcome[[]model.Candidate]{Value: out, Status: model.OutcomePartial, Reason: reason(lastErr)}
	case len(out) == 0:
		return model.Outcome[[]model.Candidate]{Value: out, Status: model.OutcomeEmpty}
	default:
		return model.Outcome[[]model.Candidate]{Value: out, Status: model.OutcomeOK}
	}
}

// callContext 为单次外部调用加上超时，d <= 0 时只继承 ctx
func callContext(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func unavailable[T any](zero T, why string) model.Outcome[T] {
	return model.Outcome[T]{Value: zero, Status: model.OutcomeUnavailable, Reason: why}
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func reason(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func primary(queries []string) (string, bool) {
	if len(queries) == 0 || queries[0] == "" {
		return "", false
	}
	return queries[0], true
}
