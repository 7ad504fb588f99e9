package adapter

import (
	"context"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/logger"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

// SentimentAdapter 仅情绪适配器，使用第一条查询
type SentimentAdapter struct {
	analyzer SentimentAnalyzer
}

var _ SentimentSource = (*SentimentAdapter)(nil)

// NewSentimentAdapter analyzer 为 nil 表示未启用
func NewSentimentAdapter(analyzer SentimentAnalyzer) *SentimentAdapter {
	return &SentimentAdapter{analyzer: analyzer}
}

// Analyze 实现 SentimentSource
func (a *SentimentAdapter) Analyze(ctx context.Context, queries []string, profile model.Profile) model.Outcome[model.SentimentAggregate] {
	if a.analyzer == nil {
		logger.Log.Info("情绪来源未启用，跳过")
		return unavailable(model.SentimentAggregate{}, "sentiment source disabled")
	}
	q, ok := primary(queries)
	if !ok {
		return model.Outcome[model.SentimentAggregate]{Status: model.OutcomeEmpty}
	}

	agg, err := a.analyzer.Analyze(ctx, q, profile.Audience)
	if err != nil {
		logger.Log.Errorf("情绪分析失败 [%s]: %v", q, err)
		return model.Outcome[model.SentimentAggregate]{Status: model.OutcomeFailed, Reason: err.Error()}
	}
	if !agg.Analyzed || agg.PostCount == 0 {
		return model.Outcome[model.SentimentAggregate]{Value: agg, Status: model.OutcomeEmpty}
	}
	return model.Outcome[model.SentimentAggregate]{Value: agg, Status: model.OutcomeOK}
}
