package aggregator

import (
	"sort"
	"strings"
	"time"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/classifier"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/keywords"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/scorer"
)

const (
	// DefaultRequestedCount requestedCount <= 0 时的报告条数
	DefaultRequestedCount = 20
	// LowDataThreshold 保留条数低于该值时给出数据不足警告
	LowDataThreshold = 10

	basePain   = 5
	maxPain    = 10
	topEmotion = 3
)

// AdapterResult 单个候选适配器的输出
type AdapterResult struct {
	Source  model.Source
	Outcome model.Outcome[[]model.Candidate]
}

// Input 一次报告构建的全部输入
type Input struct {
	Queries             []string
	QueriesFromFallback bool
	// Candidates 按适配器顺序排列，顺序即发现顺序
	Candidates     []AdapterResult
	Sentiment      model.Outcome[model.SentimentAggregate]
	Profile        model.Profile
	RequestedCount int
}

// Scorer 相关度评分
type Scorer interface {
	Evaluate(text string, profile model.Profile) scorer.Breakdown
}

// Classifier 情绪分类
type Classifier interface {
	Classify(text string) model.Emotion
}

// Builder 报告构建器：把各来源的部分结果或失败合成为一份完整报告
type Builder struct {
	scorer     Scorer
	classifier Classifier
	tables     *keywords.Tables
	now        func() time.Time
}

// Option 构建器选项
type Option func(*Builder)

// WithScorer 替换评分器
func WithScorer(s Scorer) Option {
	return func(b *Builder) { b.scorer = s }
}

// WithClassifier 替换分类器
func WithClassifier(c Classifier) Option {
	return func(b *Builder) { b.classifier = c }
}

// WithClock 替换时间源
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// New 创建构建器，tables 为 nil 时使用内置关键词表
func New(tables *keywords.Tables, opts ...Option) *Builder {
	if tables == nil {
		tables = keywords.Default()
	}
	b := &Builder{
		scorer:     scorer.New(tables),
		classifier: classifier.New(tables),
		tables:     tables,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// stats 构建过程中的计数
type stats struct {
	found   map[model.Source]int
	passed  map[model.Source]int
	total   int
	dropped int
	dupes   int
}

// Build 构建报告，从不失败
func (b *Builder) Build(in Input) *model.Report {
	limit := in.RequestedCount
	if limit <= 0 {
		limit = DefaultRequestedCount
	}
	st := stats{found: map[model.Source]int{}, passed: map[model.Source]int{}}

	// 1-3. 合并、评分分类、阈值过滤
	var accepted []model.ScoredCandidate
	for _, res := range in.Candidates {
		for _, c := range res.Outcome.Value {
			st.total++
			st.found[res.Source]++

			bd := b.scorer.Evaluate(c.Text, in.Profile)
			if bd.Score < model.AcceptanceThreshold {
				st.dropped++
				continue
			}
			st.passed[res.Source]++
			accepted = append(accepted, model.ScoredCandidate{
				Candidate:      c,
				RelevanceScore: bd.Score,
				EmotionalTone:  b.classifier.Classify(c.Text),
				Evidence:       bd.Evidence,
			})
		}
	}

	// 4. 按 ID 稳定去重，保留第一次出现的
	quotes := make([]model.ScoredCandidate, 0, len(accepted))
	seen := make(map[string]struct{}, len(accepted))
	for _, sc := range accepted {
		key := dedupKey(sc.Candidate)
		if _, dup := seen[key]; dup {
			st.dupes++
			continue
		}
		seen[key] = struct{}{}
		quotes = append(quotes, sc)
	}

	// 5. 分数降序，同分保持发现顺序
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].RelevanceScore > quotes[j].RelevanceScore
	})
	if len(quotes) > limit {
		quotes = quotes[:limit]
	}

	sentiment := in.Sentiment.Value
	analyzed := in.Sentiment.Status == model.OutcomeOK && sentiment.Analyzed

	// 6-7. 聚合情绪与语言模式
	summary := b.summarize(quotes, analyzed, sentiment)
	patterns := b.languagePatterns(quotes)
	if analyzed {
		patterns.EmotionalTriggers = mergeThemes(sentiment.ThemeWords, patterns.EmotionalTriggers)
	}

	report := &model.Report{
		GeneratedAt:         b.now(),
		Queries:             append([]string{}, in.Queries...),
		QueriesFromFallback: in.QueriesFromFallback,
		Quotes:              quotes,
		Sentiment:           summary,
		LanguagePatterns:    patterns,
		SourceStats:         provenance(in, quotes, st),
		Status:              status(len(quotes), st.total),
	}
	report.Reasoning = reasoning(in, report, st)
	return report
}

func (b *Builder) summarize(quotes []model.ScoredCandidate, analyzed bool, agg model.SentimentAggregate) model.SentimentSummary {
	s := model.SentimentSummary{TopEmotions: []model.Emotion{}, Urgency: model.UrgencyLow}
	if len(quotes) == 0 && !analyzed {
		return s
	}

	occurrences, total := 0, 0
	counts := make(map[model.Emotion]int)
	for _, q := range quotes {
		lower := strings.ToLower(q.Text)
		for _, w := range b.tables.Frustration {
			occurrences += strings.Count(lower, w)
		}
		counts[q.EmotionalTone]++
		total += q.RelevanceScore
	}

	s.PainIntensity = min(basePain+occurrences/2, maxPain)
	if analyzed && agg.Tier == model.SentimentNegative {
		s.PainIntensity = min(s.PainIntensity+1, maxPain)
	}
	s.Urgency = urgency(s.PainIntensity)
	s.TopEmotions = topEmotions(counts)
	if len(quotes) > 0 {
		s.AverageScore = (total + len(quotes)/2) / len(quotes)
	}
	return s
}

func urgency(pain int) model.Urgency {
	switch {
	case pain >= 8:
		return model.UrgencyHigh
	case pain >= 5:
		return model.UrgencyMedium
	default:
		return model.UrgencyLow
	}
}

// topEmotions 频次降序，同频按固定类别顺序
func topEmotions(counts map[model.Emotion]int) []model.Emotion {
	out := make([]model.Emotion, 0, len(counts))
	for _, e := range model.Emotions {
		if counts[e] > 0 {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return counts[out[i]] > counts[out[j]] })
	if len(out) > topEmotion {
		out = out[:topEmotion]
	}
	return out
}

func provenance(in Input, quotes []model.ScoredCandidate, st stats) model.Provenance {
	p := model.Provenance{
		TotalQuotes:           len(quotes),
		BySource:              make(map[model.Source]int),
		CandidatesFound:       st.total,
		DroppedBelowThreshold: st.dropped,
		DuplicatesRemoved:     st.dupes,
		Adapters:              make([]model.AdapterStatus, 0, len(in.Candidates)+1),
	}
	for _, res := range in.Candidates {
		if _, ok := p.BySource[res.Source]; !ok {
			p.BySource[res.Source] = 0
		}
		p.Adapters = append(p.Adapters, model.AdapterStatus{
			Source: res.Source,
			Status: res.Outcome.Status,
			Found:  len(res.Outcome.Value),
			Reason: res.Outcome.Reason,
		})
	}
	for _, q := range quotes {
		p.BySource[q.Source]++
		if q.IsRealQuote {
			p.RealQuotes++
		} else {
			p.AIGeneratedQuotes++
		}
	}

	if in.Sentiment.Status != "" {
		p.SentimentPosts = in.Sentiment.Value.PostCount
		p.Adapters = append(p.Adapters, model.AdapterStatus{
			Source: model.SourceSentiment,
			Status: in.Sentiment.Status,
			Found:  in.Sentiment.Value.PostCount,
			Reason: in.Sentiment.Reason,
		})
	}
	return p
}

func status(retained, found int) model.ReportStatus {
	switch {
	case retained > 0:
		return model.StatusAligned
	case found > 0:
		return model.StatusOffTopic
	default:
		return model.StatusEmpty
	}
}

func dedupKey(c model.Candidate) string {
	if c.ID != "" {
		return c.ID
	}
	return "text:" + strings.ToLower(strings.TrimSpace(c.Text))
}

func mergeThemes(themes, derived []string) []string {
	out := make([]string, 0, len(themes)+len(derived))
	seen := make(map[string]struct{}, len(themes)+len(derived))
	for _, list := range [][]string{themes, derived} {
		for _, w := range list {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	return out
}
