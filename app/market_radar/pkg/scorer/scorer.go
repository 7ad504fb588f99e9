package scorer

import (
	"strings"
	"unicode/utf8"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/keywords"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

// 评分权重
const (
	BaseScore          = 40
	DistressWeight     = 8
	HelpSeekingWeight  = 12
	PainPointWeight    = 10
	AudienceWeight     = 8
	MarketingWeight    = 15
	MarketingBonus     = 20
	MarketingBonusAt   = 3
	EmotionWeight      = 10
	ShortTextPenalty   = 25
	ShortTextLimit     = 30
	ShortTextCeiling   = 15
	PromotionalPenalty = 35
	OffTopicPenalty    = 20
	LongTextBonus      = 10
	LongTextLimit      = 500
	MinScore, MaxScore = 0, 100
)

// Breakdown 一次评分的明细
type Breakdown struct {
	// Raw 未截断的累加值
	Raw int
	// Score 截断到 [0,100] 之后的分数
	Score int
	// Evidence 参与加减分的具体命中，例如 "pain:juggling"
	Evidence []string
}

// Scorer 可审计的启发式相关度评分器
type Scorer struct {
	tables *keywords.Tables
}

// New 创建评分器，tables 为 nil 时使用内置关键词表
func New(tables *keywords.Tables) *Scorer {
	if tables == nil {
		tables = keywords.Default()
	}
	return &Scorer{tables: tables}
}

// Score 返回 text 相对画像的相关度分数
func (s *Scorer) Score(text string, profile model.Profile) int {
	return s.Evaluate(text, profile).Score
}

// Evaluate 计算分数并记录每一项证据
func (s *Scorer) Evaluate(text string, profile model.Profile) Breakdown {
	lower := strings.ToLower(text)
	b := Breakdown{Raw: BaseScore}
	add := func(delta int, evidence string) {
		b.Raw += delta
		b.Evidence = append(b.Evidence, evidence)
	}

	for _, w := range s.tables.Distress {
		if strings.Contains(lower, w) {
			add(DistressWeight, "distress:"+w)
		}
	}

	if strings.Contains(lower, "?") {
		add(HelpSeekingWeight, "help-seeking:?")
	} else if p, ok := firstContained(lower, s.tables.HelpPhrases); ok {
		add(HelpSeekingWeight, "help-seeking:"+p)
	}

	for _, w := range s.tables.SignificantWords(profile.PainPoints) {
		if strings.Contains(lower, w) {
			add(PainPointWeight, "pain:"+w)
		}
	}
	for _, w := range s.tables.SignificantWords(profile.Audience) {
		if strings.Contains(lower, w) {
			add(AudienceWeight, "audience:"+w)
		}
	}

	marketingHits := 0
	for _, w := range s.tables.SignificantWords(profile.Marketing.Text()) {
		if strings.Contains(lower, w) {
			marketingHits++
			add(MarketingWeight, "marketing:"+w)
		}
	}
	if marketingHits >= MarketingBonusAt {
		add(MarketingBonus, "marketing-bonus")
	}

	if profile.PrimaryEmotion != "" {
		for _, w := range s.tables.EmotionKeywordsFor(profile.PrimaryEmotion) {
			if strings.Contains(lower, w) {
				add(EmotionWeight, "emotion:"+w)
			}
		}
	}

	length := utf8.RuneCountInString(strings.TrimSpace(text))
	short := length < ShortTextLimit
	if short {
		add(-ShortTextPenalty, "short-text")
	}

	if p, ok := firstContained(lower, s.tables.Promotional); ok {
		add(-PromotionalPenalty, "promotional:"+p)
	}

	pain := strings.ToLower(profile.PainPoints)
	for _, p := range s.tables.OffTopic {
		if strings.Contains(lower, p) && !strings.Contains(pain, p) {
			add(-OffTopicPenalty, "off-topic:"+p)
		}
	}

	if length > LongTextLimit {
		add(LongTextBonus, "long-text")
	}

	b.Score = clamp(b.Raw)
	if short && b.Score > ShortTextCeiling {
		b.Score = ShortTextCeiling
	}
	return b
}

func firstContained(text string, phrases []string) (string, bool) {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return p, true
		}
	}
	return "", false
}

func clamp(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
