package model

import (
	"errors"
	"strings"
	"time"
)

// AcceptanceThreshold 候选片段进入报告所需的最低相关度分数
const AcceptanceThreshold = 40

// ErrInvalidProfile 画像所有文本字段均为空时返回
var ErrInvalidProfile = errors.New("invalid profile: pain points, audience and core problem are all empty")

// Emotion 六类情绪框架中的一类
type Emotion string

const (
	EmotionSignificance    Emotion = "Significance"
	EmotionSafe            Emotion = "Safe"
	EmotionSupported       Emotion = "Supported"
	EmotionSuccessful      Emotion = "Successful"
	EmotionSurpriseDelight Emotion = "Surprise & Delight"
	EmotionSharing         Emotion = "Sharing"
)

// Emotions 固定的类别顺序，也是分类时的平局优先级
var Emotions = []Emotion{
	EmotionSignificance,
	EmotionSafe,
	EmotionSupported,
	EmotionSuccessful,
	EmotionSurpriseDelight,
	EmotionSharing,
}

// ParseEmotion 按名称（忽略大小写）解析情绪类别
func ParseEmotion(s string) (Emotion, bool) {
	s = strings.TrimSpace(s)
	for _, e := range Emotions {
		if strings.EqualFold(string(e), s) {
			return e, true
		}
	}
	if strings.EqualFold(s, "surprise&delight") || strings.EqualFold(s, "surprise and delight") {
		return EmotionSurpriseDelight, true
	}
	return "", false
}

// MarketingStatement 营销陈述
type MarketingStatement struct {
	Promise        string `json:"promise" yaml:"promise"`
	Problem        string `json:"problem" yaml:"problem"`
	Solution       string `json:"solution" yaml:"solution"`
	Transformation string `json:"transformation" yaml:"transformation"`
}

// Text 拼接营销陈述的全部字段
func (m *MarketingStatement) Text() string {
	if m == nil {
		return ""
	}
	return strings.Join([]string{m.Promise, m.Problem, m.Solution, m.Transformation}, " ")
}

// Profile 一次调研运行的客户画像输入，运行期间只读
type Profile struct {
	PainPoints     string              `json:"painPoints" yaml:"pain_points" validate:"required_without_all=Audience CoreProblem"`
	Audience       string              `json:"audience" yaml:"audience" validate:"required_without_all=PainPoints CoreProblem"`
	CoreProblem    string              `json:"coreProblem" yaml:"core_problem" validate:"required_without_all=PainPoints Audience"`
	PrimaryEmotion Emotion             `json:"primaryEmotion,omitempty" yaml:"primary_emotion"`
	Marketing      *MarketingStatement `json:"marketing,omitempty" yaml:"marketing"`
}

// Empty 画像是否没有任何可用的文本
func (p Profile) Empty() bool {
	return strings.TrimSpace(p.PainPoints) == "" &&
		strings.TrimSpace(p.Audience) == "" &&
		strings.TrimSpace(p.CoreProblem) == ""
}

// Source 候选片段的来源
type Source string

const (
	SourceVideoComment Source = "video-comment"
	SourceDiscussion   Source = "discussion"
	SourceSentiment    Source = "sentiment-only"
)

// Candidate 某个来源适配器返回的原始片段
type Candidate struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Source      Source `json:"source"`
	SubSource   string `json:"subSource,omitempty"`
	Author      string `json:"author,omitempty"`
	URL         string `json:"url,omitempty"`
	Upvotes     int64  `json:"upvotes,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	IsRealQuote bool   `json:"isRealQuote"`
}

// ScoredCandidate 带相关度分数和情绪类别的候选片段
type ScoredCandidate struct {
	Candidate
	RelevanceScore int      `json:"relevanceScore"`
	EmotionalTone  Emotion  `json:"emotionalTone"`
	Evidence       []string `json:"evidence,omitempty"`
}

// SentimentTier 整体情绪倾向
type SentimentTier string

const (
	SentimentNegative SentimentTier = "negative"
	SentimentMixed    SentimentTier = "mixed"
	SentimentPositive SentimentTier = "positive"
)

// SentimentAggregate 仅情绪来源的聚合结果，不包含任何原文
type SentimentAggregate struct {
	Analyzed   bool          `json:"analyzed"`
	PostCount  int           `json:"postCount"`
	Tier       SentimentTier `json:"sentimentTier,omitempty"`
	ThemeWords []string      `json:"themeWords,omitempty"`
}

// Urgency 紧迫程度
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// SentimentSummary 报告中的聚合情绪
type SentimentSummary struct {
	PainIntensity int       `json:"painIntensity"`
	Urgency       Urgency   `json:"urgency"`
	TopEmotions   []Emotion `json:"topEmotions"`
	AverageScore  int       `json:"averageScore"`
}

// LanguagePatterns 语言模式
type LanguagePatterns struct {
	CommonPhrases     []string `json:"commonPhrases"`
	EmotionalTriggers []string `json:"emotionalTriggers"`
	Objections        []string `json:"objections"`
}

// OutcomeStatus 适配器调用结果的状态
type OutcomeStatus string

const (
	OutcomeOK          OutcomeStatus = "ok"
	OutcomeEmpty       OutcomeStatus = "empty"
	OutcomePartial     OutcomeStatus = "partial"
	OutcomeFailed      OutcomeStatus = "failed"
	OutcomeUnavailable OutcomeStatus = "unavailable"
)

// Outcome 适配器内部返回值：成功带值，或失败带原因
type Outcome[T any] struct {
	Value  T
	Status OutcomeStatus
	Reason string
}

// Failed 是否因错误或未配置而没有数据
func (o Outcome[T]) Failed() bool {
	return o.Status == OutcomeFailed || o.Status == OutcomeUnavailable
}

// AdapterStatus 写入报告的适配器诊断信息
type AdapterStatus struct {
	Source Source        `json:"source"`
	Status OutcomeStatus `json:"status"`
	Found  int           `json:"found"`
	Reason string        `json:"reason,omitempty"`
}

// Provenance 来源统计
type Provenance struct {
	TotalQuotes           int             `json:"totalQuotes"`
	RealQuotes            int             `json:"realQuotes"`
	AIGeneratedQuotes     int             `json:"aiGeneratedQuotes"`
	BySource              map[Source]int  `json:"bySource"`
	CandidatesFound       int             `json:"candidatesFound"`
	DroppedBelowThreshold int             `json:"droppedBelowThreshold"`
	DuplicatesRemoved     int             `json:"duplicatesRemoved"`
	SentimentPosts        int             `json:"sentimentPosts"`
	Adapters              []AdapterStatus `json:"adapters"`
}

// ReportStatus 报告对证据的判定
type ReportStatus string

const (
	// StatusAligned 找到了与画像对齐的真实证据
	StatusAligned ReportStatus = "aligned"
	// StatusOffTopic 找到了数据，但全部低于阈值
	StatusOffTopic ReportStatus = "off_topic"
	// StatusEmpty 所有来源都没有返回数据
	StatusEmpty ReportStatus = "empty"
)

// Report 一次运行的输出，构造完成后不再修改
type Report struct {
	RunID               string            `json:"runId"`
	GeneratedAt         time.Time         `json:"generatedAt"`
	Queries             []string          `json:"queries"`
	QueriesFromFallback bool              `json:"queriesFromFallback"`
	Quotes              []ScoredCandidate `json:"quotes"`
	Sentiment           SentimentSummary  `json:"sentiment"`
	LanguagePatterns    LanguagePatterns  `json:"languagePatterns"`
	SourceStats         Provenance        `json:"sourceStats"`
	Status              ReportStatus      `json:"status"`
	Reasoning           string            `json:"reasoning"`
}

// ReportSummary 报告列表项
type ReportSummary struct {
	RunID         string       `json:"runId"`
	CreatedAt     time.Time    `json:"createdAt"`
	Status        ReportStatus `json:"status"`
	TotalQuotes   int          `json:"totalQuotes"`
	PainIntensity int          `json:"painIntensity"`
	Urgency       Urgency      `json:"urgency"`
}
