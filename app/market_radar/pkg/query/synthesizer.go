package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/keywords"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/llm"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/logger"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

// MaxQueries 一次运行最多使用的查询数
const MaxQueries = 5

// GenericQueries 无法从画像中提取任何词时的兜底查询
var GenericQueries = []string{"small business struggles", "customer pain points"}

const systemPrompt = `You write search queries for discussion sites such as Reddit, Quora and niche forums.
Respond with a JSON array of strings only. No markdown, no commentary.`

const userPromptTpl = `Customer profile
Pain points: %s
Target audience: %s
Core problem: %s

Write up to %d search queries, each 3-6 words long, that real people in this audience would type
when they are struggling with exactly this problem. Be highly specific to the stated problem.
Do not write generic encouragement or motivation queries.`

// Result 查询合成结果
type Result struct {
	Queries []string
	// FromFallback 是否来自确定性兜底
	FromFallback bool
	// Reason 走兜底的原因，主路径为空
	Reason string
}

// Synthesizer 把画像转换为 1..5 条搜索查询
type Synthesizer struct {
	gen        llm.Generator
	tables     *keywords.Tables
	maxQueries int
}

// NewSynthesizer gen 为 nil 时只使用确定性兜底
func NewSynthesizer(gen llm.Generator, tables *keywords.Tables, maxQueries int) *Synthesizer {
	if tables == nil {
		tables = keywords.Default()
	}
	if maxQueries <= 0 || maxQueries > MaxQueries {
		maxQueries = MaxQueries
	}
	return &Synthesizer{gen: gen, tables: tables, maxQueries: maxQueries}
}

// Synthesize 返回非空的查询列表，从不返回错误：任何内部失败都走确定性兜底
func (s *Synthesizer) Synthesize(ctx context.Context, profile model.Profile) Result {
	if s.gen == nil {
		logger.Log.Info("未配置生成能力，使用确定性查询")
		return s.fallback(profile, "generation capability unavailable")
	}

	user := fmt.Sprintf(userPromptTpl, profile.PainPoints, profile.Audience, profile.CoreProblem, s.maxQueries)
	raw, err := s.gen.Generate(ctx, systemPrompt, user)
	if err != nil {
		if errors.Is(err, llm.ErrUnconfigured) {
			logger.Log.Info("未配置生成能力，使用确定性查询")
		} else {
			logger.Log.Errorf("生成查询失败: %v", err)
		}
		return s.fallback(profile, "generation failed: "+err.Error())
	}

	parsed := llm.ParseStringList(raw)
	if !parsed.OK() {
		logger.Log.Warnf("无法解析生成的查询: %s", parsed.Failure)
		return s.fallback(profile, "unparseable response: "+parsed.Failure)
	}

	queries := normalize(parsed.Values, s.maxQueries)
	if len(queries) == 0 {
		logger.Log.Warn("生成的查询全部为空")
		return s.fallback(profile, "no usable queries in response")
	}
	return Result{Queries: queries}
}

func (s *Synthesizer) fallback(profile model.Profile, reason string) Result {
	return Result{
		Queries:      normalize(Fallback(profile, s.tables), s.maxQueries),
		FromFallback: true,
		Reason:       reason,
	}
}

// Fallback 确定性地构造查询："X problems"、"X struggles"、"how to Y"。
// X 取自人群描述（为空时取问题描述），Y 取自核心问题（为空时取痛点）。
func Fallback(profile model.Profile, tables *keywords.Tables) []string {
	if tables == nil {
		tables = keywords.Default()
	}

	problemText := profile.CoreProblem
	if strings.TrimSpace(problemText) == "" {
		problemText = profile.PainPoints
	}
	audience := phrase(tables.SignificantWords(profile.Audience), 2)
	problem := phrase(tables.SignificantWords(problemText), 3)
	if audience == "" {
		audience = phrase(tables.SignificantWords(problemText), 2)
	}

	var out []string
	if audience != "" {
		out = append(out, audience+" problems", audience+" struggles")
	}
	if problem != "" {
		out = append(out, "how to "+problem)
	}
	if len(out) == 0 {
		return append([]string(nil), GenericQueries...)
	}
	return out
}

func phrase(words []string, n int) string {
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// normalize 去掉引号与多余空白，忽略大小写去重，最多保留 n 条
func normalize(queries []string, n int) []string {
	out := make([]string, 0, len(queries))
	seen := make(map[string]struct{}, len(queries))
	for _, q := range queries {
		q = strings.Trim(strings.TrimSpace(q), `"'`)
		q = strings.Join(strings.Fields(q), " ")
		if q == "" {
			continue
		}
		key := strings.ToLower(q)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
		if len(out) == n {
			break
		}
	}
	return out
}
