package aggregator

import (
	"sort"
	"strings"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/keywords"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

const (
	maxPhrases     = 5
	minPhraseCount = 2
	maxTriggers    = 8
	maxObjections  = 5
)

func (b *Builder) languagePatterns(quotes []model.ScoredCandidate) model.LanguagePatterns {
	texts := make([]string, 0, len(quotes))
	for _, q := range quotes {
		texts = append(texts, strings.ToLower(q.Text))
	}
	return model.LanguagePatterns{
		CommonPhrases:     b.commonPhrases(texts),
		EmotionalTriggers: rankPhrases(texts, b.tables.Distress, maxTriggers),
		Objections:        rankPhrases(texts, b.tables.Objections, maxObjections),
	}
}

// commonPhrases 统计不含停用词的二元词组，出现至少两次的按频次取前 5
func (b *Builder) commonPhrases(texts []string) []string {
	counts := make(map[string]int)
	var order []string
	for _, t := range texts {
		tokens := keywords.Tokenize(t)
		for i := 0; i+1 < len(tokens); i++ {
			a, c := tokens[i], tokens[i+1]
			if b.tables.IsStopWord(a) || b.tables.IsStopWord(c) || len(a) < 3 || len(c) < 3 {
				continue
			}
			bigram := a + " " + c
			if counts[bigram] == 0 {
				order = append(order, bigram)
			}
			counts[bigram]++
		}
	}

	out := make([]string, 0, maxPhrases)
	for _, p := range order {
		if counts[p] >= minPhraseCount {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return counts[out[i]] > counts[out[j]] })
	if len(out) > maxPhrases {
		out = out[:maxPhrases]
	}
	return out
}

// rankPhrases 返回在文本中出现过的短语，频次降序，同频按表内顺序
func rankPhrases(texts []string, phrases []string, limit int) []string {
	counts := make(map[string]int, len(phrases))
	out := make([]string, 0, limit)
	for _, p := range phrases {
		for _, t := range texts {
			counts[p] += strings.Count(t, p)
		}
		if counts[p] > 0 {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return counts[out[i]] > counts[out[j]] })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
