package classifier

import (
	"strings"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/keywords"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

// DefaultEmotion 所有类别均未命中时的类别
const DefaultEmotion = model.EmotionSuccessful

// Classifier 基于关键词表的情绪分类器，纯函数、无外部依赖
type Classifier struct {
	tables *keywords.Tables
}

// New 创建分类器，tables 为 nil 时使用内置关键词表
func New(tables *keywords.Tables) *Classifier {
	if tables == nil {
		tables = keywords.Default()
	}
	return &Classifier{tables: tables}
}

// Classify 返回命中关键词最多的类别。
// 平局时按关键词表中的顺序取第一个达到最大值的类别，例如 "community"
// 同属 Supported 与 Sharing，单独出现时归为 Supported。
func (c *Classifier) Classify(text string) model.Emotion {
	best, bestHits := DefaultEmotion, 0
	for _, e := range c.Counts(text) {
		if e.Hits > bestHits {
			best, bestHits = e.Category, e.Hits
		}
	}
	return best
}

// CategoryHits 单个类别的命中次数
type CategoryHits struct {
	Category model.Emotion
	Hits     int
}

// Counts 按关键词表顺序返回每个类别的命中数
func (c *Classifier) Counts(text string) []CategoryHits {
	lower := strings.ToLower(text)
	out := make([]CategoryHits, 0, len(c.tables.Emotions))
	for _, ek := range c.tables.Emotions {
		hits := 0
		if lower != "" {
			for _, kw := range ek.Keywords {
				if strings.Contains(lower, kw) {
					hits++
				}
			}
		}
		out = append(out, CategoryHits{Category: ek.Category, Hits: hits})
	}
	return out
}
