package keywords

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

//go:embed default.yaml
var defaultYAML []byte

// defaultTables 进程启动时解析一次，之后只读
var defaultTables = mustParse(defaultYAML)

// EmotionKeywords 单个情绪类别的关键词
type EmotionKeywords struct {
	Category model.Emotion `yaml:"category"`
	Keywords []string      `yaml:"keywords"`
}

// Tables 评分、分类与聚合共用的关键词表
type Tables struct {
	Emotions    []EmotionKeywords `yaml:"emotions"`
	Distress    []string          `yaml:"distress"`
	HelpPhrases []string          `yaml:"help_phrases"`
	Promotional []string          `yaml:"promotional"`
	OffTopic    []string          `yaml:"off_topic"`
	Frustration []string          `yaml:"frustration"`
	Objections  []string          `yaml:"objections"`
	Negative    []string          `yaml:"negative"`
	Positive    []string          `yaml:"positive"`
	StopWords   []string          `yaml:"stop_words"`

	stop map[string]struct{}
}

// Default 返回内置关键词表，调用方不得修改
func Default() *Tables {
	return defaultTables
}

// Load 从 YAML 文件加载关键词表
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyword file: %w", err)
	}
	return Parse(data)
}

// Parse 解析并校验关键词表
func Parse(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshal keyword tables: %w", err)
	}

	seen := make(map[model.Emotion]bool, len(t.Emotions))
	for i, e := range t.Emotions {
		category, ok := model.ParseEmotion(string(e.Category))
		if !ok {
			return nil, fmt.Errorf("unknown emotion category %q", e.Category)
		}
		if seen[category] {
			return nil, fmt.Errorf("duplicate emotion category %q", category)
		}
		seen[category] = true
		t.Emotions[i].Category = category
		t.Emotions[i].Keywords = normalize(e.Keywords)
	}

	t.Distress = normalize(t.Distress)
	t.HelpPhrases = normalize(t.HelpPhrases)
	t.Promotional = normalize(t.Promotional)
	t.OffTopic = normalize(t.OffTopic)
	t.Frustration = normalize(t.Frustration)
	t.Objections = normalize(t.Objections)
	t.Negative = normalize(t.Negative)
	t.Positive = normalize(t.Positive)
	t.StopWords = normalize(t.StopWords)

	t.stop = make(map[string]struct{}, len(t.StopWords))
	for _, w := range t.StopWords {
		t.stop[w] = struct{}{}
	}
	return &t, nil
}

// EmotionKeywordsFor 返回指定类别的关键词，未知类别返回 nil
func (t *Tables) EmotionKeywordsFor(e model.Emotion) []string {
	for _, ek := range t.Emotions {
		if ek.Category == e {
			return ek.Keywords
		}
	}
	return nil
}

// IsStopWord 判断是否为停用词
func (t *Tables) IsStopWord(w string) bool {
	_, ok := t.stop[w]
	return ok
}

// Tokenize 按非字母数字切分并转为小写，保留词内撇号
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, "'"); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// SignificantWords 提取长度大于 4 的非停用词，按首次出现顺序去重
func (t *Tables) SignificantWords(text string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, w := range Tokenize(text) {
		if utf8.RuneCountInString(w) <= 4 || t.IsStopWord(w) {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func mustParse(data []byte) *Tables {
	t, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("keywords: invalid embedded tables: %v", err))
	}
	return t
}

func normalize(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
