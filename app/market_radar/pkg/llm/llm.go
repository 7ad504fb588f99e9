package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
)

// ErrUnconfigured 未配置生成能力（缺少 api key 等）
var ErrUnconfigured = errors.New("llm: generation capability not configured")

// Generator 生成能力：给定系统提示词和用户提示词，返回文本
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// GeneratorFunc 函数适配器
type GeneratorFunc func(ctx context.Context, system, user string) (string, error)

// Generate 实现 Generator
func (f GeneratorFunc) Generate(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

// listFields 对象形式响应中优先查找的字段
var listFields = []string{"queries", "items", "results"}

// ListResult 字符串列表的解析结果：Ok(values) 或 ParseFailure(reason)
type ListResult struct {
	Values  []string
	Failure string
}

// Ok 解析成功
func Ok(values []string) ListResult {
	return ListResult{Values: values}
}

// ParseFailure 解析失败
func ParseFailure(reason string) ListResult {
	return ListResult{Failure: reason}
}

// OK 是否解析成功
func (r ListResult) OK() bool {
	return r.Failure == ""
}

// CleanJSON 去掉模型输出外层的 markdown 代码块
func CleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseStringList 解析模型返回的字符串列表。
// 接受 JSON 数组、带列表字段的对象（queries / items / results，
// 否则取第一个字符串数组字段），以及夹在说明文字中的数组。
func ParseStringList(raw string) ListResult {
	s := CleanJSON(raw)
	if s == "" {
		return ParseFailure("empty response")
	}

	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		start, end := strings.Index(s, "["), strings.LastIndex(s, "]")
		if start < 0 || end <= start {
			return ParseFailure("not json: " + err.Error())
		}
		if err := json.Unmarshal([]byte(s[start:end+1]), &v); err != nil {
			return ParseFailure("not json: " + err.Error())
		}
	}

	switch t := v.(type) {
	case []any:
		return fromArray(t)
	case map[string]any:
		for _, f := range listFields {
			if arr, ok := t[f].([]any); ok {
				return fromArray(arr)
			}
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if arr, ok := t[k].([]any); ok {
				if r := fromArray(arr); r.OK() {
					return r
				}
			}
		}
		return ParseFailure("object has no string list field")
	default:
		return ParseFailure("unexpected json shape")
	}
}

func fromArray(arr []any) ListResult {
	var out []string
	for _, item := range arr {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 {
		return ParseFailure("no strings in list")
	}
	return Ok(out)
}
