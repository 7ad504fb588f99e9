package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// AnthropicGenerator 基于 Anthropic Messages API 的生成能力
type AnthropicGenerator struct {
	client *anthropic.Client
	model  string
}

var _ Generator = (*AnthropicGenerator)(nil)

// NewAnthropicGenerator 创建 Anthropic 客户端，重试交给 Limited 处理
func NewAnthropicGenerator(cfg config.LLMConfig) *AnthropicGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicGenerator{client: &client, model: model}
}

// Generate 实现 Generator
func (g *AnthropicGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: user},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
		Temperature: anthropic.Float(0.7),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var parts []string
	for _, block := range resp.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			parts = append(parts, variant.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text in response")
	}
	return strings.Join(parts, ""), nil
}
