package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
)

// EinoGenerator 基于 eino ChatModel 的生成能力（OpenAI 兼容接口）
type EinoGenerator struct {
	chatModel model.BaseChatModel
}

// Ensure EinoGenerator implements Generator
var _ Generator = (*EinoGenerator)(nil)

// NewEinoGenerator 使用 OpenAI 兼容配置创建
func NewEinoGenerator(ctx context.Context, cfg config.LLMConfig) (*EinoGenerator, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: time.Duration(cfg.Timeout) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return NewEinoGeneratorWithModel(chatModel), nil
}

// NewEinoGeneratorWithModel 包装已有的 ChatModel
func NewEinoGeneratorWithModel(cm model.BaseChatModel) *EinoGenerator {
	return &EinoGenerator{chatModel: cm}
}

// Generate 实现 Generator
func (g *EinoGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	messages := []*schema.Message{
		{Role: schema.System, Content: system},
		{Role: schema.User, Content: user},
	}
	resp, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("empty response")
	}
	return resp.Content, nil
}
