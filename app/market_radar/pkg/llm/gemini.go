package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
)

const defaultGeminiModel = "gemini-2.5-flash-lite"

// GeminiGenerator 基于 Gemini 的生成能力
type GeminiGenerator struct {
	client    *genai.Client
	modelName string
}

var _ Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator 创建 Gemini 客户端
func NewGeminiGenerator(ctx context.Context, cfg config.LLMConfig) (*GeminiGenerator, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	name := cfg.Model
	if name == "" {
		name = defaultGeminiModel
	}
	return &GeminiGenerator{client: client, modelName: name}, nil
}

// Close 释放底层连接
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// Generate 实现 Generator
func (g *GeminiGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	// GenerativeModel 是轻量结构，每次调用单独创建以设置系统提示词
	m := g.client.GenerativeModel(g.modelName)
	m.SetTemperature(0.7)
	m.SetMaxOutputTokens(1024)
	m.ResponseMIMEType = "application/json"
	if system != "" {
		m.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}

	resp, err := m.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content generated")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text in response")
	}
	return sb.String(), nil
}
