package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
)

// NewGenerator 根据配置创建带限流的生成能力，缺少 api key 时返回 ErrUnconfigured
func NewGenerator(ctx context.Context, cfg config.LLMConfig, cc config.ConcurrencyConfig) (Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrUnconfigured
	}

	var (
		g   Generator
		err error
	)
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		g, err = NewEinoGenerator(ctx, cfg)
	case "gemini":
		g, err = NewGeminiGenerator(ctx, cfg)
	case "anthropic":
		g = NewAnthropicGenerator(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return NewLimited(g, cc.RPM, cc.QPS, time.Duration(cfg.Timeout)*time.Second), nil
}
