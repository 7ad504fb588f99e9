package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
)

func TestNewGeneratorUnconfigured(t *testing.T) {
	_, err := NewGenerator(context.Background(), config.LLMConfig{Provider: "openai"}, config.ConcurrencyConfig{})
	if !errors.Is(err, ErrUnconfigured) {
		t.Fatalf("err = %v, want ErrUnconfigured", err)
	}
}

func TestNewGeneratorUnknownProvider(t *testing.T) {
	_, err := NewGenerator(context.Background(), config.LLMConfig{Provider: "nope", APIKey: "k"}, config.ConcurrencyConfig{})
	if err == nil || errors.Is(err, ErrUnconfigured) {
		t.Fatalf("err = %v, want unknown provider error", err)
	}
}

func TestNewGeneratorAnthropic(t *testing.T) {
	g, err := NewGenerator(context.Background(), config.LLMConfig{Provider: "anthropic", APIKey: "k"}, config.ConcurrencyConfig{RPM: 60, QPS: 1})
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if _, ok := g.(*Limited); !ok {
		t.Errorf("generator %T is not rate limited", g)
	}
}
