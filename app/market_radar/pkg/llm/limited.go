package llm

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/logger"
)

// Limited 为 Generator 增加限流、单次超时与 429 指数退避重试
type Limited struct {
	next       Generator
	limiter    *rate.Limiter
	timeout    time.Duration
	maxRetries int
	baseDelay  time.Duration
}

var _ Generator = (*Limited)(nil)

// NewLimited 按 RPM/QPS 限流，timeout <= 0 表示不设单次超时
func NewLimited(next Generator, rpm, qps int, timeout time.Duration) *Limited {
	if rpm <= 0 {
		rpm = 60
	}
	if qps <= 0 {
		qps = 1
	}
	return &Limited{
		next:       next,
		limiter:    rate.NewLimiter(rate.Limit(float64(rpm)/60.0), qps),
		timeout:    timeout,
		maxRetries: 3,
		baseDelay:  2 * time.Second,
	}
}

// Generate 实现 Generator
func (l *Limited) Generate(ctx context.Context, system, user string) (string, error) {
	var lastErr error
	for i := 0; i <= l.maxRetries; i++ {
		if err := l.limiter.Wait(ctx); err != nil {
			return "", err
		}

		out, err := l.call(ctx, system, user)
		if err == nil {
			return out, nil
		}
		if !isRateLimited(err) {
			return "", err
		}

		lastErr = err
		if i == l.maxRetries {
			break
		}
		delay := l.baseDelay * time.Duration(1<<i)
		logger.Log.Warnf("LLM 触发限流，%v 后重试 (%d/%d)", delay, i+1, l.maxRetries)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	return "", lastErr
}

func (l *Limited) call(ctx context.Context, system, user string) (string, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	return l.next.Generate(ctx, system, user)
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}
