package throttle

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Throttle 同一来源顺序调用之间的节流策略
type Throttle interface {
	// Wait 阻塞到允许下一次调用，ctx 取消时返回其错误
	Wait(ctx context.Context) error
}

// Factory 为每次运行的每个适配器创建新的节流器
type Factory func() Throttle

// Interval 固定间隔节流：第一次立即放行，之后每次间隔 d
type Interval struct {
	limiter *rate.Limiter
}

// NewInterval 创建固定间隔节流器，d <= 0 时不节流
func NewInterval(d time.Duration) *Interval {
	if d <= 0 {
		return &Interval{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Interval{limiter: rate.NewLimiter(rate.Every(d), 1)}
}

// Wait 实现 Throttle。
// 等待会越过 ctx 截止时间时立即返回包装了 context.DeadlineExceeded 的错误。
func (i *Interval) Wait(ctx context.Context) error {
	if err := i.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return nil
}

// IntervalFactory 返回每次生成独立 Interval 的工厂
func IntervalFactory(d time.Duration) Factory {
	return func() Throttle { return NewInterval(d) }
}

type none struct{}

func (none) Wait(ctx context.Context) error { return ctx.Err() }

// None 不做任何等待，只检查 ctx
func None() Throttle { return none{} }

// Each 按顺序对 items 调用 fn，每次调用前等待 t。
// ctx 取消或 fn 返回错误时停止，返回已成功处理的个数和该错误。
func Each[T any](ctx context.Context, t Throttle, items []T, fn func(ctx context.Context, item T) error) (int, error) {
	if t == nil {
		t = None()
	}
	done := 0
	for _, item := range items {
		if err := t.Wait(ctx); err != nil {
			return done, err
		}
		if err := fn(ctx, item); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}
