package usecase

import (
	"context"
	"errors"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/market_radar/app/display/internal/domain"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

// Runner 流水线入口
type Runner interface {
	RunMarketIntelligence(ctx context.Context, profile model.Profile, requestedCount int) (*model.Report, error)
}

// IntelligenceUseCase 发起调研
type IntelligenceUseCase struct {
	runner  Runner
	reports *ReportUseCase
	log     *log.Helper
}

func NewIntelligenceUseCase(runner Runner, reports *ReportUseCase, logger log.Logger) *IntelligenceUseCase {
	return &IntelligenceUseCase{runner: runner, reports: reports, log: log.NewHelper(logger)}
}

// Run 同步执行一次调研，画像无效时返回 400
func (uc *IntelligenceUseCase) Run(ctx context.Context, req *domain.IntelligenceRequest) (*model.Report, error) {
	if uc.runner == nil {
		return nil, kerrors.ServiceUnavailable("RADAR_UNAVAILABLE", "market radar engine is not configured")
	}
	if req.RequestedCount < 0 {
		return nil, kerrors.BadRequest("INVALID_COUNT", "requestedCount must not be negative")
	}

	report, err := uc.runner.RunMarketIntelligence(ctx, req.Profile, req.RequestedCount)
	if errors.Is(err, model.ErrInvalidProfile) {
		return nil, kerrors.BadRequest("INVALID_PROFILE", err.Error())
	}
	if err != nil {
		uc.log.WithContext(ctx).Errorf("run market intelligence: %v", err)
		return nil, kerrors.InternalServer("RUN_FAILED", "market intelligence run failed")
	}

	uc.log.WithContext(ctx).Infof("report %s: %d quotes, status %s", report.RunID, len(report.Quotes), report.Status)
	uc.reports.Remember(report)
	return report, nil
}
