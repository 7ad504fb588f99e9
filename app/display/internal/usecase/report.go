package usecase

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/patrickmn/go-cache"

	"github.com/iWorld-y/market_radar/app/display/internal/domain"
	"github.com/iWorld-y/market_radar/app/display/internal/repo"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

// DefaultCacheTTL 报告读缓存默认时长
const DefaultCacheTTL = 10 * time.Minute

// ReportUseCase 报表业务逻辑，报告生成后不再修改，按 run id 做读缓存
type ReportUseCase struct {
	repo  repo.ReportRepo
	cache *cache.Cache
	log   *log.Helper
}

// NewReportUseCase 创建报表业务逻辑实例，ttl <= 0 时使用默认值
func NewReportUseCase(repo repo.ReportRepo, ttl time.Duration, logger log.Logger) *ReportUseCase {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ReportUseCase{
		repo:  repo,
		cache: cache.New(ttl, 2*ttl),
		log:   log.NewHelper(logger),
	}
}

// List 分页列出报表摘要
func (uc *ReportUseCase) List(ctx context.Context, page, pageSize int) ([]*domain.ReportSummary, int, error) {
	return uc.repo.ListReports(ctx, page, pageSize)
}

// Get 根据 run id 获取报告，先查缓存
func (uc *ReportUseCase) Get(ctx context.Context, runID string) (*model.Report, error) {
	if v, ok := uc.cache.Get(runID); ok {
		return v.(*model.Report), nil
	}
	report, err := uc.repo.GetReport(ctx, runID)
	if err != nil {
		return nil, err
	}
	uc.cache.SetDefault(runID, report)
	return report, nil
}

// Remember 缓存刚生成的报告
func (uc *ReportUseCase) Remember(report *model.Report) {
	if report == nil || report.RunID == "" {
		return
	}
	uc.cache.SetDefault(report.RunID, report)
}
