package repo

import (
	"context"

	"github.com/iWorld-y/market_radar/app/display/internal/domain"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

// ReportRepo 报表仓库接口
type ReportRepo interface {
	// ListReports 分页获取报表摘要列表
	ListReports(ctx context.Context, page, pageSize int) ([]*domain.ReportSummary, int, error)
	// GetReport 根据 run id 获取完整报告，不存在时返回 NotFound
	GetReport(ctx context.Context, runID string) (*model.Report, error)
}
