package data

import (
	"context"
	"errors"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/market_radar/app/display/internal/domain"
	"github.com/iWorld-y/market_radar/app/display/internal/repo"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/storage"
)

type reportRepo struct {
	data *Data
	log  *log.Helper
}

func NewReportRepo(data *Data, logger log.Logger) repo.ReportRepo {
	return &reportRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *reportRepo) ListReports(ctx context.Context, page, pageSize int) ([]*domain.ReportSummary, int, error) {
	if r.data.store == nil {
		return []*domain.ReportSummary{}, 0, nil
	}

	rows, total, err := r.data.store.ListReports(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]*domain.ReportSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, &domain.ReportSummary{
			RunID:         row.RunID,
			CreatedAt:     row.CreatedAt.Format("2006-01-02 15:04:05"),
			Status:        row.Status,
			TotalQuotes:   row.TotalQuotes,
			PainIntensity: row.PainIntensity,
			Urgency:       row.Urgency,
		})
	}
	return summaries, total, nil
}

func (r *reportRepo) GetReport(ctx context.Context, runID string) (*model.Report, error) {
	if r.data.store == nil {
		return nil, kerrors.NotFound("REPORT_NOT_FOUND", "report not found")
	}

	report, err := r.data.store.GetReport(ctx, runID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, kerrors.NotFound("REPORT_NOT_FOUND", "report not found")
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}
