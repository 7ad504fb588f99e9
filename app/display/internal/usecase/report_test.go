package usecase

import (
	"context"
	"errors"
	"testing"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/market_radar/app/display/internal/domain"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

// mockReportRepo 模拟报表仓库
type mockReportRepo struct {
	reports map[string]*model.Report
	gets    int
}

func (m *mockReportRepo) ListReports(ctx context.Context, page, pageSize int) ([]*domain.ReportSummary, int, error) {
	return []*domain.ReportSummary{{RunID: "run-1", Status: model.StatusAligned}}, 1, nil
}

func (m *mockReportRepo) GetReport(ctx context.Context, runID string) (*model.Report, error) {
	m.gets++
	if r, ok := m.reports[runID]; ok {
		return r, nil
	}
	return nil, kerrors.NotFound("REPORT_NOT_FOUND", "report not found")
}

type runnerFunc func(ctx context.Context, p model.Profile, n int) (*model.Report, error)

func (f runnerFunc) RunMarketIntelligence(ctx context.Context, p model.Profile, n int) (*model.Report, error) {
	return f(ctx, p, n)
}

func TestReportUseCase_List(t *testing.T) {
	uc := NewReportUseCase(&mockReportRepo{}, 0, log.DefaultLogger)

	reports, total, err := uc.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, reports, 1)
	assert.Equal(t, "run-1", reports[0].RunID)
}

func TestReportUseCase_GetReadsThroughCache(t *testing.T) {
	repo := &mockReportRepo{reports: map[string]*model.Report{"run-1": {RunID: "run-1"}}}
	uc := NewReportUseCase(repo, 0, log.DefaultLogger)

	for i := 0; i < 3; i++ {
		r, err := uc.Get(context.Background(), "run-1")
		require.NoError(t, err)
		assert.Equal(t, "run-1", r.RunID)
	}
	assert.Equal(t, 1, repo.gets)

	_, err := uc.Get(context.Background(), "missing")
	assert.True(t, kerrors.IsNotFound(err))
}

func TestIntelligenceUseCase_Run(t *testing.T) {
	repo := &mockReportRepo{}
	reports := NewReportUseCase(repo, 0, log.DefaultLogger)
	var gotCount int
	uc := NewIntelligenceUseCase(runnerFunc(func(_ context.Context, p model.Profile, n int) (*model.Report, error) {
		gotCount = n
		return &model.Report{RunID: "run-9", Status: model.StatusEmpty, Quotes: []model.ScoredCandidate{}}, nil
	}), reports, log.DefaultLogger)

	r, err := uc.Run(context.Background(), &domain.IntelligenceRequest{Profile: model.Profile{Audience: "x"}, RequestedCount: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, gotCount)
	assert.Equal(t, "run-9", r.RunID)

	// 刚生成的报告不需要访问仓库
	cached, err := reports.Get(context.Background(), "run-9")
	require.NoError(t, err)
	assert.Same(t, r, cached)
	assert.Equal(t, 0, repo.gets)
}

func TestIntelligenceUseCase_Errors(t *testing.T) {
	reports := NewReportUseCase(&mockReportRepo{}, 0, log.DefaultLogger)

	invalid := NewIntelligenceUseCase(runnerFunc(func(context.Context, model.Profile, int) (*model.Report, error) {
		return nil, model.ErrInvalidProfile
	}), reports, log.DefaultLogger)
	_, err := invalid.Run(context.Background(), &domain.IntelligenceRequest{})
	assert.True(t, kerrors.IsBadRequest(err))
	assert.Equal(t, "INVALID_PROFILE", kerrors.Reason(err))

	_, err = invalid.Run(context.Background(), &domain.IntelligenceRequest{RequestedCount: -1})
	assert.Equal(t, "INVALID_COUNT", kerrors.Reason(err))

	broken := NewIntelligenceUseCase(runnerFunc(func(context.Context, model.Profile, int) (*model.Report, error) {
		return nil, errors.New("boom")
	}), reports, log.DefaultLogger)
	_, err = broken.Run(context.Background(), &domain.IntelligenceRequest{Profile: model.Profile{Audience: "x"}})
	assert.True(t, kerrors.IsInternalServer(err))

	missing := NewIntelligenceUseCase(nil, reports, log.DefaultLogger)
	_, err = missing.Run(context.Background(), &domain.IntelligenceRequest{})
	assert.True(t, kerrors.IsServiceUnavailable(err))
}
