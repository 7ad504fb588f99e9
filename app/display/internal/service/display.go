package service

import (
	"strconv"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/market_radar/app/display/internal/domain"
	"github.com/iWorld-y/market_radar/app/display/internal/usecase"
)

type DisplayService struct {
	ucIntel  *usecase.IntelligenceUseCase
	ucReport *usecase.ReportUseCase
	log      *log.Helper
}

func NewDisplayService(ucIntel *usecase.IntelligenceUseCase, ucReport *usecase.ReportUseCase, logger log.Logger) *DisplayService {
	return &DisplayService{
		ucIntel:  ucIntel,
		ucReport: ucReport,
		log:      log.NewHelper(logger),
	}
}

// RegisterRoutes 注册 HTTP 路由
func (s *DisplayService) RegisterRoutes(srv *http.Server) {
	r := srv.Route("/")
	r.POST("/v1/intelligence", s.RunIntelligence)
	r.GET("/v1/reports", s.ListReports)
	r.GET("/v1/reports/{runId}", s.GetReport)
	r.GET("/healthz", s.Health)
}

func (s *DisplayService) RunIntelligence(ctx http.Context) error {
	var req domain.IntelligenceRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest("INVALID_BODY", err.Error())
	}
	report, err := s.ucIntel.Run(ctx, &req)
	if err != nil {
		return err
	}
	return ctx.Result(200, report)
}

func (s *DisplayService) ListReports(ctx http.Context) error {
	q := ctx.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if pageSize < 1 {
		pageSize = 10
	}

	reports, total, err := s.ucReport.List(ctx, page, pageSize)
	if err != nil {
		return err
	}
	return ctx.Result(200, &domain.ReportList{Reports: reports, Total: total})
}

func (s *DisplayService) GetReport(ctx http.Context) error {
	runID := ctx.Vars().Get("runId")
	if runID == "" {
		return errors.BadRequest("MISSING_RUN_ID", "run id is required")
	}
	report, err := s.ucReport.Get(ctx, runID)
	if err != nil {
		return err
	}
	return ctx.Result(200, report)
}

func (s *DisplayService) Health(ctx http.Context) error {
	return ctx.Result(200, map[string]string{"status": "ok"})
}
