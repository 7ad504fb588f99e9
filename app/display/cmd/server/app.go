package main

import (
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/market_radar/app/display/internal/conf"
	"github.com/iWorld-y/market_radar/app/display/internal/data"
	"github.com/iWorld-y/market_radar/app/display/internal/server"
	"github.com/iWorld-y/market_radar/app/display/internal/service"
	"github.com/iWorld-y/market_radar/app/display/internal/usecase"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/engine"
)

// initApp 手工装配 data -> engine -> usecase -> service -> server
func initApp(cs *conf.Server, cd *conf.Data, cr *conf.Radar, logger log.Logger) (*kratos.App, func(), error) {
	ttl, err := cacheTTL(cd)
	if err != nil {
		return nil, nil, err
	}
	d, cleanupData, err := data.NewData(cd, logger)
	if err != nil {
		return nil, nil, err
	}

	var store engine.ReportStore
	if s := d.Store(); s != nil {
		store = s
	}
	eng, cleanupEngine, err := server.NewRadarEngine(cr, store, logger)
	if err != nil {
		cleanupData()
		return nil, nil, err
	}

	reports := usecase.NewReportUseCase(data.NewReportRepo(d, logger), ttl, logger)
	intel := usecase.NewIntelligenceUseCase(eng, reports, logger)
	svc := service.NewDisplayService(intel, reports, logger)
	hs := server.NewHTTPServer(cs, svc, logger)

	return newApp(logger, hs), func() {
		cleanupEngine()
		cleanupData()
	}, nil
}

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}

// cacheTTL 解析 data.cache_ttl，为空时返回 0 交给用例使用默认值
func cacheTTL(cd *conf.Data) (time.Duration, error) {
	if cd == nil || cd.CacheTTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(cd.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid data.cache_ttl %q: %w", cd.CacheTTL, err)
	}
	return ttl, nil
}
