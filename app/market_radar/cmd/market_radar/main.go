package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/engine"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/logger"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/storage"
)

var (
	flagConf    string
	flagProfile string
	flagCount   int
	flagOut     string
)

func init() {
	flag.StringVar(&flagConf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
	flag.StringVar(&flagProfile, "profile", "", "customer profile file (yaml or json)")
	flag.IntVar(&flagCount, "count", 0, "number of quotes to keep, 0 uses pipeline.requested_count")
	flag.StringVar(&flagOut, "out", "", "write the report to this file instead of stdout")
}

func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.LoadConfig(flagConf)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}

	// 2. 初始化日志
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File, cfg.Log.FileOptions()); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}

	profile, err := loadProfile(flagProfile)
	if err != nil {
		logger.Log.Fatalf("无法加载客户画像: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. 数据库可选，连接失败只影响持久化
	var store engine.ReportStore
	if cfg.DB.Enabled() {
		s, err := storage.New(cfg.DB)
		if err != nil {
			logger.Log.Errorf("无法连接数据库: %v. 报告将只输出到文件。", err)
		} else {
			defer s.Close()
			store = s
			logger.Log.Info("已成功连接到数据库")
		}
	} else {
		logger.Log.Info("未配置数据库信息，跳过数据库连接")
	}

	// 4. 运行流水线
	eng, err := engine.NewFromConfig(ctx, cfg, store)
	if err != nil {
		logger.Log.Fatalf("引擎初始化失败: %v", err)
	}
	report, err := eng.RunMarketIntelligence(ctx, profile, flagCount)
	if err != nil {
		logger.Log.Fatalf("运行失败: %v", err)
	}

	// 5. 输出报告
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Log.Fatalf("序列化报告失败: %v", err)
	}
	if flagOut == "" {
		fmt.Println(string(data))
		return
	}
	if dir := filepath.Dir(flagOut); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Log.Fatalf("无法创建输出目录: %v", err)
		}
	}
	if err := os.WriteFile(flagOut, data, 0o644); err != nil {
		logger.Log.Fatalf("写入报告失败: %v", err)
	}
	logger.Log.Infof("报告已写入: %s (run %s, %d 条)", flagOut, report.RunID, len(report.Quotes))
}

// loadProfile 按扩展名解析 json 或 yaml 画像
func loadProfile(path string) (model.Profile, error) {
	var p model.Profile
	if path == "" {
		return p, fmt.Errorf("missing -profile")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &p)
	} else {
		err = yaml.Unmarshal(data, &p)
	}
	if err != nil {
		return p, fmt.Errorf("parse %s: %w", path, err)
	}
	return p, nil
}
