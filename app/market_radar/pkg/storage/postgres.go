package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/config"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

// ErrNotFound 报告不存在
var ErrNotFound = errors.New("report not found")

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Storage 基于 postgres 的报告存储
type Storage struct {
	db *sql.DB
}

// New 按配置连接 postgres 并初始化表结构
func New(cfg config.DBConfig) (*Storage, error) {
	return Open("postgres", cfg.DSN())
}

// Open 使用指定驱动和连接串打开数据库并初始化表结构
func Open(driver, dsn string) (*Storage, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := NewWithDB(db)
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// NewWithDB 使用已建立的连接，调用方负责建表
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Close 关闭连接
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS market_reports (
			run_id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			total_quotes INTEGER NOT NULL DEFAULT 0,
			pain_intensity INTEGER NOT NULL DEFAULT 0,
			urgency TEXT NOT NULL DEFAULT 'low',
			reasoning TEXT,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS report_quotes (
			id SERIAL PRIMARY KEY,
			run_id TEXT NOT NULL REFERENCES market_reports(run_id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			quote_id TEXT,
			text TEXT NOT NULL,
			source TEXT NOT NULL,
			sub_source TEXT,
			url TEXT,
			relevance_score INTEGER NOT NULL,
			emotional_tone TEXT,
			is_real_quote BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_market_reports_created_at ON market_reports (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_report_quotes_run_id ON report_quotes (run_id)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}
	return nil
}

// SaveReport 在一个事务内保存报告及其片段
func (s *Storage) SaveReport(ctx context.Context, report *model.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO market_reports (run_id, status, total_quotes, pain_intensity, urgency, reasoning, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		report.RunID, report.Status, report.SourceStats.TotalQuotes, report.Sentiment.PainIntensity,
		report.Sentiment.Urgency, report.Reasoning, payload, report.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	for i, q := range report.Quotes {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO report_quotes (run_id, position, quote_id, text, source, sub_source, url, relevance_score, emotional_tone, is_real_quote)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			report.RunID, i, q.ID, q.Text, q.Source, q.SubSource, q.URL, q.RelevanceScore, q.EmotionalTone, q.IsRealQuote)
		if err != nil {
			return fmt.Errorf("failed to insert quote: %w", err)
		}
	}

	return tx.Commit()
}

// GetReport 按 run id 读取完整报告，不存在时返回 ErrNotFound
func (s *Storage) GetReport(ctx context.Context, runID string) (*model.Report, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM market_reports WHERE run_id = $1`, runID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report %s: %w", runID, err)
	}
	return &report, nil
}

// ListReports 按创建时间倒序分页列出报告摘要，page 从 1 开始
func (s *Storage) ListReports(ctx context.Context, page, pageSize int) ([]model.ReportSummary, int, error) {
	limit, offset := Paginate(page, pageSize)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM market_reports`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, created_at, status, total_quotes, pain_intensity, urgency
		FROM market_reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	summaries := make([]model.ReportSummary, 0, limit)
	for rows.Next() {
		var sum model.ReportSummary
		if err := rows.Scan(&sum.RunID, &sum.CreatedAt, &sum.Status, &sum.TotalQuotes, &sum.PainIntensity, &sum.Urgency); err != nil {
			return nil, 0, fmt.Errorf("failed to scan report: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

// Paginate 把页码换算为 LIMIT/OFFSET
func Paginate(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize <= 0:
		pageSize = defaultPageSize
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	}
	return pageSize, (page - 1) * pageSize
}
