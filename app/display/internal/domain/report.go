package domain

import "github.com/iWorld-y/market_radar/app/market_radar/pkg/model"

// IntelligenceRequest 一次调研请求
type IntelligenceRequest struct {
	Profile        model.Profile `json:"profile"`
	RequestedCount int           `json:"requestedCount"`
}

// ReportSummary 报表摘要信息
type ReportSummary struct {
	RunID         string             `json:"runId"`
	CreatedAt     string             `json:"createdAt"`
	Status        model.ReportStatus `json:"status"`
	TotalQuotes   int                `json:"totalQuotes"`
	PainIntensity int                `json:"painIntensity"`
	Urgency       model.Urgency      `json:"urgency"`
}

// ReportList 分页结果
type ReportList struct {
	Reports []*ReportSummary `json:"reports"`
	Total   int              `json:"total"`
}
