package model

import "encoding/json"

type ReportType string

const (
	ReportSentimentBatch ReportType = "sentiment_batch"
	ReportFeedback       ReportType = "feedback"
)

// AnalysisReport records a batch analysis run. The full artifact (every
// per-item result) is written to object storage under ObjectKey; Summary
// keeps the aggregate inline for listing without a storage round trip.
// swagger:model AnalysisReport
type AnalysisReport struct {
	UUIDBase
	Type        ReportType      `gorm:"size:40;index" json:"type"`
	RequestedBy uint            `gorm:"index;type:bigint unsigned" json:"requestedBy"`
	ItemCount   int             `gorm:"default:0" json:"itemCount"`
	ObjectKey   string          `gorm:"size:255" json:"objectKey"`
	Summary     json.RawMessage `gorm:"type:json" json:"summary"`
}

func (AnalysisReport) TableName() string {
	return "analysis_reports"
}
