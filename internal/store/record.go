package store

import (
	"time"

	"github.com/climatesense/climatesense/internal/risk"
	"github.com/climatesense/climatesense/internal/weather"
)

// Record is one completed monitoring cycle's full output. Records are
// immutable once appended; the dashboard reads them across the process
// boundary, so field names are part of the on-disk contract.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	City      string    `json:"city"`

	Report          risk.Report `json:"risk_report"`
	Recommendations string      `json:"recommendations"`
	NewsSummary     string      `json:"analyzed_news"`
	Consistency     string      `json:"consistency_note"`

	Snapshot weather.Snapshot       `json:"raw_data"`
	Forecast []weather.DailySummary `json:"forecast_daily"`
	UVIndex  *float64               `json:"uv_index,omitempty"`
}
