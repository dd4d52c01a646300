package model

import "time"

// Quality bucket boundaries for the result histogram.
const (
	QualityBucketHighMin   = 0.8
	QualityBucketMediumMin = 0.6
)

type QualityReport struct {
	High      int     `json:"high"`
	Medium    int     `json:"medium"`
	Low       int     `json:"low"`
	MeanScore float64 `json:"meanScore"`
}

type PerformanceReport struct {
	ElapsedMs int64 `json:"elapsedMs"`
	// AvgItemMs is the mean wall time spent per processed item.
	AvgItemMs float64 `json:"avgItemMs"`
	// Throughput is processed items per second.
	Throughput float64 `json:"throughput"`
}

type ResultMetadata struct {
	CleaningId string          `json:"cleaningId"`
	Timestamp  time.Time       `json:"timestamp"`
	Version    string          `json:"version"`
	Options    CleaningOptions `json:"options"`
}

// CleaningResult summarizes one cleaning run. Batch cleaning produces one
// CleaningResult per input id, failure-shaped entries have Success false and
// Error populated.
type CleaningResult struct {
	Success   bool   `json:"success"`
	RawDataId string `json:"rawDataId"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
	Skipped   int    `json:"skipped"`

	Quality     QualityReport     `json:"quality"`
	Performance PerformanceReport `json:"performance"`
	Metadata    ResultMetadata    `json:"metadata"`

	Error string `json:"error,omitempty"`
}
