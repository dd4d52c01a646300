package model

import "time"

type AggregateQuality struct {
	// Overall is the mean of post quality scores.
	Overall float64 `json:"overall"`
	// Completeness is the mean of post completeness ratios.
	Completeness float64 `json:"completeness"`
	// Freshness is the mean of per-post max(0, 1 - hoursSinceCreation/24).
	Freshness float64 `json:"freshness"`
	// Reliability = 0.6 * verifiedUserRatio + 0.4 * Completeness.
	Reliability float64 `json:"reliability"`
}

type ContentCounts struct {
	Posts    int `json:"posts"`
	Users    int `json:"users"`
	Comments int `json:"comments"`
	Media    int `json:"media"`
	// DroppedCards counts cards removed by deduplication and the acceptance
	// score filter.
	DroppedCards int `json:"droppedCards"`
}

type ContentMetadata struct {
	ParsedAt       time.Time        `json:"parsedAt"`
	ParserVersion  string           `json:"parserVersion"`
	Method         string           `json:"method"`
	Quality        AggregateQuality `json:"quality"`
	Counts         ContentCounts    `json:"counts"`
	DurationMs     int64            `json:"durationMs"`
	AppliedFilters []string         `json:"appliedFilters"`
}

// NormalizedContent is the aggregate produced from one raw search-result
// record. Posts keep source order, Users are deduplicated by id.
type NormalizedContent struct {
	Posts    []*Post         `json:"posts"`
	Users    []*User         `json:"users"`
	Comments []*Comment      `json:"comments"`
	Media    []*MediaItem    `json:"media"`
	Metadata ContentMetadata `json:"metadata"`
}
