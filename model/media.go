package model

import (
	"time"

	"github.com/lib/pq"
)

const (
	MediaTypeImage   = "image"
	MediaTypeVideo   = "video"
	MediaTypeGif     = "gif"
	MediaTypeArticle = "article"
	MediaTypeLive    = "live"
)

type MediaUrls struct {
	Original  string `json:"original"`
	Thumbnail string `json:"thumbnail"`
	Medium    string `json:"medium"`
	Large     string `json:"large"`
}

type MediaMeta struct {
	Width  int64  `json:"width"`
	Height int64  `json:"height"`
	Format string `json:"format"`
	// DurationSeconds is only meaningful for video and live media.
	DurationSeconds float64 `json:"durationSeconds"`
}

// MediaAnalysis is best effort and may be entirely empty when media analysis
// is disabled or the analyzer has nothing to say.
type MediaAnalysis struct {
	Labels pq.StringArray `json:"labels" gorm:"type:text[]"`
}

// MediaItem is a normalized media attachment, identified by the provider
// assigned picture/video id.
type MediaItem struct {
	Id     string `json:"id" gorm:"primaryKey"`
	PostId string `json:"postId" gorm:"index"`
	Type   string `json:"type"`

	Urls     MediaUrls     `json:"urls" gorm:"embedded;embeddedPrefix:urls_"`
	Meta     MediaMeta     `json:"meta" gorm:"embedded;embeddedPrefix:meta_"`
	Analysis MediaAnalysis `json:"analysis" gorm:"embedded;embeddedPrefix:analysis_"`

	CleaningId string    `json:"cleaningId" gorm:"index"`
	CreatedAt  time.Time `json:"-"`
}
