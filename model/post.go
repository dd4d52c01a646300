package model

import (
	"time"

	"github.com/lib/pq"
)

/*

Post is a single normalized Weibo status extracted from a raw search-result
payload.

Id: the record id assigned by the platform
Mid: the message id assigned by the platform. Two cards can carry the same Id
	under different framing, the Mid is the authoritative deduplication key.

Content: raw text plus all semantic sub-content extracted from it
AuthorId: reference into the deduplicated User set of the same aggregate
Metrics: engagement counters as reported by the source
Timing: absolute creation instant plus its ISO and human-relative renderings
MediaIds: references into the MediaItem set of the same aggregate
Interaction: repost linkage. OriginalPost is resolved recursively and is nil
	beyond the configured recursion depth.
Quality: scoring block, always clamped to [0,1]

CleaningId: the cleaning run that produced this row
*/

type PostContent struct {
	Raw      string         `json:"raw"`
	Cleaned  string         `json:"cleaned"`
	Hashtags pq.StringArray `json:"hashtags" gorm:"type:text[]"`
	Mentions pq.StringArray `json:"mentions" gorm:"type:text[]"`
	Links    pq.StringArray `json:"links" gorm:"type:text[]"`
	Emojis   pq.StringArray `json:"emojis" gorm:"type:text[]"`
}

type PostMetrics struct {
	Reposts  int64  `json:"reposts"`
	Comments int64  `json:"comments"`
	Likes    int64  `json:"likes"`
	Views    *int64 `json:"views,omitempty"`
}

// Total is the sum of all always-present engagement counters. Views is
// excluded because most payloads do not carry it.
func (m PostMetrics) Total() int64 {
	return m.Reposts + m.Comments + m.Likes
}

type PostTiming struct {
	CreatedAt time.Time `json:"createdAt"`
	// ISO-8601 rendering of CreatedAt, empty when timestamp standardization
	// is disabled.
	CreatedAtISO string `json:"createdAtIso"`
	// Human-relative rendering, e.g. "3分钟前".
	CreatedAtDisplay string `json:"createdAtDisplay"`
}

type PostLocation struct {
	Name string `json:"name"`
}

func (l PostLocation) IsZero() bool {
	return l.Name == ""
}

type PostInteraction struct {
	IsRepost        bool    `json:"isRepost"`
	OriginalPostMid *string `json:"originalPostMid,omitempty"`
	// The fully resolved original post of a repost chain. Not persisted as a
	// column, the original is persisted as its own Post row.
	OriginalPost *Post `json:"originalPost,omitempty" gorm:"-"`
}

type PostEngagement struct {
	IsHot    bool `json:"isHot"`
	IsPinned bool `json:"isPinned"`
}

type PostQuality struct {
	Score        float64        `json:"score"`
	Completeness float64        `json:"completeness"`
	Issues       pq.StringArray `json:"issues" gorm:"type:text[]"`
}

type Post struct {
	Id  string `json:"id" gorm:"primaryKey"`
	Mid string `json:"mid" gorm:"index"`

	Content     PostContent     `json:"content" gorm:"embedded;embeddedPrefix:content_"`
	AuthorId    string          `json:"authorId"`
	Metrics     PostMetrics     `json:"metrics" gorm:"embedded;embeddedPrefix:metrics_"`
	Timing      PostTiming      `json:"timing" gorm:"embedded;embeddedPrefix:timing_"`
	MediaIds    pq.StringArray  `json:"mediaIds" gorm:"type:text[]"`
	Location    PostLocation    `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	Source      string          `json:"source"`
	Interaction PostInteraction `json:"interaction" gorm:"embedded;embeddedPrefix:interaction_"`
	Engagement  PostEngagement  `json:"engagement" gorm:"embedded;embeddedPrefix:engagement_"`
	Quality     PostQuality     `json:"quality" gorm:"embedded;embeddedPrefix:quality_"`

	CleaningId string    `json:"cleaningId" gorm:"index"`
	CreatedAt  time.Time `json:"-"`
}
