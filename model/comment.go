package model

import (
	"time"

	"github.com/lib/pq"
)

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

type CommentEngagement struct {
	Likes   int64 `json:"likes"`
	Replies int64 `json:"replies"`
}

type CommentThreading struct {
	ReplyToCommentId string `json:"replyToCommentId"`
	// Depth 1 is a top level comment or a reply whose parent was not part of
	// the same extraction batch.
	Depth    int            `json:"depth"`
	ChildIds pq.StringArray `json:"childIds" gorm:"type:text[]"`
}

type CommentQuality struct {
	Score     float64 `json:"score"`
	Sentiment string  `json:"sentiment"`
	// SpamScore is in [0, 1], higher means more spam-like.
	SpamScore float64 `json:"spamScore"`
}

// Comment is a normalized comment attached to a Post of the same aggregate.
type Comment struct {
	Id     string `json:"id" gorm:"primaryKey"`
	PostId string `json:"postId" gorm:"index"`

	Content    PostContent       `json:"content" gorm:"embedded;embeddedPrefix:content_"`
	AuthorId   string            `json:"authorId"`
	CreatedAt  time.Time         `json:"createdAt"`
	Engagement CommentEngagement `json:"engagement" gorm:"embedded;embeddedPrefix:engagement_"`
	Threading  CommentThreading  `json:"threading" gorm:"embedded;embeddedPrefix:threading_"`
	Quality    CommentQuality    `json:"quality" gorm:"embedded;embeddedPrefix:quality_"`

	CleaningId string `json:"cleaningId" gorm:"index"`
}
