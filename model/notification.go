package model

import "time"

// Source type and platform the cleaning pipeline accepts. Notifications for
// any other platform are rejected before doing any I/O.
const (
	SourceTypeWeiboSearch = "weibo_search_result"
	SourcePlatformWeibo   = "weibo"
)

type NotificationMetadata struct {
	TaskId   string `json:"taskId"`
	Keyword  string `json:"keyword"`
	FileSize int64  `json:"fileSize"`
}

// RawDataNotification announces that one raw record is ready to be cleaned.
// It is consumed from the message queue by an external collaborator and
// handed to the orchestrator as-is.
type RawDataNotification struct {
	RawDataId      string               `json:"rawDataId"`
	SourceType     string               `json:"sourceType"`
	SourcePlatform string               `json:"sourcePlatform"`
	SourceUrl      string               `json:"sourceUrl"`
	ContentHash    string               `json:"contentHash"`
	Metadata       NotificationMetadata `json:"metadata"`
	CreatedAt      string               `json:"createdAt"`
}

// CompletionEvent is published (best effort) to the external event channel
// once a cleaning run finishes.
type CompletionEvent struct {
	RawDataId      string          `json:"rawDataId"`
	SourceType     string          `json:"sourceType"`
	SourcePlatform string          `json:"sourcePlatform"`
	CleaningId     string          `json:"cleaningId"`
	Result         *CleaningResult `json:"result"`
	Timestamp      time.Time       `json:"timestamp"`
}
