package model

import "time"

// Raw record lifecycle states in the raw-data store.
const (
	RawDataStatusPending   = "pending"
	RawDataStatusProcessed = "processed"
	RawDataStatusFailed    = "failed"
)

// RawData is one stored raw search-result record as fetched from the
// raw-data store. RawContent is kept loosely typed: depending on the
// collector version it is either the serialized payload or an already
// decoded document.
type RawData struct {
	Id          string                 `json:"id" bson:"_id"`
	RawContent  interface{}            `json:"rawContent" bson:"raw_content"`
	Metadata    map[string]interface{} `json:"metadata" bson:"metadata"`
	Status      string                 `json:"status" bson:"status"`
	CollectedAt time.Time              `json:"collectedAt" bson:"collected_at"`
}
