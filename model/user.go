package model

import (
	"time"

	"github.com/lib/pq"
)

// Verification tier derived from the platform's numeric verified_type.
const (
	VerificationTierNone   = "none"
	VerificationTierYellow = "yellow"
	VerificationTierBlue   = "blue"
	VerificationTierRed    = "red"
)

const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderUnknown = "unknown"
)

type UserVerification struct {
	Verified bool `json:"verified"`
	// Raw numeric verified_type as reported by the platform.
	Type int64  `json:"type"`
	Tier string `json:"tier"`
}

type UserStats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Posts     int64 `json:"posts"`
}

type UserRelation struct {
	Following  bool `json:"following"`
	FollowedBy bool `json:"followedBy"`
}

type UserInfluence struct {
	// Score is in [0, 100].
	Score      float64        `json:"score"`
	Categories pq.StringArray `json:"categories" gorm:"type:text[]"`
}

// User is a normalized author profile. Users are deduplicated by Id within
// one normalization pass, first occurrence wins.
type User struct {
	Id          string `json:"id" gorm:"primaryKey"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	AvatarUrl   string `json:"avatarUrl"`
	AvatarHdUrl string `json:"avatarHdUrl"`

	Verification UserVerification `json:"verification" gorm:"embedded;embeddedPrefix:verification_"`
	Stats        UserStats        `json:"stats" gorm:"embedded;embeddedPrefix:stats_"`
	Gender       string           `json:"gender"`
	Location     string           `json:"location"`
	IsActive     bool             `json:"isActive"`
	Relation     UserRelation     `json:"relation" gorm:"embedded;embeddedPrefix:relation_"`
	Influence    UserInfluence    `json:"influence" gorm:"embedded;embeddedPrefix:influence_"`

	CleaningId string    `json:"cleaningId" gorm:"index"`
	CreatedAt  time.Time `json:"-"`
}
