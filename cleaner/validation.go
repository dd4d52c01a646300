package cleaner

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/socialmux/cleanser/model"
	Logger "github.com/socialmux/cleanser/utils/log"
)

// ValidateNotification rejects a notification before any I/O happens.
func ValidateNotification(notification *model.RawDataNotification) error {
	validators := []func(*model.RawDataNotification) error{
		notificationFieldsValidation,
		notificationPlatformValidation,
	}
	for _, validate := range validators {
		if err := validate(notification); err != nil {
			return err
		}
	}
	return nil
}

func notificationFieldsValidation(notification *model.RawDataNotification) error {
	if notification == nil {
		return errors.New("data validation error: notification is nil")
	}
	if notification.RawDataId == "" {
		return errors.New("data validation error: required field rawDataId is empty")
	}
	if notification.SourceType == "" {
		return errors.New("data validation error: required field sourceType is empty")
	}
	return nil
}

func notificationPlatformValidation(notification *model.RawDataNotification) error {
	// The declared source type must indicate the platform this pipeline
	// understands, the platform field alone is not trusted.
	if !strings.Contains(notification.SourceType, model.SourcePlatformWeibo) {
		return errors.Errorf(
			"data validation error: source type %q is not a %s source",
			notification.SourceType, model.SourcePlatformWeibo)
	}
	if notification.SourcePlatform != "" && notification.SourcePlatform != model.SourcePlatformWeibo {
		return errors.Errorf(
			"data validation error: unsupported source platform %q", notification.SourcePlatform)
	}
	return nil
}

// lowQualityPostRatioLimit fails a cleaning run when more than half of the
// retained posts score below the low watermark.
const (
	lowQualityScoreWatermark = 0.3
	lowQualityPostRatioLimit = 0.5
)

// ValidateNormalizedContent decides whether a normalized aggregate is worth
// persisting. The low watermark rule is fatal, posts below the configured
// quality threshold and invalid timestamps are logged, not fatal.
func ValidateNormalizedContent(content *model.NormalizedContent, qualityThreshold float64) error {
	if content == nil {
		return errors.New("data validation error: normalized content is nil")
	}
	if len(content.Posts) == 0 {
		return errors.New("data validation error: normalized content has no posts")
	}
	if len(content.Users) == 0 {
		return errors.New("data validation error: normalized content has no users")
	}

	lowQuality := 0
	for _, post := range content.Posts {
		if post.Quality.Score < lowQualityScoreWatermark {
			lowQuality++
		}
	}
	if ratio := float64(lowQuality) / float64(len(content.Posts)); ratio > lowQualityPostRatioLimit {
		return errors.Errorf(
			"data validation error: %d of %d posts score below %.1f",
			lowQuality, len(content.Posts), lowQualityScoreWatermark)
	}

	if qualityThreshold > 0 {
		belowThreshold := 0
		for _, post := range content.Posts {
			if post.Quality.Score < qualityThreshold {
				belowThreshold++
			}
		}
		if belowThreshold > 0 {
			Logger.Log.Warnf("%d of %d posts score below the configured quality threshold %.2f",
				belowThreshold, len(content.Posts), qualityThreshold)
		}
	}

	for _, post := range content.Posts {
		if post.Timing.CreatedAt.IsZero() || post.Timing.CreatedAt.After(time.Now().Add(24*time.Hour)) {
			Logger.Log.Warnf("post %s carries an invalid timestamp %v", post.Mid, post.Timing.CreatedAt)
		}
	}
	return nil
}
