package engine

const (
	// Notification consumed from the queue, waiting to be cleaned.
	TopicPendingNotification = "topic.pending_notification"
	// Result of a finished cleaning run, consumed by the reporter.
	TopicCleaningResult = "topic.cleaning_result"

	DdogCleaningResultCounter = "cleanser.cleaning.result"
	DdogCleaningPostsCounter  = "cleanser.cleaning.posts"
)
