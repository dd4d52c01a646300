package cleaner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/socialmux/cleanser/model"
	"github.com/socialmux/cleanser/normalizer"
	"github.com/socialmux/cleanser/sink"
	"github.com/socialmux/cleanser/store"
	"github.com/socialmux/cleanser/utils"
	Logger "github.com/socialmux/cleanser/utils/log"
)

// PipelineVersion is stamped into every CleaningResult.
const PipelineVersion = "1.0.0"

// Orchestrator drives the single-record cleaning pipeline and the chunked
// batch pipeline on top of it. All collaborators are injected, there is no
// process-wide state, so one Orchestrator can serve concurrent calls.
type Orchestrator struct {
	RawStore     store.RawStore
	ContentStore store.ContentStore
	Sink         sink.CompletionSink
	Duplicates   DuplicateChecker
	Options      model.CleaningOptions
}

func NewOrchestrator(
	rawStore store.RawStore,
	contentStore store.ContentStore,
	completionSink sink.CompletionSink,
	duplicates DuplicateChecker,
	options model.CleaningOptions,
) *Orchestrator {
	if duplicates == nil {
		duplicates = NoopDuplicateChecker{}
	}
	return &Orchestrator{
		RawStore:     rawStore,
		ContentStore: contentStore,
		Sink:         completionSink,
		Duplicates:   duplicates,
		Options:      options.Normalize(),
	}
}

// Clean runs the full pipeline for one notification. On fatal failure the
// raw record is marked failed (best effort) and a CleaningError is returned.
func (o *Orchestrator) Clean(ctx context.Context, notification *model.RawDataNotification) (*model.CleaningResult, error) {
	return o.CleanWithOptions(ctx, notification, o.Options)
}

func (o *Orchestrator) CleanWithOptions(ctx context.Context, notification *model.RawDataNotification, options model.CleaningOptions) (*model.CleaningResult, error) {
	options = options.Normalize()
	cleaningId := uuid.New().String()
	start := time.Now()

	// Validation happens before any I/O, so a rejected notification never
	// touches the raw-data store.
	if err := ValidateNotification(notification); err != nil {
		return nil, newCleaningError(cleaningId, notification, err)
	}

	Logger.Log.Infof("cleaning %s started for raw data %s", cleaningId, notification.RawDataId)

	rawData, err := o.RawStore.FetchById(ctx, notification.RawDataId)
	if err != nil {
		return nil, o.failFatal(ctx, cleaningId, notification, err)
	}
	if rawData == nil {
		return nil, o.failFatal(ctx, cleaningId, notification,
			errors.Errorf("storage error: raw data %s not found", notification.RawDataId))
	}

	if options.EnableDuplicateDetection {
		contentHash := notification.ContentHash
		if contentHash == "" {
			if serialized, ok := rawData.RawContent.(string); ok {
				contentHash = utils.TextToMd5Hash(serialized)
			}
		}
		duplicate, err := o.Duplicates.IsDuplicate(ctx, contentHash)
		if err != nil {
			// Duplicate detection is best effort, a broken checker must not
			// block cleaning.
			Logger.Log.Warnf("cleaning %s: duplicate check failed: %v", cleaningId, err)
		} else if duplicate {
			return nil, o.failFatal(ctx, cleaningId, notification,
				errors.Errorf("duplicate content detected for hash %s", contentHash))
		}
	}

	contentNormalizer := normalizer.NewContentNormalizer(normalizer.ConfigFromOptions(options))
	content, err := contentNormalizer.Normalize(rawData.RawContent)
	if err != nil {
		return nil, o.failFatal(ctx, cleaningId, notification, err)
	}

	if options.EnableDataValidation {
		if err := ValidateNormalizedContent(content, options.QualityThreshold); err != nil {
			return nil, o.failFatal(ctx, cleaningId, notification, err)
		}
	}

	if err := o.ContentStore.SaveNormalizedContent(ctx, cleaningId, content); err != nil {
		return nil, o.failFatal(ctx, cleaningId, notification, err)
	}

	result := buildResult(cleaningId, notification.RawDataId, content, options, time.Since(start))

	o.publishCompletion(ctx, cleaningId, notification, result)
	if err := o.RawStore.UpdateStatus(ctx, notification.RawDataId, model.RawDataStatusProcessed); err != nil {
		Logger.Log.Warnf("cleaning %s: failed to mark raw data %s processed: %v",
			cleaningId, notification.RawDataId, err)
	}

	Logger.Log.Infof("cleaning %s finished: %d posts, %d users, %d comments in %dms",
		cleaningId, len(content.Posts), len(content.Users), len(content.Comments),
		result.Performance.ElapsedMs)
	return result, nil
}

func (o *Orchestrator) failFatal(ctx context.Context, cleaningId string, notification *model.RawDataNotification, cause error) error {
	if err := o.RawStore.UpdateStatus(ctx, notification.RawDataId, model.RawDataStatusFailed); err != nil {
		Logger.Log.Warnf("cleaning %s: failed to mark raw data %s failed: %v",
			cleaningId, notification.RawDataId, err)
	}
	cleaningErr := newCleaningError(cleaningId, notification, cause)
	Logger.Log.Error(cleaningErr.Error())
	return cleaningErr
}

// publishCompletion is best effort, an unreachable event channel is logged
// and never fails the run.
func (o *Orchestrator) publishCompletion(ctx context.Context, cleaningId string, notification *model.RawDataNotification, result *model.CleaningResult) {
	if o.Sink == nil {
		return
	}
	if !o.Sink.Healthy() {
		Logger.Log.Warnf("cleaning %s: completion sink unhealthy, dropping event", cleaningId)
		return
	}
	event := &model.CompletionEvent{
		RawDataId:      notification.RawDataId,
		SourceType:     notification.SourceType,
		SourcePlatform: notification.SourcePlatform,
		CleaningId:     cleaningId,
		Result:         result,
		Timestamp:      time.Now(),
	}
	if err := o.Sink.Push(ctx, event); err != nil {
		Logger.Log.Warnf("cleaning %s: failed to publish completion event: %v", cleaningId, err)
	}
}

func buildResult(cleaningId, rawDataId string, content *model.NormalizedContent, options model.CleaningOptions, elapsed time.Duration) *model.CleaningResult {
	result := &model.CleaningResult{
		Success:   true,
		RawDataId: rawDataId,
		Processed: len(content.Posts),
		Skipped:   content.Metadata.Counts.DroppedCards,
		Metadata: model.ResultMetadata{
			CleaningId: cleaningId,
			Timestamp:  time.Now(),
			Version:    PipelineVersion,
			Options:    options,
		},
	}

	for _, post := range content.Posts {
		switch {
		case post.Quality.Score >= model.QualityBucketHighMin:
			result.Quality.High++
		case post.Quality.Score >= model.QualityBucketMediumMin:
			result.Quality.Medium++
		default:
			result.Quality.Low++
		}
	}
	result.Quality.MeanScore = content.Metadata.Quality.Overall

	result.Performance.ElapsedMs = elapsed.Milliseconds()
	if result.Processed > 0 {
		result.Performance.AvgItemMs = float64(elapsed.Milliseconds()) / float64(result.Processed)
	}
	if seconds := elapsed.Seconds(); seconds > 0 {
		result.Performance.Throughput = float64(result.Processed) / seconds
	}
	return result
}

// failureResult shapes a fatal error into a per-item batch entry.
func failureResult(rawDataId string, options model.CleaningOptions, err error, elapsed time.Duration) *model.CleaningResult {
	cleaningId := ""
	if cleaningErr, ok := err.(*CleaningError); ok {
		cleaningId = cleaningErr.CleaningId
	}
	return &model.CleaningResult{
		Success:   false,
		RawDataId: rawDataId,
		Failed:    1,
		Performance: model.PerformanceReport{
			ElapsedMs: elapsed.Milliseconds(),
		},
		Metadata: model.ResultMetadata{
			CleaningId: cleaningId,
			Timestamp:  time.Now(),
			Version:    PipelineVersion,
			Options:    options,
		},
		Error: err.Error(),
	}
}
