package cleaner

import (
	"context"
	"sync"
	"time"

	"github.com/socialmux/cleanser/model"
	Logger "github.com/socialmux/cleanser/utils/log"
)

// interChunkPause throttles chunk turnover so the raw-data store is not
// hammered by back-to-back chunks. Not applied after the last chunk.
const interChunkPause = 100 * time.Millisecond

// CleanBatch cleans ids in chunks of options.MaxBatchSize. Items within a
// chunk run concurrently with per-item isolation: a failed item becomes a
// failure-shaped result and never aborts its siblings. The returned slice
// has exactly one entry per input id, in input order.
func (o *Orchestrator) CleanBatch(ctx context.Context, ids []string, options model.CleaningOptions) []*model.CleaningResult {
	options = options.Normalize()
	results := make([]*model.CleaningResult, 0, len(ids))

	chunks := chunkIds(ids, options.MaxBatchSize)
	for i, chunk := range chunks {
		Logger.Log.Infof("batch cleaning chunk %d/%d with %d items", i+1, len(chunks), len(chunk))
		results = append(results, o.cleanChunk(ctx, chunk, options)...)
		if i < len(chunks)-1 {
			time.Sleep(interChunkPause)
		}
	}
	return results
}

// cleanChunk settles every item in the chunk, success or failure, before
// returning. Results keep the chunk's input order.
func (o *Orchestrator) cleanChunk(ctx context.Context, ids []string, options model.CleaningOptions) []*model.CleaningResult {
	results := make([]*model.CleaningResult, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			start := time.Now()
			notification := &model.RawDataNotification{
				RawDataId:      id,
				SourceType:     model.SourceTypeWeiboSearch,
				SourcePlatform: model.SourcePlatformWeibo,
			}
			result, err := o.CleanWithOptions(ctx, notification, options)
			if err != nil {
				result = failureResult(id, options, err, time.Since(start))
			}
			results[i] = result
		}(i, id)
	}
	wg.Wait()
	return results
}

func chunkIds(ids []string, size int) [][]string {
	if size <= 0 {
		size = model.DefaultMaxBatchSize
	}
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
