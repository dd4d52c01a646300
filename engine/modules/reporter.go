package modules

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/socialmux/cleanser/engine"
	"github.com/socialmux/cleanser/model"
	Logger "github.com/socialmux/cleanser/utils/log"
)

type ReporterConfig struct {
	Name string
}

// Reporter's job is to listen to cleaning results and aggregate them,
// sending to Datadog (Or other service if there's any) for monitoring
// purpose.
type Reporter struct {
	Config ReporterConfig

	Statsd *statsd.Client

	EventBus *gochannel.GoChannel
}

func NewReporter(config ReporterConfig, statsd *statsd.Client, e *gochannel.GoChannel) *Reporter {
	return &Reporter{
		Config:   config,
		Statsd:   statsd,
		EventBus: e,
	}
}

// Report one cleaning result to datadog.
func ReportCleaningResult(result *model.CleaningResult, client *statsd.Client) {
	if client == nil {
		return
	}
	tags := []string{
		"success:" + strconv.FormatBool(result.Success),
		"raw_data_id:" + result.RawDataId,
	}
	if err := client.Incr(engine.DdogCleaningResultCounter, tags, 1); err != nil {
		Logger.Log.Infoln("cannot report cleaning result")
	}
	if err := client.Count(engine.DdogCleaningPostsCounter, int64(result.Processed), tags, 1); err != nil {
		Logger.Log.Infoln("cannot report processed post count")
	}
}

func (r *Reporter) ProcessCleaningResults(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := r.EventBus.Subscribe(ctx, engine.TopicCleaningResult)
	if err != nil {
		return err
	}

	for msg := range messages {
		msg.Ack()

		var result model.CleaningResult
		if err := json.Unmarshal(msg.Payload, &result); err != nil {
			Logger.Log.Errorf("fail to decode cleaning result from event bus: %s", err)
			continue
		}

		ReportCleaningResult(&result, r.Statsd)
	}

	return nil
}

func (r *Reporter) RunModule(ctx context.Context) error {
	return r.ProcessCleaningResults(ctx)
}

func (r *Reporter) Name() string {
	return r.Config.Name
}

func (r *Reporter) Shutdown() {}
