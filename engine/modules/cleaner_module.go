package modules

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/socialmux/cleanser/cleaner"
	"github.com/socialmux/cleanser/engine"
	"github.com/socialmux/cleanser/model"
	Logger "github.com/socialmux/cleanser/utils/log"
)

type CleanerModuleConfig struct {
	Name string
}

// CleanerModule consumes pending notifications from the event bus, runs
// the cleaning pipeline and republishes the result for the reporter.
// Fatal cleaning failures become failure-shaped results, the module itself
// only errors on bus problems.
type CleanerModule struct {
	Config CleanerModuleConfig

	Orchestrator *cleaner.Orchestrator

	EventBus *gochannel.GoChannel
}

func NewCleanerModule(config CleanerModuleConfig, orchestrator *cleaner.Orchestrator, e *gochannel.GoChannel) *CleanerModule {
	return &CleanerModule{
		Config:       config,
		Orchestrator: orchestrator,
		EventBus:     e,
	}
}

func (m *CleanerModule) RunModule(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := m.EventBus.Subscribe(ctx, engine.TopicPendingNotification)
	if err != nil {
		return err
	}

	for msg := range messages {
		msg.Ack()

		var notification model.RawDataNotification
		if err := json.Unmarshal(msg.Payload, &notification); err != nil {
			Logger.Log.Errorf("fail to decode notification from event bus: %s", err)
			continue
		}

		go func(notification model.RawDataNotification) {
			result, err := m.Orchestrator.Clean(ctx, &notification)
			if err != nil {
				result = &model.CleaningResult{
					Success:   false,
					RawDataId: notification.RawDataId,
					Failed:    1,
					Error:     err.Error(),
				}
			}
			if err := m.PublishResult(result); err != nil {
				Logger.Log.Errorf("fail to publish cleaning result for %s: %s", notification.RawDataId, err)
			}
		}(notification)
	}

	return nil
}

// After a cleaning run finishes, publish its result into the result channel
// for reporter to report to Datadog.
func (m *CleanerModule) PublishResult(result *model.CleaningResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	return m.EventBus.Publish(engine.TopicCleaningResult, msg)
}

func (m *CleanerModule) Name() string {
	return m.Config.Name
}

func (m *CleanerModule) Shutdown() {}
