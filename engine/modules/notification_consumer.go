package modules

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/socialmux/cleanser/engine"
	"github.com/socialmux/cleanser/model"
	"github.com/socialmux/cleanser/utils"
	Logger "github.com/socialmux/cleanser/utils/log"
)

type NotificationConsumerConfig struct {
	Name string

	// ReceiveBatchSize is how many queue messages one poll asks for.
	ReceiveBatchSize int64

	// PollInterval is the protective delay between queue polls.
	PollInterval time.Duration
}

// NotificationConsumer polls the raw-data message queue and republishes each
// decoded notification on the engine event bus for the cleaner module.
// Undecodable messages are deleted and logged, they would otherwise poison
// the queue forever.
type NotificationConsumer struct {
	Config NotificationConsumerConfig

	Reader utils.MessageQueueReader

	EventBus *gochannel.GoChannel
}

func NewNotificationConsumer(config NotificationConsumerConfig, reader utils.MessageQueueReader, e *gochannel.GoChannel) *NotificationConsumer {
	if config.ReceiveBatchSize <= 0 {
		config.ReceiveBatchSize = 10
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 2 * time.Second
	}
	return &NotificationConsumer{
		Config:   config,
		Reader:   reader,
		EventBus: e,
	}
}

func (c *NotificationConsumer) RunModule(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		c.pollOnce(ctx)
		time.Sleep(c.Config.PollInterval)
	}
}

func (c *NotificationConsumer) pollOnce(ctx context.Context) {
	msgs, err := c.Reader.ReceiveMessages(c.Config.ReceiveBatchSize)
	if err != nil {
		Logger.Log.Error("fail to read notifications from queue : ", err)
		return
	}

	for _, msg := range msgs {
		body, err := msg.Read()
		if err != nil {
			Logger.Log.Errorf("fail to read queue message body: %s", err)
			continue
		}

		var notification model.RawDataNotification
		if err := json.Unmarshal([]byte(body), &notification); err != nil {
			Logger.Log.Errorf("fail to decode notification, dropping message. err: %s, body: %s", err, body)
			if err := c.Reader.DeleteMessage(msg); err != nil {
				Logger.Log.Errorf("fail to delete poisoned message from queue: %s", err)
			}
			continue
		}

		if err := c.publish(&notification); err != nil {
			// Leave the message in the queue, it becomes visible again after
			// the visibility timeout.
			Logger.Log.Errorf("fail to publish notification %s on event bus: %s", notification.RawDataId, err)
			continue
		}
		if err := c.Reader.DeleteMessage(msg); err != nil {
			Logger.Log.Errorf("fail to delete message from queue: %s", err)
		}
	}
}

func (c *NotificationConsumer) publish(notification *model.RawDataNotification) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	return c.EventBus.Publish(engine.TopicPendingNotification, msg)
}

func (c *NotificationConsumer) Name() string {
	return c.Config.Name
}

func (c *NotificationConsumer) Shutdown() {}
