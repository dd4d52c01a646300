package sink

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/pkg/errors"

	"github.com/socialmux/cleanser/model"
	"github.com/socialmux/cleanser/utils"
	Logger "github.com/socialmux/cleanser/utils/log"
)

const (
	testCompletionSnsArn = "arn:aws:sns:us-west-1:213288384225:test_cleaning_completed"
	prodCompletionSnsArn = "arn:aws:sns:us-west-1:213288384225:cleaning_completed.fifo"
)

type SnsSink struct {
	arn    string
	client *sns.SNS
}

func NewSnsSink() (*SnsSink, error) {
	// AWS client session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String("us-west-1"),
	})
	if err != nil {
		return nil, err
	}
	svc := sns.New(sess)

	arn := testCompletionSnsArn
	if utils.IsProdEnv() {
		arn = prodCompletionSnsArn
	}
	if override := os.Getenv("COMPLETION_SNS_ARN"); override != "" {
		arn = override
	}

	return &SnsSink{
		arn:    arn,
		client: svc,
	}, nil
}

func (s *SnsSink) Push(ctx context.Context, event *model.CompletionEvent) error {
	if event == nil {
		Logger.Log.Warn("push empty completion event into sink")
		return nil
	}
	serialized, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal completion event")
	}
	msg := string(serialized)
	messageGroup := "cleaning_completed"
	// ignore the returned seq number for FIFO
	_, err = s.client.PublishWithContext(ctx, &sns.PublishInput{
		Message:                &msg,
		TopicArn:               &s.arn,
		MessageGroupId:         &messageGroup,
		MessageDeduplicationId: &event.CleaningId,
	})
	return utils.ImmediatePrintError(err)
}

func (s *SnsSink) Healthy() bool {
	return s.client != nil
}
