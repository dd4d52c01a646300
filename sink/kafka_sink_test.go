package sink

import (
	"context"
	"encoding/json"
	"testing"

	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialmux/cleanser/model"
)

type capturingWriter struct {
	messages []kafka.Message
}

func (w *capturingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestKafkaSinkPush(t *testing.T) {
	writer := &capturingWriter{}
	s := &KafkaSink{writer: writer}

	event := &model.CompletionEvent{
		RawDataId:  "raw-1",
		CleaningId: "clean-1",
		Result:     &model.CleaningResult{Success: true, Processed: 3},
	}
	require.NoError(t, s.Push(context.Background(), event))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, []byte("raw-1"), msg.Key)

	var decoded model.CompletionEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "clean-1", decoded.CleaningId)
	assert.Equal(t, 3, decoded.Result.Processed)
}

func TestKafkaSinkNilEventIsNoop(t *testing.T) {
	writer := &capturingWriter{}
	s := &KafkaSink{writer: writer}

	require.NoError(t, s.Push(context.Background(), nil))
	assert.Empty(t, writer.messages)
}

func TestKafkaSinkHealthy(t *testing.T) {
	assert.True(t, (&KafkaSink{writer: &capturingWriter{}}).Healthy())
	assert.False(t, (&KafkaSink{}).Healthy())
}
