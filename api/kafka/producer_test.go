package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

func TestProducer_SendTaskMessage(t *testing.T) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	sp := mocks.NewSyncProducer(t, config)

	want := TaskMessage{TaskID: "task-1", TraceID: "trace-1", Source: "https://example.com/photo.jpg"}

	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got TaskMessage
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got != want {
			return errors.New("unexpected message payload")
		}
		return nil
	})

	p := NewProducerFrom(sp)
	defer p.Close()

	if err := p.SendTaskMessage(context.Background(), DefaultTopic, &want); err != nil {
		t.Fatalf("SendTaskMessage failed: %v", err)
	}
}

func TestProducer_SendTaskMessage_Error(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewProducerFrom(sp)
	defer p.Close()

	err := p.SendTaskMessage(context.Background(), DefaultTopic, &TaskMessage{TaskID: "task-1"})
	if !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Errorf("Expected ErrOutOfBrokers, got %v", err)
	}
}
