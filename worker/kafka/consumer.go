package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	apikafka "imageResizer/api/kafka"
)

type TaskMessage = apikafka.TaskMessage

type MessageHandler func(ctx context.Context, msg *TaskMessage) error

var ErrInvalidMessage = errors.New("invalid task message")

type Consumer struct {
	consumer sarama.ConsumerGroup
	logger   *zap.Logger
}

func NewConsumer(brokers []string, groupID string, logger *zap.Logger) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	c, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, err
	}

	return &Consumer{consumer: c, logger: logger}, nil
}

// DecodeTaskMessage parses a message value and rejects messages that name no
// task or no source.
func DecodeTaskMessage(value []byte) (*TaskMessage, error) {
	var msg TaskMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if msg.TaskID == "" || msg.Source == "" {
		return nil, fmt.Errorf("%w: task_id and source are required", ErrInvalidMessage)
	}
	return &msg, nil
}

type consumerHandler struct {
	fn     MessageHandler
	ctx    context.Context
	logger *zap.Logger
}

func (h *consumerHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		h.handle(msg)
		session.MarkMessage(msg, "")
	}
	return nil
}

func (h *consumerHandler) handle(msg *sarama.ConsumerMessage) {
	taskMsg, err := DecodeTaskMessage(msg.Value)
	if err != nil {
		h.logger.Warn("Skipping malformed message",
			zap.Int32("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return
	}
	if err := h.fn(h.ctx, taskMsg); err != nil {
		h.logger.Error("Failed to handle task message",
			zap.String("task_id", taskMsg.TaskID),
			zap.String("trace_id", taskMsg.TraceID),
			zap.Error(err),
		)
	}
}

// Consume blocks until ctx is done, rejoining the group after every
// rebalance.
func (c *Consumer) Consume(ctx context.Context, topic string, handler MessageHandler) error {
	h := &consumerHandler{fn: handler, ctx: ctx, logger: c.logger}
	for {
		if err := c.consumer.Consume(ctx, []string{topic}, h); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *Consumer) Close() error {
	return c.consumer.Close()
}
