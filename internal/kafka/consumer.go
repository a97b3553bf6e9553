package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jmehdipour/rfm-dashboard/internal/config"
)

// Consumer reads customer record envelopes through a consumer group.
// Offsets are committed explicitly by the caller.
type Consumer struct {
	r *kafka.Reader
}

func NewConsumer(c config.KafkaConfig) *Consumer {
	min := c.MinBytes
	if min <= 0 {
		min = 1 << 10
	}
	max := c.MaxBytes
	if max <= 0 {
		max = 10 << 20
	}
	topic := c.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          topic,
		MinBytes:       min,
		MaxBytes:       max,
		CommitInterval: time.Duration(c.CommitInterval) * time.Millisecond, // 0 = sync commits
		MaxWait:        250 * time.Millisecond,
	})

	return &Consumer{r: r}
}

// DefaultTopic carries RecordEnvelope values from the scoring pipeline.
const DefaultTopic = "customer.segments"

type Message = kafka.Message

func (c *Consumer) Fetch(ctx context.Context) (Message, error) {
	return c.r.FetchMessage(ctx)
}

func (c *Consumer) Commit(ctx context.Context, msgs ...Message) error {
	return c.r.CommitMessages(ctx, msgs...)
}

func (c *Consumer) Close() error { return c.r.Close() }
