package connector

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	kafka "github.com/segmentio/kafka-go"
)

const (
	StartupEarliest  = "earliest"
	StartupLatest    = "latest"
	StartupTimestamp = "timestamp"
)

const defaultKafkaMaxBytes int = 10e6 // 10MB

type KafkaConfig struct {
	Brokers     string `prop:"kafka.brokers"`
	Topic       string `prop:"kafka.topic"`
	GroupID     string `prop:"kafka.consumer.group"`
	StartupMode string `prop:"kafka.scan.startup.mode"`
	// TimeOffset is a unix timestamp in milliseconds, used with the
	// timestamp startup mode.
	TimeOffset int64 `prop:"kafka.time.offset"`
	MaxBytes   int   `prop:"kafka.max.bytes"`
}

func (*KafkaConfig) Connector() string { return Kafka }

func (c *KafkaConfig) Validate() error {
	switch c.StartupMode {
	case "", StartupEarliest, StartupLatest:
	case StartupTimestamp:
		if c.TimeOffset <= 0 {
			return errors.New("kafka.time.offset is required with the timestamp startup mode")
		}
		if c.GroupID != "" {
			return errors.New("the timestamp startup mode cannot be combined with a consumer group")
		}
	default:
		return errors.Newf("unknown kafka.scan.startup.mode %q", c.StartupMode)
	}

	rc := c.ReaderConfig()
	return rc.Validate()
}

// ReaderConfig maps the properties onto a kafka-go reader configuration.
func (c *KafkaConfig) ReaderConfig() kafka.ReaderConfig {
	maxBytes := c.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultKafkaMaxBytes
	}
	startOffset := kafka.FirstOffset
	if c.StartupMode == StartupLatest {
		startOffset = kafka.LastOffset
	}
	return kafka.ReaderConfig{
		Brokers:     splitList(c.Brokers),
		Topic:       c.Topic,
		GroupID:     c.GroupID,
		MinBytes:    1,
		MaxBytes:    maxBytes,
		StartOffset: startOffset,
	}
}

// NewReader opens a reader positioned according to the startup mode. The
// caller owns the reader and must close it.
func (c *KafkaConfig) NewReader(ctx context.Context) (*kafka.Reader, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	r := kafka.NewReader(c.ReaderConfig())
	if c.StartupMode == StartupTimestamp {
		if err := r.SetOffsetAt(ctx, time.UnixMilli(c.TimeOffset)); err != nil {
			_ = r.Close()
			return nil, errors.Wrapf(err, "seek topic %s to %d", c.Topic, c.TimeOffset)
		}
	}
	return r, nil
}
