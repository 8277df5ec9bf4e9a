package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"bacnet_device_sim/internal/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSender writes readings to a topic keyed by device id, so one device
// always lands on the same partition.
type KafkaSender struct {
	w messageWriter
}

func NewKafkaSender(brokers []string, topic string) *KafkaSender {
	return &KafkaSender{w: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}}
}

func (s *KafkaSender) Send(ctx context.Context, r models.DeviceReading) error {
	value, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.Itoa(r.DeviceID)),
		Value: value,
		Time:  r.Timestamp,
	}
	if err := s.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (s *KafkaSender) Close() error { return s.w.Close() }
