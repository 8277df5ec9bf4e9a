package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"bacnet_device_sim/internal/models"
)

const mqttDisconnectQuiesceMs = 250

const mqttConnectRetryInterval = 5 * time.Second

// DialMQTT returns a paho client that keeps connecting to broker in the
// background. An unreachable broker is not an error here: sends fail until
// the connection comes up and the dispatcher counts them like any other.
func DialMQTT(broker, clientID string, timeout time.Duration) mqtt.Client {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetConnectTimeout(timeout).
		SetConnectRetry(true).
		SetConnectRetryInterval(mqttConnectRetryInterval).
		SetAutoReconnect(true)
	c := mqtt.NewClient(opts)
	c.Connect()
	return c
}

// MQTTSender publishes readings as JSON to a single topic.
type MQTTSender struct {
	client mqtt.Client
	topic  string
	qos    byte
}

func NewMQTTSender(client mqtt.Client, topic string, qos byte) *MQTTSender {
	return &MQTTSender{client: client, topic: topic, qos: qos}
}

// Send succeeds once the publish token completes without error.
func (s *MQTTSender) Send(ctx context.Context, r models.DeviceReading) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}
	if !s.client.IsConnectionOpen() {
		return errors.New("mqtt connection is not open")
	}

	tok := s.client.Publish(s.topic, s.qos, false, payload)
	select {
	case <-tok.Done():
		if err := tok.Error(); err != nil {
			return fmt.Errorf("publish to %s: %w", s.topic, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publish to %s: %w", s.topic, ctx.Err())
	}
}

func (s *MQTTSender) Close() error {
	s.client.Disconnect(mqttDisconnectQuiesceMs)
	return nil
}
