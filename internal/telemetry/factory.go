package telemetry

import (
	"fmt"
	"net/http"

	"bacnet_device_sim/internal/config"
)

// NewSender builds the sender selected by cfg.Transport.
func NewSender(cfg config.TelemetryConfig) (Sender, error) {
	switch cfg.Transport {
	case config.TransportHTTP:
		return NewHTTPSender(cfg.URL, cfg.APIKey, &http.Client{}), nil
	case config.TransportMQTT:
		c := DialMQTT(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.Timeout)
		return NewMQTTSender(c, cfg.MQTT.Topic, byte(cfg.MQTT.QoS)), nil
	case config.TransportKafka:
		return NewKafkaSender(cfg.Kafka.Brokers, cfg.Kafka.Topic), nil
	default:
		return nil, fmt.Errorf("%w: unknown telemetry transport %q", config.ErrInvalidConfig, cfg.Transport)
	}
}
