package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"bacnet_device_sim/internal/models"
)

// ErrUnexpectedStatus is returned when the collector answers anything but 204.
var ErrUnexpectedStatus = errors.New("unexpected collector response")

// Sender delivers one reading. Send must honour ctx cancellation.
type Sender interface {
	Send(ctx context.Context, r models.DeviceReading) error
	Close() error
}

// HTTPSender posts readings as JSON with a static Authorization header.
type HTTPSender struct {
	client *http.Client
	url    string
	apiKey string
}

// NewHTTPSender returns a sender for url. A nil client means http.DefaultClient.
func NewHTTPSender(url, apiKey string, client *http.Client) *HTTPSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSender{client: client, url: url, apiKey: apiKey}
}

func (s *HTTPSender) Send(ctx context.Context, r models.DeviceReading) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post reading: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

func (s *HTTPSender) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
