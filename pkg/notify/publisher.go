// Package notify builds per-specimen BER result and run-complete events
// with their MQTT topic names and JSON payloads. It does not connect to a
// broker: when enabled, each event is serialized and logged at debug level,
// and nothing is sent.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dbehnke/turbosim/pkg/logger"
)

// Config holds notification publisher configuration.
type Config struct {
	Enabled     bool
	Broker      string
	TopicPrefix string
	ClientID    string
	Username    string
	Password    string
	QoS         byte
	Retained    bool
}

// Publisher handles MQTT event publishing.
type Publisher struct {
	config Config
	log    *logger.Logger
}

// ResultEvent reports one completed Eb/N0 operating point's BER measurement.
type ResultEvent struct {
	RunID     string    `json:"run_id"`
	Trellis   string    `json:"trellis"`
	EbN0dB    float64   `json:"ebn0_db"`
	Frames    uint64    `json:"frames"`
	BitErrors uint64    `json:"bit_errors"`
	BitsTotal uint64    `json:"bits_total"`
	BER       float64   `json:"ber"`
	Timestamp time.Time `json:"timestamp"`
}

// RunCompleteEvent reports that every Eb/N0 point in a run has finished.
type RunCompleteEvent struct {
	RunID     string    `json:"run_id"`
	Points    int       `json:"points"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a new notification publisher.
func New(config Config, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.New(logger.Config{Level: "info", Format: "text"})
	}

	return &Publisher{
		config: config,
		log:    log.WithComponent("notify"),
	}
}

// Start starts the publisher.
func (p *Publisher) Start(ctx context.Context) error {
	if !p.config.Enabled {
		p.log.Info("notification publisher disabled")
		return nil
	}

	p.log.Info("starting notification publisher",
		logger.String("broker", p.config.Broker),
		logger.String("client_id", p.config.ClientID))

	// TODO: dial an actual MQTT broker once a paho.mqtt dependency is added.
	// Until then this is a stub that allows the application to start with
	// notifications enabled without failing a run over a missing broker.
	p.log.Warn("mqtt connection not yet implemented - events will not be published")

	return nil
}

// Stop stops the publisher.
func (p *Publisher) Stop() {
	if !p.config.Enabled {
		return
	}

	p.log.Info("stopping notification publisher")
}

// PublishResult publishes a per-Eb/N0 result event.
func (p *Publisher) PublishResult(event ResultEvent) error {
	if !p.config.Enabled {
		return nil
	}

	topic := p.formatTopic("result")
	return p.publish(topic, event)
}

// PublishRunComplete publishes a run-complete event.
func (p *Publisher) PublishRunComplete(event RunCompleteEvent) error {
	if !p.config.Enabled {
		return nil
	}

	topic := p.formatTopic("run/complete")
	return p.publish(topic, event)
}

func (p *Publisher) publish(topic string, event interface{}) error {
	payload, err := p.serializeEvent(event)
	if err != nil {
		p.log.Error("failed to serialize event",
			logger.String("topic", topic),
			logger.Error(err))
		return err
	}

	// TODO: publish to the broker once a real MQTT client exists.
	p.log.Debug("would publish notification event",
		logger.String("topic", topic),
		logger.Int("payload_size", len(payload)))

	return nil
}

func (p *Publisher) serializeEvent(event interface{}) ([]byte, error) {
	return json.Marshal(event)
}

func (p *Publisher) formatTopic(suffix string) string {
	prefix := strings.TrimSuffix(p.config.TopicPrefix, "/")
	if prefix == "" {
		return suffix
	}
	return fmt.Sprintf("%s/%s", prefix, suffix)
}
