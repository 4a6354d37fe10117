package notify

import (
	"context"
	"testing"
	"time"
)

func TestNewPublisher(t *testing.T) {
	config := Config{
		Enabled:     true,
		Broker:      "tcp://localhost:1883",
		TopicPrefix: "turbosim/test",
		ClientID:    "test-client",
		QoS:         1,
		Retained:    false,
	}

	pub := New(config, nil)
	if pub == nil {
		t.Fatal("expected non-nil publisher")
	}

	if pub.config.Broker != config.Broker {
		t.Errorf("expected broker %s, got %s", config.Broker, pub.config.Broker)
	}
}

func TestPublisher_StartWhenDisabled(t *testing.T) {
	pub := New(Config{Enabled: false}, nil)
	if err := pub.Start(context.Background()); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_Stop(t *testing.T) {
	pub := New(Config{Enabled: false}, nil)
	pub.Stop()
}

func TestPublisher_PublishResult(t *testing.T) {
	pub := New(Config{Enabled: false, TopicPrefix: "turbosim/test"}, nil)

	event := ResultEvent{
		RunID:     "run-1",
		Trellis:   "rsc4",
		EbN0dB:    1.5,
		Frames:    10,
		BitErrors: 3,
		BitsTotal: 10000,
		BER:       0.0003,
		Timestamp: time.Now(),
	}

	if err := pub.PublishResult(event); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_PublishRunComplete(t *testing.T) {
	pub := New(Config{Enabled: false, TopicPrefix: "turbosim/test"}, nil)

	event := RunCompleteEvent{RunID: "run-1", Points: 6, Timestamp: time.Now()}
	if err := pub.PublishRunComplete(event); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestTopicFormat(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		suffix   string
		expected string
	}{
		{"simple topic", "turbosim", "result", "turbosim/result"},
		{"trailing slash in prefix", "turbosim/", "result", "turbosim/result"},
		{"empty prefix", "", "result", "result"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := New(Config{TopicPrefix: tt.prefix}, nil)
			topic := pub.formatTopic(tt.suffix)
			if topic != tt.expected {
				t.Errorf("expected topic %s, got %s", tt.expected, topic)
			}
		})
	}
}

func TestEventSerialization(t *testing.T) {
	pub := New(Config{Enabled: false}, nil)

	events := map[string]interface{}{
		"ResultEvent": ResultEvent{
			RunID: "run-1", Trellis: "rsc4", EbN0dB: 1.5,
			Frames: 10, BitErrors: 3, BitsTotal: 10000, BER: 0.0003,
			Timestamp: time.Now(),
		},
		"RunCompleteEvent": RunCompleteEvent{RunID: "run-1", Points: 6, Timestamp: time.Now()},
	}

	for name, event := range events {
		if _, err := pub.serializeEvent(event); err != nil {
			t.Errorf("failed to serialize %s: %v", name, err)
		}
	}
}
