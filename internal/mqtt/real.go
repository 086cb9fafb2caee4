package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/cptspacemanspiff/gamma-daemon/internal/config"
	"github.com/cptspacemanspiff/gamma-daemon/internal/daemon"
)

var (
	connectTimeout = 10 * time.Second
	newClient      = paho.NewClient
)

// RealPublisher publishes to an actual MQTT broker.
type RealPublisher struct {
	client paho.Client
	topic  string
}

// NewRealPublisher creates a publisher connected to the configured broker.
func NewRealPublisher(cfg config.MQTTConfig) (*RealPublisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := newClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		// stop the background connect retries
		client.Disconnect(0)
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		client.Disconnect(0)
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &RealPublisher{
		client: client,
		topic:  cfg.Topic,
	}, nil
}

// Publish sends a decision to the MQTT broker.
func (p *RealPublisher) Publish(d daemon.Decision) error {
	payload, err := FormatPayload(d)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0, not retained
	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000)
	return nil
}
