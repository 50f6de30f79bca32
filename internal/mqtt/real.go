package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Config holds broker connection settings.
type Config struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	Username    string
	Password    string
}

// RealPublisher publishes to an actual MQTT broker.
type RealPublisher struct {
	client paho.Client
	prefix string
}

// NewRealPublisher creates a publisher connected to the configured broker.
// The broker is told to mark the launcher offline if the connection drops.
func NewRealPublisher(cfg Config) (*RealPublisher, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "launcher"
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(StatusTopic(cfg.TopicPrefix), "offline", 1, true)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetOnConnectHandler(func(c paho.Client) {
		c.Publish(StatusTopic(cfg.TopicPrefix), 1, true, "online")
	})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &RealPublisher{
		client: client,
		prefix: cfg.TopicPrefix,
	}, nil
}

// PublishState sends a retained state snapshot.
func (p *RealPublisher) PublishState(state State) error {
	payload, err := FormatPayload(state)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 1, retained so late subscribers see the current state
	token := p.client.Publish(StateTopic(p.prefix), 1, true, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

// Close marks the launcher offline and disconnects from the broker.
func (p *RealPublisher) Close() error {
	token := p.client.Publish(StatusTopic(p.prefix), 1, true, "offline")
	token.WaitTimeout(time.Second)
	p.client.Disconnect(1000)
	return nil
}
