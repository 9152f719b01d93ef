// Package mqtt publishes fleet allocation notifications to an MQTT
// broker so external dashboards and vehicle gateways can follow the
// allocation in real time.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"fleetmas/core/events"
	"fleetmas/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Enabled    bool   `json:"enabled"`
	Broker     string `json:"broker"`
	ClientID   string `json:"client_id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	TopicRoot  string `json:"topic_root"`
	QoS        byte   `json:"qos"`
	MaxRetries int    `json:"max_retries"`
	BackoffMS  int    `json:"backoff_ms"`
}

// SetDefaults fills the zero values with usable defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "fleetmas"
	}
	if c.TopicRoot == "" {
		c.TopicRoot = "fleet"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BackoffMS <= 0 {
		c.BackoffMS = 100
	}
}

// Publisher pushes allocation notifications.
type Publisher interface {
	PublishChange(ev events.ChangeEvent) error
	PublishAuction(ev events.AuctionEvent) error
	Disconnect()
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// PahoPublisher implements Publisher using Eclipse Paho.
type PahoPublisher struct {
	cli        pahoClient
	topicRoot  string
	qos        byte
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewPahoPublisher connects to the broker described by cfg.
func NewPahoPublisher(cfg Config) (*PahoPublisher, error) {
	cfg.SetDefaults()
	log := logger.New("mqtt_publisher")

	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &PahoPublisher{
		cli:        c,
		topicRoot:  cfg.TopicRoot,
		qos:        cfg.QoS,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}, nil
}

// PublishChange pushes a parcel assignment change to the vehicle topic.
func (p *PahoPublisher) PublishChange(ev events.ChangeEvent) error {
	msg := struct {
		MessageID string `json:"message_id"`
		VehicleID string `json:"vehicle_id"`
		RequestID string `json:"request_id"`
		Kind      string `json:"kind"`
		Timestamp int64  `json:"timestamp"`
	}{
		MessageID: uuid.NewString(),
		VehicleID: ev.VehicleID,
		RequestID: ev.Request.ID,
		Kind:      ev.Kind.String(),
		Timestamp: time.Now().UnixMilli(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/vehicle/%s/parcel", p.topicRoot, ev.VehicleID)
	return p.publish(topic, payload)
}

// PublishAuction pushes the outcome of a resolved auction.
func (p *PahoPublisher) PublishAuction(ev events.AuctionEvent) error {
	msg := struct {
		MessageID string  `json:"message_id"`
		RequestID string  `json:"request_id"`
		WinnerID  string  `json:"winner_id"`
		Bidders   int     `json:"bidders"`
		BestBid   float64 `json:"best_bid"`
		Tie       bool    `json:"tie"`
		Time      int64   `json:"time"`
	}{
		MessageID: uuid.NewString(),
		RequestID: ev.RequestID,
		WinnerID:  ev.WinnerID,
		Bidders:   ev.Bidders,
		BestBid:   ev.BestBid,
		Tie:       ev.Tie,
		Time:      ev.Time,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/auction/%s", p.topicRoot, ev.RequestID)
	return p.publish(topic, payload)
}

func (p *PahoPublisher) publish(topic string, payload []byte) error {
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, false, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.log.Debugf("published to %s", topic)
			return nil
		}
		p.log.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		time.Sleep(p.backoff * time.Duration(1<<attempt))
	}
	return publishErr
}

// Disconnect gracefully closes the MQTT connection.
func (p *PahoPublisher) Disconnect() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
