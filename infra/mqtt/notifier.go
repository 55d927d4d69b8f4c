// Package mqtt publishes lot events to an MQTT broker so gate displays
// and occupancy sensors can follow allocation activity.
package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/parkwella/parkd/core/events"
	"github.com/parkwella/parkd/infra/logger"
	"github.com/parkwella/parkd/internal/eventbus"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Enabled    bool            `json:"enabled"`
	Broker     string          `json:"broker"`
	ClientID   string          `json:"client_id"`
	Username   string          `json:"username"`
	Password   string          `json:"password"`
	UseTLS     bool            `json:"use_tls"`
	ClientCert string          `json:"client_cert"`
	ClientKey  string          `json:"client_key"`
	CABundle   string          `json:"ca_bundle"`
	QoS        map[string]byte `json:"qos"`
	LWTTopic   string          `json:"lwt_topic"`
	LWTPayload string          `json:"lwt_payload"`
	LWTQoS     byte            `json:"lwt_qos"`
	LWTRetain  bool            `json:"lwt_retain"`
	MaxRetries int             `json:"max_retries"`
	BackoffMS  int             `json:"backoff_ms"`
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

// Notifier forwards bus events to MQTT topics under parkd/lot/<uid>/.
type Notifier struct {
	cli        pahoClient
	topicBase  string
	qos        map[string]byte
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewNotifier connects to the broker described by cfg and returns a
// Notifier for the lot identified by uid.
func NewNotifier(cfg Config, uid string) (*Notifier, error) {
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt-notifier")
	opts.OnConnect = func(paho.Client) { log.Infof("MQTT connected") }
	opts.OnConnectionLost = func(_ paho.Client, err error) { log.Errorf("connection lost: %v", err) }
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) { log.Warnf("reconnecting to MQTT broker") }

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Notifier{
		cli:        c,
		topicBase:  fmt.Sprintf("parkd/lot/%s", uid),
		qos:        cfg.QoS,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "parkd-" + uuid.NewString()[:8]
	}
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(clientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS, cfg.LWTRetain)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if c.CABundle != "" {
		ca, err := os.ReadFile(c.CABundle)
		if err != nil {
			return nil, fmt.Errorf("read ca bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(ca) {
			return nil, fmt.Errorf("invalid ca bundle %s", c.CABundle)
		}
		tlsCfg.RootCAs = pool
	}
	if c.ClientCert != "" && c.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}
	return tlsCfg, nil
}

// Run consumes the bus until the channel closes, publishing each event.
// Call in its own goroutine.
func (n *Notifier) Run(bus eventbus.EventBus) {
	ch := bus.Subscribe()
	for e := range ch {
		n.handle(e)
	}
}

func (n *Notifier) handle(e events.Event) {
	switch ev := e.(type) {
	case events.TicketIssued:
		n.publish(n.topicBase+"/tickets", ev)
	case events.TicketReleased:
		n.publish(n.topicBase+"/tickets", ev)
	case events.SpotFreed:
		n.publish(n.topicBase+"/spots", ev)
	case events.CapacityExhausted:
		n.publish(n.topicBase+"/capacity", ev)
	}
}

func (n *Notifier) publish(topic string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		n.log.Errorf("marshal event: %v", err)
		return
	}
	qos := byte(0)
	if q, ok := n.qos["events"]; ok {
		qos = q
	}
	retries := n.maxRetries
	if retries < 1 {
		retries = 1
	}
	for i := 0; i < retries; i++ {
		token := n.cli.Publish(topic, qos, false, payload)
		if token.Wait() && token.Error() == nil {
			return
		}
		n.log.Warnf("publish %s failed: %v", topic, token.Error())
		time.Sleep(n.backoff)
	}
	n.log.Errorf("publish %s dropped after %d attempts", topic, retries)
}

// Disconnect closes the connection to the broker.
func (n *Notifier) Disconnect() {
	if n.cli != nil && n.cli.IsConnected() {
		n.cli.Disconnect(250)
	}
}
