package mqtt

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/parkwella/parkd/core/events"
	"github.com/parkwella/parkd/core/model"
	"github.com/parkwella/parkd/internal/eventbus"
)

type fakeToken struct{ err error }

func (t fakeToken) Wait() bool                     { return true }
func (t fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t fakeToken) Error() error { return t.err }

type fakeClient struct {
	mu        sync.Mutex
	published map[string][][]byte
	connected bool
}

func (f *fakeClient) IsConnected() bool { return f.connected }
func (f *fakeClient) Connect() paho.Token {
	f.connected = true
	return fakeToken{}
}
func (f *fakeClient) Disconnect(uint) { f.connected = false }
func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.published == nil {
		f.published = make(map[string][][]byte)
	}
	f.published[topic] = append(f.published[topic], payload.([]byte))
	return fakeToken{}
}

type unroutedEvent struct{}

func (unroutedEvent) Kind() string { return "unrouted" }

func withFakeClient(t *testing.T) *fakeClient {
	t.Helper()
	fake := &fakeClient{}
	orig := newMQTTClient
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return fake }
	t.Cleanup(func() { newMQTTClient = orig })
	return fake
}

func TestNotifierPublishesTicketEvents(t *testing.T) {
	fake := withFakeClient(t)
	n, err := NewNotifier(Config{Broker: "tcp://localhost:1883"}, "1234")
	if err != nil {
		t.Fatalf("notifier: %v", err)
	}
	defer n.Disconnect()

	bus := eventbus.New()
	done := make(chan struct{})
	go func() {
		n.Run(bus)
		close(done)
	}()

	issued := events.TicketIssued{
		TicketID: "TKT_0", SpotID: "spot_1", FloorID: 1,
		Plate: "ABC123", Class: model.ClassCompact, Time: time.Now(),
	}
	// The subscriber is registered inside Run; give it a moment.
	deadline := time.Now().Add(time.Second)
	for {
		bus.Publish(issued)
		fake.mu.Lock()
		got := len(fake.published["parkd/lot/1234/tickets"])
		fake.mu.Unlock()
		if got > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	bus.Close()
	<-done

	fake.mu.Lock()
	defer fake.mu.Unlock()
	msgs := fake.published["parkd/lot/1234/tickets"]
	if len(msgs) == 0 {
		t.Fatal("no ticket event published")
	}
	var out events.TicketIssued
	if err := json.Unmarshal(msgs[0], &out); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if out.TicketID != "TKT_0" || out.Plate != "ABC123" {
		t.Fatalf("unexpected payload %#v", out)
	}
}

func TestNotifierIgnoresUnknownEvents(t *testing.T) {
	fake := withFakeClient(t)
	n, err := NewNotifier(Config{Broker: "tcp://localhost:1883"}, "1234")
	if err != nil {
		t.Fatalf("notifier: %v", err)
	}
	n.handle(unroutedEvent{})
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.published) != 0 {
		t.Fatalf("unexpected publishes %#v", fake.published)
	}
}

func TestClientOptionsDefaultsClientID(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "tcp://localhost:1883"})
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.ClientID == "" {
		t.Fatal("client id should be generated")
	}
}

func TestLoadTLSConfigMissingCA(t *testing.T) {
	cfg := Config{UseTLS: true, CABundle: "does-not-exist.pem"}
	if _, err := cfg.LoadTLSConfig(); err == nil {
		t.Fatal("expected error for missing ca bundle")
	}
}
