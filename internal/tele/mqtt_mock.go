package tele

import (
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
)

// MqttMock is in-process mqtt.Client for tests and dry run.
type MqttMock struct {
	Pub  chan MockMsg
	mu   sync.Mutex
	subs []MockSub
	// ConnectErr is returned by every Connect token.
	ConnectErr error
	// OnConnect is called by every successful Connect, like paho option.
	OnConnect mqtt.OnConnectHandler
	// PublishHang makes Publish tokens never complete, as while reconnecting.
	PublishHang bool
}
type MockSub struct {
	Pattern string
	Qos     byte
	Handler mqtt.MessageHandler
}

var _ mqtt.Client = &MqttMock{} // compile-time interface test

func NewMqttMock() *MqttMock {
	return &MqttMock{
		Pub:  make(chan MockMsg, 32),
		subs: make([]MockSub, 0, 16),
	}
}

// TestPublish delivers message to subscriber as if it came from broker.
func (self *MqttMock) TestPublish(t testing.TB, topic string, payload []byte) {
	self.mu.Lock()
	subs := append([]MockSub(nil), self.subs...)
	self.mu.Unlock()
	for _, sub := range subs {
		if topic == sub.Pattern {
			msg := MockMsg{T: topic, P: payload}
			if sub.Qos > 0 {
				msg.acked = make(chan struct{})
			}
			sub.Handler(self, msg)
			if sub.Qos > 0 {
				select {
				case <-msg.acked:
				default:
					t.Errorf("message='%s' handled without Ack()", string(payload))
					return
				}
			}
			return
		}
	}
	t.Errorf("not subscribed for topic=%s", topic)
}

func (self *MqttMock) Subscribed() []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	ss := make([]string, len(self.subs))
	for i, s := range self.subs {
		ss[i] = s.Pattern
	}
	return ss
}

func (self *MqttMock) Disconnect(uint)        {}
func (self *MqttMock) IsConnected() bool      { return true }
func (self *MqttMock) IsConnectionOpen() bool { return true }

func (self *MqttMock) Connect() mqtt.Token {
	if self.ConnectErr == nil && self.OnConnect != nil {
		self.OnConnect(self)
	}
	return mockToken{self.ConnectErr}
}

func (self *MqttMock) Publish(topic string, qos byte, retain bool, payload interface{}) mqtt.Token {
	var b []byte
	switch p := payload.(type) {
	case []byte:
		b = p
	case string:
		b = []byte(p)
	default:
		return mockToken{errors.NotSupportedf("payload type %T", payload)}
	}
	if self.PublishHang {
		return hangToken{}
	}
	select {
	case self.Pub <- MockMsg{T: topic, P: b}:
		return mockToken{nil}
	default:
		return mockToken{errors.Timeoutf("publish topic=%s", topic)}
	}
}

func (self *MqttMock) Subscribe(pattern string, qos byte, handler mqtt.MessageHandler) mqtt.Token {
	self.mu.Lock()
	self.subs = append(self.subs, MockSub{pattern, qos, handler})
	self.mu.Unlock()
	return mockToken{nil}
}

func (self *MqttMock) AddRoute(string, mqtt.MessageHandler) { panic("not implemented") }

func (self *MqttMock) OptionsReader() mqtt.ClientOptionsReader {
	panic("not implemented")
}

func (self *MqttMock) SubscribeMultiple(map[string]byte, mqtt.MessageHandler) mqtt.Token {
	panic("not implemented")
}
func (self *MqttMock) Unsubscribe(...string) mqtt.Token { panic("not implemented") }

type mockToken struct{ error }

func (tok mockToken) Error() error { return tok.error }
func (tok mockToken) Wait() bool   { return !errors.IsTimeout(tok.error) }
func (tok mockToken) WaitTimeout(time.Duration) bool {
	return !errors.IsTimeout(tok.error)
}

type hangToken struct{}

func (hangToken) Error() error { return nil }
func (hangToken) Wait() bool   { select {} }
func (hangToken) WaitTimeout(d time.Duration) bool {
	time.Sleep(d)
	return false
}

type MockMsg struct {
	T     string
	P     []byte
	acked chan struct{}
}

func (msg MockMsg) Ack() {
	if msg.acked != nil {
		close(msg.acked)
	}
}

func (msg MockMsg) Duplicate() bool   { return false }
func (msg MockMsg) MessageID() uint16 { return 0 }
func (msg MockMsg) Payload() []byte   { return msg.P }
func (msg MockMsg) Qos() byte         { return 0 }
func (msg MockMsg) Retained() bool    { return false }
func (msg MockMsg) Topic() string     { return msg.T }
