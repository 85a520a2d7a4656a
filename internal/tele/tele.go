// Package tele connects front panel to printer over MQTT:
// receives UI commands and status updates, publishes decoded commands and errors.
package tele

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
	"github.com/temoto/frontpanel/helpers"
	"github.com/temoto/frontpanel/internal/command"
	tele_config "github.com/temoto/frontpanel/internal/tele/config"
	"github.com/temoto/frontpanel/internal/types"
	"github.com/temoto/frontpanel/log2"
)

const SourceTag = "tele"

const (
	defaultNetworkTimeout = 30 * time.Second
	defaultTopicPrefix    = "printer"
	defaultClientID       = "frontpanel"
)

func TopicUICommand(prefix string) string { return prefix + "/ui/command" }
func TopicStatus(prefix string) string { return prefix + "/status" }
func TopicCommand(prefix string) string { return prefix + "/command" }
func TopicError(prefix string) string { return prefix + "/error" }

var mqttLogOnce sync.Once

type Tele struct {
	log    *log2.Log
	config tele_config.Config
	emit   func(types.InputEvent)
	m      mqtt.Client
	mopt   *mqtt.ClientOptions
	stopCh chan struct{}
	once   sync.Once

	networkTimeout time.Duration

	topicUICommand string
	topicStatus    string
	topicCommand   string
	topicError     string
}

var _ command.Target = &Tele{} // compile-time interface test

// New prepares MQTT client, Start connects in background.
func New(log *log2.Log, c tele_config.Config, emit func(types.InputEvent)) (*Tele, error) {
	self := newTele(log, c, emit)
	opt, err := self.clientOptions()
	if err != nil {
		return nil, err
	}
	self.mopt = opt
	self.m = mqtt.NewClient(opt)
	return self, nil
}

// NewWithClient is used with mock client.
func NewWithClient(log *log2.Log, c tele_config.Config, client mqtt.Client, emit func(types.InputEvent)) *Tele {
	self := newTele(log, c, emit)
	self.m = client
	return self
}

func newTele(log *log2.Log, c tele_config.Config, emit func(types.InputEvent)) *Tele {
	if c.TopicPrefix == "" {
		c.TopicPrefix = defaultTopicPrefix
	}
	if c.ClientID == "" {
		c.ClientID = defaultClientID
	}
	// clone drops error func, so own errors are not published back in loop
	level := log2.LInfo
	if c.LogDebug {
		level = log2.LDebug
	}
	log = log.Clone(level)
	networkTimeout := helpers.IntSecondDefault(c.NetworkTimeoutSec, defaultNetworkTimeout)
	if networkTimeout < 1*time.Second {
		networkTimeout = 1 * time.Second
	}
	return &Tele{
		log:            log,
		config:         c,
		emit:           emit,
		stopCh:         make(chan struct{}),
		networkTimeout: networkTimeout,
		topicUICommand: TopicUICommand(c.TopicPrefix),
		topicStatus:    TopicStatus(c.TopicPrefix),
		topicCommand:   TopicCommand(c.TopicPrefix),
		topicError:     TopicError(c.TopicPrefix),
	}
}

func (self *Tele) clientOptions() (*mqtt.ClientOptions, error) {
	mqttLogOnce.Do(func() {
		mqttLog := self.log.Clone(log2.LDebug)
		mqtt.CRITICAL = mqttLog
		mqtt.ERROR = mqttLog
		mqtt.WARN = mqttLog
		if self.config.MqttLogDebug {
			mqtt.DEBUG = mqttLog
		}
	})

	networkTimeout := self.networkTimeout
	connectTimeout := 3 * networkTimeout
	keepaliveTimeout := helpers.IntSecondDefault(self.config.KeepaliveSec, networkTimeout/2)

	defaultHandler := func(_ mqtt.Client, msg mqtt.Message) {
		self.log.Errorf("tele unexpected mqtt message topic=%s", msg.Topic())
	}

	tlsconf := new(tls.Config)
	if self.config.TlsCaFile != "" {
		tlsconf.RootCAs = x509.NewCertPool()
		cabytes, err := ioutil.ReadFile(self.config.TlsCaFile)
		if err != nil {
			return nil, errors.Annotate(err, "tele TLS")
		}
		tlsconf.RootCAs.AppendCertsFromPEM(cabytes)
	}
	credFun := func() (string, string) {
		return self.config.ClientID, self.config.MqttPassword
	}
	opt := mqtt.NewClientOptions().
		AddBroker(self.config.MqttBroker).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetClientID(self.config.ClientID).
		SetConnectTimeout(connectTimeout).
		SetCredentialsProvider(credFun).
		SetDefaultPublishHandler(defaultHandler).
		SetKeepAlive(keepaliveTimeout).
		SetMaxReconnectInterval(connectTimeout).
		SetOnConnectHandler(self.onConnect).
		SetConnectionLostHandler(self.onConnectionLost).
		SetOrderMatters(true).
		SetPingTimeout(networkTimeout).
		SetTLSConfig(tlsconf).
		SetWriteTimeout(networkTimeout)
	return opt, nil
}

func (self *Tele) Start() { go self.online() }

func (self *Tele) Close() {
	self.once.Do(func() {
		close(self.stopCh)
		self.m.Disconnect(uint(time.Second / time.Millisecond))
	})
}

// Handle publishes decoded command word.
func (self *Tele) Handle(cmd types.Command) {
	self.log.Infof("tele command=%s", cmd.String())
	self.publish(self.topicCommand, []byte(cmd.String()))
}

func (self *Tele) HandleError(baseMsg string, fatal bool, detail string, value int) {
	r := NewErrorReport(baseMsg, fatal, detail, value)
	self.log.Errorf("tele command error=%s fatal=%t detail=%q value=%d", baseMsg, fatal, detail, value)
	self.sendError(r)
}

// Error is log2.ErrorFunc, forwards error log lines to printer.
func (self *Tele) Error(err error) {
	self.sendError(ErrorReport{Message: err.Error()})
}

func (self *Tele) sendError(r ErrorReport) {
	b, err := json.Marshal(r)
	if err != nil {
		self.log.Errorf("tele error report marshal err=%v", err)
		return
	}
	self.publish(self.topicError, b)
}

// publish does not wait for broker ack, callers run on input dispatch loop.
func (self *Tele) publish(topic string, payload []byte) {
	t := self.m.Publish(topic, 1, false, payload)
	go self.tokenWait(t, "publish "+topic, self.networkTimeout)
}

// online retries first connect, paho reconnects by itself after that.
func (self *Tele) online() {
	for self.isRunning() {
		self.log.Debugf("tele connect before")
		t := self.m.Connect()
		if self.tokenWait(t, "connect", 3*self.networkTimeout) == nil {
			return
		}
		time.Sleep(1 * time.Second)
	}
}

// onConnect runs after every (re)connect, clean session forgets subscriptions.
func (self *Tele) onConnect(c mqtt.Client) {
	self.log.Infof("tele mqtt connected")
	for _, sub := range []struct {
		topic string
		fun   mqtt.MessageHandler
	}{
		{self.topicUICommand, self.onUICommand},
		{self.topicStatus, self.onStatus},
	} {
		for self.isRunning() {
			t := c.Subscribe(sub.topic, 1, sub.fun)
			if self.tokenWait(t, "subscribe:"+sub.topic, self.networkTimeout) == nil {
				break // success path
			}
			if !c.IsConnectionOpen() {
				// next onConnect will subscribe again
				return
			}
			time.Sleep(1 * time.Second)
		}
	}
}

func (self *Tele) onConnectionLost(_ mqtt.Client, err error) {
	self.log.Infof("tele mqtt connection lost err=%v", err)
}

func (self *Tele) isRunning() bool {
	select {
	case <-self.stopCh:
		return false
	default:
		return true
	}
}

func (self *Tele) onUICommand(_ mqtt.Client, msg mqtt.Message) {
	self.fire(types.UICommandEvent(SourceTag, string(msg.Payload())))
	msg.Ack()
}

func (self *Tele) onStatus(_ mqtt.Client, msg mqtt.Message) {
	ps, err := ParseStatus(msg.Payload())
	msg.Ack()
	if err != nil {
		self.log.Errorf("tele topic=%s payload=%q err=%v", msg.Topic(), msg.Payload(), err)
		return
	}
	self.fire(types.StatusEvent(SourceTag, ps))
}

func (self *Tele) fire(e types.InputEvent) {
	if self.emit == nil {
		self.log.Debugf("tele no receiver, drop %s", e.String())
		return
	}
	self.emit(e)
}

func (self *Tele) tokenWait(t mqtt.Token, tag string, timeout time.Duration) error {
	if !t.WaitTimeout(timeout) {
		err := errors.Errorf("%s timeout", tag)
		self.log.Errorf("tele: MQTT %s", err.Error())
		return err
	}
	if err := t.Error(); err != nil {
		err = errors.Annotate(err, tag)
		self.log.Errorf("tele: MQTT %s", err.Error())
		return err
	}
	return nil
}

func (self *Tele) String() string {
	return fmt.Sprintf("tele broker=%s prefix=%s", self.config.MqttBroker, self.config.TopicPrefix)
}
