package input

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"sync"
	"testing"
	"time"
	"unsafe"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/temoto/frontpanel/hardware/frontpanel"
	"github.com/temoto/frontpanel/internal/types"
	"github.com/temoto/frontpanel/log2"
	gpio "github.com/temoto/gpio-cdev-go"
	gpio_mock "github.com/temoto/gpio-cdev-go/mock"
	"github.com/temoto/inputevent-go"
)

func TestDispatchDoubleSubscribe(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	dstop := make(chan struct{})
	d := NewDispatch(log, dstop)

	go func() {
		sub1stop := make(chan struct{})
		d.SubscribeChan("name", sub1stop)
		close(sub1stop)
		sub2stop := make(chan struct{})
		d.SubscribeChan("name", sub2stop)
		close(dstop)
	}()

	d.Run(nil)
}

type sliceSource struct {
	events []types.InputEvent
}

func (self *sliceSource) String() string { return "slice" }
func (self *sliceSource) Read() (types.InputEvent, error) {
	if len(self.events) == 0 {
		return types.InputEvent{}, io.EOF
	}
	e := self.events[0]
	self.events = self.events[1:]
	return e, nil
}

func TestDispatchRouting(t *testing.T) {
	t.Parallel()

	// source goroutine may outlive test, nil log is silent
	stop := make(chan struct{})
	d := NewDispatch(nil, stop)

	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(4)
	commands := []string{}
	statuses := []string{}
	d.SubscribeFunc("command", func(e types.InputEvent) {
		mu.Lock()
		commands = append(commands, e.Type.String())
		mu.Unlock()
		wg.Done()
	}, nil, types.EventButtonInterrupt, types.EventUICommand, types.EventKeyboard)
	d.SubscribeFunc("ui", func(e types.InputEvent) {
		mu.Lock()
		statuses = append(statuses, e.Status.StateName)
		mu.Unlock()
		wg.Done()
	}, nil, types.EventPrinterStatusUpdate)

	src := &sliceSource{events: []types.InputEvent{
		types.ButtonEvent("test", 0x01),
		types.StatusEvent("test", types.PrinterStatus{StateName: "Home"}),
		types.KeyboardEvent("test", "pause"),
		types.UICommandEvent("test", "start"),
	}}
	done := make(chan struct{})
	go func() {
		d.Run([]Source{src})
		close(done)
	}()
	wg.Wait()
	close(stop)
	<-done

	assert.Equal(t, []string{"ButtonInterrupt", "Keyboard", "UICommand"}, commands)
	assert.Equal(t, []string{"Home"}, statuses)
}

func TestDispatchChanUnsubscribe(t *testing.T) {
	t.Parallel()

	stop := make(chan struct{})
	d := NewDispatch(nil, stop)
	ch := d.SubscribeChan("all", nil)
	go d.Run(nil)

	go d.Emit(types.UICommandEvent("test", "cancel"))
	e := <-ch
	assert.Equal(t, "cancel", e.Text)

	d.Unsubscribe("all")
	_, ok := <-ch
	assert.False(t, ok)
	assert.Panics(t, func() { d.Unsubscribe("all") })
	close(stop)
}

type timeoutError struct{}

func (timeoutError) Error() string { return "timeout" }
func (timeoutError) Timeout() bool { return true }

type buttonsMock struct {
	codes []byte
	err   error
}

func (self *buttonsMock) ReadButtons() (byte, error) {
	if self.err != nil {
		return 0, self.err
	}
	if len(self.codes) == 0 {
		return 0, nil
	}
	c := self.codes[0]
	self.codes = self.codes[1:]
	return c, nil
}

func TestButtonSource(t *testing.T) {
	t.Parallel()

	line := &gpio_mock.MockEvent{}
	line.On("Wait", mock.AnythingOfType("time.Duration")).Return(gpio.EventData{}, timeoutError{}).Once()
	line.On("Wait", mock.AnythingOfType("time.Duration")).Return(gpio.EventData{ID: gpio.GPIOEVENT_EVENT_RISING_EDGE}, nil)
	line.On("Close").Return(nil)

	panel := &buttonsMock{codes: []byte{0x00, 0x04}}
	src := NewButtonSource(line, panel, log2.NewTest(t, log2.LDebug))
	e, err := src.Read()
	require.NoError(t, err)
	assert.Equal(t, types.EventButtonInterrupt, e.Type)
	assert.Equal(t, byte(0x04), e.Button)
	assert.Equal(t, ButtonSourceTag, e.Source)
	line.AssertNumberOfCalls(t, "Wait", 3)

	panel.err = fmt.Errorf("nack")
	_, err = src.Read()
	assert.Error(t, err)
	assert.NoError(t, src.Close())
}

func TestButtonSourceDevice(t *testing.T) {
	t.Parallel()

	line := &gpio_mock.MockEvent{}
	line.On("Wait", mock.AnythingOfType("time.Duration")).Return(gpio.EventData{}, nil)
	conn := frontpanel.NewMockConn()
	dev, err := frontpanel.New(conn, nil)
	require.NoError(t, err)
	conn.PushButton(0x01)
	src := NewButtonSource(line, dev, nil)
	e, err := src.Read()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), e.Button)

	conn.ReadErr = fmt.Errorf("timeout")
	_, err = src.Read()
	assert.True(t, frontpanel.IsBusError(err))
}

func encodeInputEvent(typ, code uint16, value int32) []byte {
	ev := inputevent.InputEvent{Type: typ, Code: code, Value: value}
	b := (*[inputevent.EventSizeof]byte)(unsafe.Pointer(&ev))
	return append([]byte(nil), b[:]...)
}

func TestDevInputEventSource(t *testing.T) {
	t.Parallel()

	const keyEnter, keyEsc, keyA = 28, 1, 30
	buf := &bytes.Buffer{}
	buf.Write(encodeInputEvent(0, 0, 0)) // EV_SYN
	buf.Write(encodeInputEvent(evKey, keyA, int32(inputevent.KeyStateDown)))
	buf.Write(encodeInputEvent(evKey, keyEnter, int32(inputevent.KeyStateDown)))
	buf.Write(encodeInputEvent(evKey, keyEnter, int32(inputevent.KeyStateUp)))
	buf.Write(encodeInputEvent(evKey, keyEsc, int32(inputevent.KeyStateHold)))
	buf.Write(encodeInputEvent(evKey, keyEsc, int32(inputevent.KeyStateDown)))

	keymap := map[uint16]byte{keyEnter: 0x01, keyEsc: 0x04}
	src := NewDevInputEventReader(ioutil.NopCloser(buf), keymap, log2.NewTest(t, log2.LDebug))
	e, err := src.Read()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), e.Button)
	assert.Equal(t, DevInputEventTag, e.Source)
	e, err = src.Read()
	require.NoError(t, err)
	assert.Equal(t, byte(0x04), e.Button)
	_, err = src.Read()
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, src.Close())
}

func TestReadSourceEOF(t *testing.T) {
	t.Parallel()

	stop := make(chan struct{})
	d := NewDispatch(nil, stop)
	got := make(chan types.InputEvent, 1)
	d.SubscribeFunc("x", func(e types.InputEvent) { got <- e }, nil)
	go d.Run([]Source{&sliceSource{events: []types.InputEvent{types.KeyboardEvent("test", "start")}}})
	select {
	case e := <-got:
		assert.Equal(t, "start", e.Text)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout")
	}
	close(stop)
}

type closedSource struct{}

func (closedSource) String() string { return "closed" }
func (closedSource) Read() (types.InputEvent, error) {
	return types.InputEvent{}, errors.New("file already closed")
}

func TestReadSourceAfterStop(t *testing.T) {
	t.Parallel()

	stop := make(chan struct{})
	close(stop)
	// Fatal would fail the test via NewTest
	d := NewDispatch(log2.NewTest(t, log2.LDebug), stop)
	d.readSource(closedSource{})
}
