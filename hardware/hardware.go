// Package hardware opens front panel bus and input sources from config.
package hardware

import (
	"io"

	"github.com/juju/errors"
	"github.com/temoto/frontpanel/hardware/frontpanel"
	"github.com/temoto/frontpanel/hardware/i2c"
	"github.com/temoto/frontpanel/hardware/input"
	"github.com/temoto/frontpanel/helpers"
	"github.com/temoto/frontpanel/internal/command"
	"github.com/temoto/frontpanel/internal/state"
	"github.com/temoto/frontpanel/log2"
)

type Hardware struct {
	Panel *frontpanel.Device
	// only set with mock driver
	Mock  *frontpanel.MockConn

	closers []io.Closer
}

// Open connects bus by configured driver and runs panel power-on sequence.
func Open(log *log2.Log, c *state.Config) (*Hardware, error) {
	fp := &c.Hardware.FrontPanel
	self := &Hardware{}
	var conn frontpanel.Conn
	switch fp.Driver {
	case state.DriverMock:
		self.Mock = frontpanel.NewMockConn()
		conn = self.Mock
	case state.DriverIoctl:
		bus := i2c.NewIoctlBus(fp.Bus)
		self.closers = append(self.closers, bus)
		conn = i2c.NewDevice(bus, byte(fp.Address))
	case state.DriverPeriph, "":
		bus, err := i2c.NewPeriphBus(fp.Bus)
		if err != nil {
			return nil, errors.Trace(err)
		}
		self.closers = append(self.closers, bus)
		conn = i2c.NewDevice(bus, byte(fp.Address))
	default:
		return nil, errors.NotValidf("front panel driver=%s", fp.Driver)
	}
	log.Debugf("front panel driver=%s bus=%s address=%02x", fp.Driver, fp.Bus, fp.Address)

	dev, err := frontpanel.New(conn, log)
	if err != nil {
		_ = self.Close()
		return nil, errors.Trace(err)
	}
	if err = dev.SetCodepage(fp.Codepage); err != nil {
		_ = self.Close()
		return nil, errors.Trace(err)
	}
	self.Panel = dev
	return self, nil
}

// Sources opens configured hardware input sources. Keyboard text is not
// a Source, it is read by cli.MainLoop.
func (self *Hardware) Sources(log *log2.Log, c *state.Config) ([]input.Source, error) {
	sources := make([]input.Source, 0, 2)
	fp := &c.Hardware.FrontPanel
	if fp.InterruptChip != "" {
		src, err := input.OpenButtonSource(fp.InterruptChip, uint32(fp.InterruptPin), self.Panel, log)
		if err != nil {
			return nil, errors.Trace(err)
		}
		self.closers = append(self.closers, src)
		sources = append(sources, src)
	}
	die := &c.Hardware.Input.DevInputEvent
	if die.Enable {
		src, err := input.NewDevInputEventSource(die.Device, Keymap(die.Button1Key, die.Button2Key), log)
		if err != nil {
			return nil, errors.Trace(err)
		}
		self.closers = append(self.closers, src)
		sources = append(sources, src)
	}
	return sources, nil
}

// Keymap maps input key codes to panel button codes, zero key is skipped.
func Keymap(button1Key, button2Key int) map[uint16]byte {
	m := make(map[uint16]byte, 2)
	if button1Key > 0 {
		m[uint16(button1Key)] = command.Btn1Press
	}
	if button2Key > 0 {
		m[uint16(button2Key)] = command.Btn2Press
	}
	return m
}

func (self *Hardware) Close() error {
	errs := make([]error, 0, len(self.closers))
	for i := len(self.closers) - 1; i >= 0; i-- {
		errs = append(errs, self.closers[i].Close())
	}
	self.closers = nil
	return helpers.FoldErrors(errs)
}
