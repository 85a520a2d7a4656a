package i2c

import (
	"github.com/juju/errors"
	"github.com/temoto/frontpanel/hardware/frontpanel"
)

// Device is register access to one bus slave. Each access is single Tx
// prefixed with register byte.
type Device struct {
	Bus  Bus
	Addr byte
	buf  []byte
}

var _ frontpanel.Conn = &Device{} // compile-time interface test

func NewDevice(bus Bus, addr byte) *Device {
	return &Device{Bus: bus, Addr: addr, buf: make([]byte, 0, 64)}
}

func (self *Device) Write(reg byte, b []byte) error {
	self.buf = append(self.buf[:0], reg)
	self.buf = append(self.buf, b...)
	if err := self.Bus.Tx(self.Addr, self.buf, nil); err != nil {
		return errors.Annotatef(err, "i2c write addr=%02x reg=%02x", self.Addr, reg)
	}
	return nil
}

func (self *Device) Read(reg byte, b []byte) error {
	if err := self.Bus.Tx(self.Addr, []byte{reg}, b); err != nil {
		return errors.Annotatef(err, "i2c read addr=%02x reg=%02x", self.Addr, reg)
	}
	return nil
}
