package i2c

import (
	"github.com/juju/errors"
	periph_i2c "periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"
)

type periphBus struct {
	bus periph_i2c.BusCloser
}

// NewPeriphBus opens bus by periph registry name, e.g. "1" or "/dev/i2c-1".
// Empty name selects first available bus.
func NewPeriphBus(name string) (Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Annotate(err, "periph host.Init")
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, errors.Annotatef(err, "periph i2c open bus=%s", name)
	}
	return &periphBus{bus: bus}, nil
}

func (self *periphBus) Tx(addr byte, bw []byte, br []byte) error {
	if len(bw) == 0 && len(br) == 0 {
		return errors.Errorf("i2c.Tx both bw=br=nil nothing to do")
	}
	return self.bus.Tx(uint16(addr), bw, br)
}

func (self *periphBus) Close() error { return self.bus.Close() }
