package input

import (
	"time"

	"github.com/juju/errors"
	"github.com/temoto/frontpanel/helpers"
	"github.com/temoto/frontpanel/internal/types"
	"github.com/temoto/frontpanel/log2"
	gpio "github.com/temoto/gpio-cdev-go"
)

const ButtonSourceTag = "front-panel"

const buttonWaitTimeout = 5 * time.Second

// ButtonReader is implemented by *frontpanel.Device.
type ButtonReader interface {
	ReadButtons() (byte, error)
}

// ButtonSource waits for panel interrupt line rising edge, then reads button register.
type ButtonSource struct {
	log   *log2.Log
	line  gpio.Eventer
	chip  gpio.Chiper // only for resource cleanup
	panel ButtonReader
}

var _ Source = new(ButtonSource)

func NewButtonSource(line gpio.Eventer, panel ButtonReader, log *log2.Log) *ButtonSource {
	return &ButtonSource{log: log, line: line, panel: panel}
}

func OpenButtonSource(chipPath string, pin uint32, panel ButtonReader, log *log2.Log) (*ButtonSource, error) {
	chip, err := gpio.Open(chipPath, "frontpanel")
	if err != nil {
		return nil, errors.Annotatef(err, "interrupt pin open chip=%s", chipPath)
	}
	line, err := chip.GetLineEvent(pin, 0, gpio.GPIOEVENT_REQUEST_RISING_EDGE, "frontpanel")
	if err != nil {
		_ = chip.Close()
		return nil, errors.Annotate(err, "gpio.GetLineEvent")
	}
	self := NewButtonSource(line, panel, log)
	self.chip = chip
	return self, nil
}

func (self *ButtonSource) String() string { return ButtonSourceTag }

func (self *ButtonSource) Read() (types.InputEvent, error) {
	for {
		_, err := self.line.Wait(buttonWaitTimeout)
		if gpio.IsTimeout(err) {
			continue
		}
		if err != nil {
			return types.InputEvent{}, errors.Annotate(err, "interrupt wait")
		}
		code, err := self.panel.ReadButtons()
		if err != nil {
			return types.InputEvent{}, errors.Trace(err)
		}
		if code == 0 {
			self.log.Debugf("%s interrupt without button", ButtonSourceTag)
			continue
		}
		return types.ButtonEvent(ButtonSourceTag, code), nil
	}
}

func (self *ButtonSource) Close() error {
	errs := []error{self.line.Close()}
	if self.chip != nil {
		errs = append(errs, self.chip.Close())
	}
	return helpers.FoldErrors(errs)
}
