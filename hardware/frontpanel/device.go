package frontpanel

import (
	"fmt"
	"sync"

	"github.com/juju/errors"
	"github.com/paulrosania/go-charset/charset"
	_ "github.com/paulrosania/go-charset/data"
	"github.com/temoto/frontpanel/log2"
)

// Conn is addressed register access to front panel board.
// Write must be blocking and atomic: whole frame or error.
type Conn interface {
	Write(reg byte, b []byte) error
	Read(reg byte, b []byte) error
}

type BusError struct {
	Op    string
	Frame []byte
	Err   error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("front panel bus op=%s frame=%x err=%v", e.Op, e.Frame, e.Err)
}
func (e *BusError) Unwrap() error { return e.Err }

// IsBusError reports whether err (possibly annotated) came from bus transaction.
func IsBusError(err error) bool {
	_, ok := errors.Cause(err).(*BusError)
	return ok
}

// Device owns connection to front panel board for its lifetime.
type Device struct {
	log  *log2.Log
	conn Conn
	mu   sync.Mutex // only guards tr
	tr   charset.Translator
}

// New sends power-on sequence: display on, clear screen, stop ring animation, blank LEDs.
func New(conn Conn, log *log2.Log) (*Device, error) {
	self := &Device{log: log, conn: conn}
	if err := self.PowerOn(); err != nil {
		return nil, errors.Annotate(err, "front panel power-on")
	}
	return self, nil
}

func (self *Device) PowerOn() error {
	if err := self.write("display-on", FrameDisplayOn()); err != nil {
		return err
	}
	if err := self.ClearScreen(); err != nil {
		return err
	}
	if err := self.AnimateLEDRing(0); err != nil {
		return err
	}
	return self.ClearLEDs()
}

// SetCodepage enables text translation for display font, empty disables.
func (self *Device) SetCodepage(cp string) error {
	self.mu.Lock()
	defer self.mu.Unlock()

	if cp == "" {
		self.tr = nil
		return nil
	}
	tr, err := charset.TranslatorTo(cp)
	if err != nil {
		return errors.Annotatef(err, "codepage=%s", cp)
	}
	self.tr = tr
	return nil
}

func (self *Device) ClearScreen() error { return self.write("clear-screen", FrameClearScreen()) }
func (self *Device) ClearLEDs() error { return self.write("clear-leds", FrameLEDsClear()) }
func (self *Device) AnimateLEDRing(seq byte) error {
	return self.write("animate", FrameAnimate(seq))
}

func (self *Device) ShowText(x, y, size byte, color uint16, text string) error {
	return self.ShowTextAligned(AlignLeft, x, y, size, color, text)
}

// ShowTextAligned silently truncates text to MaxTextLen bytes after translation.
func (self *Device) ShowTextAligned(align Align, x, y, size byte, color uint16, text string) error {
	b, err := self.translate(text)
	if err != nil {
		return err
	}
	return self.write("text", FrameText(align, x, y, size, color, b))
}

// ShowLED n=0 stops animation and blanks ring. n>0 stops animation
// and lights single LED at full intensity: animation and single LED exclude each other.
func (self *Device) ShowLED(n int) error {
	if n < 0 || n > 0xff {
		return errors.NotValidf("LED index=%d", n)
	}
	if err := self.AnimateLEDRing(0); err != nil {
		return err
	}
	if n == 0 {
		return self.ClearLEDs()
	}
	return self.write("led", FrameLED(byte(n), IntensityFull))
}

// ReadButtons returns raw button code, 0 when nothing pressed.
func (self *Device) ReadButtons() (byte, error) {
	var buf [1]byte
	if err := self.conn.Read(RegButtons, buf[:]); err != nil {
		return 0, &BusError{Op: "read-buttons", Err: err}
	}
	return buf[0], nil
}

func (self *Device) write(op string, frame []byte) error {
	if self.log.Enabled(log2.LDebug) {
		self.log.Debugf("front panel %s", DescribeFrame(frame))
	}
	if err := self.conn.Write(RegUICommand, frame); err != nil {
		return &BusError{Op: op, Frame: frame, Err: err}
	}
	return nil
}

func (self *Device) translate(s string) ([]byte, error) {
	self.mu.Lock()
	defer self.mu.Unlock()

	if self.tr == nil {
		return []byte(s), nil
	}
	_, tb, err := self.tr.Translate([]byte(s), true)
	if err != nil {
		return nil, errors.Annotatef(err, "translate text=%q", s)
	}
	// translator reuses single internal buffer, make a copy
	return append([]byte(nil), tb...), nil
}
