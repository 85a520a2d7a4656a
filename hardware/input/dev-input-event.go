package input

import (
	"io"
	"os"

	"github.com/juju/errors"
	"github.com/temoto/frontpanel/internal/types"
	"github.com/temoto/frontpanel/log2"
	"github.com/temoto/inputevent-go"
)

const DevInputEventTag = "dev-input-event"

// linux/input-event-codes.h
const evKey = 0x01

// DevInputEventSource maps key presses of /dev/input/eventN keyboard
// (e.g. GPIO buttons driver) to front panel button codes.
type DevInputEventSource struct {
	log    *log2.Log
	f      io.ReadCloser
	keymap map[uint16]byte
}

// compile-time interface compliance test
var _ Source = new(DevInputEventSource)

func (self *DevInputEventSource) String() string { return DevInputEventTag }

func NewDevInputEventSource(device string, keymap map[uint16]byte, log *log2.Log) (*DevInputEventSource, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, errors.Annotatef(err, "%s open", DevInputEventTag)
	}
	return NewDevInputEventReader(f, keymap, log), nil
}

func NewDevInputEventReader(r io.ReadCloser, keymap map[uint16]byte, log *log2.Log) *DevInputEventSource {
	return &DevInputEventSource{log: log, f: r, keymap: keymap}
}

func (self *DevInputEventSource) Close() error { return self.f.Close() }

func (self *DevInputEventSource) Read() (types.InputEvent, error) {
	for {
		ie, err := inputevent.ReadOne(self.f)
		if err != nil {
			return types.InputEvent{}, err
		}
		if ie.Type != evKey || ie.Value != int32(inputevent.KeyStateDown) {
			continue
		}
		code, ok := self.keymap[ie.Code]
		if !ok {
			self.log.Debugf("%s unmapped key=%d", DevInputEventTag, ie.Code)
			continue
		}
		return types.ButtonEvent(DevInputEventTag, code), nil
	}
}
