// Package ui renders printer status onto front panel display and LED ring.
package ui

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/frontpanel/hardware/frontpanel"
	"github.com/temoto/frontpanel/internal/screen"
	"github.com/temoto/frontpanel/internal/types"
	ui_config "github.com/temoto/frontpanel/internal/ui/config"
	"github.com/temoto/frontpanel/log2"
)

const DefaultRingSize = 21

// Idle animations cycle 1..maxIdleAnimation on every return to Home.
const maxIdleAnimation = screen.SeqIdleAnimations

type Mode uint8

const (
	ModeStatus Mode = iota
	ModeScreens
)

func (m Mode) String() string {
	switch m {
	case ModeStatus:
		return "status"
	case ModeScreens:
		return "screens"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "status":
		return ModeStatus, nil
	case "screens":
		return ModeScreens, nil
	}
	return ModeStatus, errors.NotValidf("ui mode=%s", s)
}

type Config struct {
	Mode     Mode
	RingSize int
}

func ConfigFrom(c *ui_config.Config) (Config, error) {
	mode, err := ParseMode(c.FrontPanel.Mode)
	if err != nil {
		return Config{}, errors.Annotate(err, "ui.front_panel")
	}
	return Config{Mode: mode, RingSize: c.FrontPanel.RingSize}, nil
}

// Renderer is implemented by *frontpanel.Device.
type Renderer interface {
	ClearScreen() error
	ShowText(x, y, size byte, color uint16, text string) error
	ShowTextAligned(align frontpanel.Align, x, y, size byte, color uint16, text string) error
	ShowLED(n int) error
	ClearLEDs() error
	AnimateLEDRing(seq byte) error
}

var _ Renderer = &frontpanel.Device{} // compile-time interface test

// Controller is not safe for concurrent use, callers serialize via input.Dispatch.
type Controller struct {
	log      *log2.Log
	dev      Renderer
	registry *screen.Registry
	config   Config
	idleAnim byte
}

func NewController(dev Renderer, registry *screen.Registry, config Config, log *log2.Log) *Controller {
	if dev == nil {
		panic("code error ui.NewController dev=nil")
	}
	if registry == nil {
		registry = screen.Build()
	}
	if config.RingSize <= 0 {
		config.RingSize = DefaultRingSize
	}
	return &Controller{
		log:      log,
		dev:      dev,
		registry: registry,
		config:   config,
	}
}

func (self *Controller) Mode() Mode { return self.config.Mode }

// Callback handles printer status updates, other events are impossible here.
func (self *Controller) Callback(e types.InputEvent) {
	if e.Type != types.EventPrinterStatusUpdate {
		self.log.Errorf("ui impossible event %s", e.String())
		return
	}
	ps := e.Status
	var err error
	switch self.config.Mode {
	case ModeScreens:
		err = self.ShowScreen(&ps)
	default:
		err = self.ShowStatus(&ps)
	}
	if err != nil {
		self.log.Errorf("ui show %s err=%v", ps.String(), errors.ErrorStack(err))
	}
}

// ShouldRender is the only redraw guard: act on entering edge, stay silent otherwise.
func ShouldRender(ps *types.PrinterStatus) bool {
	return ps.Change == types.ChangeEntering
}

// ShowStatus draws generic status text. While printing, Exposing shows
// remaining time and progress LED, Separating keeps previous screen.
// Entering Home advances idle ring animation.
func (self *Controller) ShowStatus(ps *types.PrinterStatus) error {
	if !ShouldRender(ps) {
		return nil
	}
	state := ps.EngineState()
	if ps.IsPrinting() {
		switch state {
		case types.StateExposing:
			v := screen.ValuesFromStatus(ps, self.config.RingSize)
			if err := self.dev.ClearScreen(); err != nil {
				return errors.Trace(err)
			}
			if err := self.dev.ShowText(10, 50, 2, frontpanel.ColorWhite, v.Remaining()); err != nil {
				return errors.Trace(err)
			}
			return errors.Trace(self.dev.ShowLED(v.ProgressLED))
		case types.StateSeparating:
			return nil
		}
		return self.showName(ps)
	}

	if err := self.showName(ps); err != nil {
		return err
	}
	if state == types.StateHome {
		self.idleAnim = nextIdleAnimation(self.idleAnim)
		return errors.Trace(self.dev.AnimateLEDRing(self.idleAnim))
	}
	return nil
}

func (self *Controller) showName(ps *types.PrinterStatus) error {
	if err := self.dev.ClearScreen(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(self.dev.ShowText(1, 30, 1, frontpanel.ColorWhite, ps.Name()))
}

func nextIdleAnimation(n byte) byte {
	n++
	if n > maxIdleAnimation {
		n = 1
	}
	return n
}

// ShowScreen draws registry screen for (state, substate).
func (self *Controller) ShowScreen(ps *types.PrinterStatus) error {
	if !ShouldRender(ps) {
		return nil
	}
	state := ps.EngineState()
	key := screen.GetKey(state, ps.SubState)
	e := self.registry.LookupKey(key)
	if e.Unchanged() {
		self.log.Debugf("ui screen=%s unchanged", key.String())
		return nil
	}
	v := screen.ValuesFromStatus(ps, self.config.RingSize)
	return errors.Annotatef(self.Render(e.Screen(), v), "screen=%s", key.String())
}

// Render draws s regardless of printer state, stops at first bus error.
func (self *Controller) Render(s *screen.Screen, v screen.Values) error {
	if s.ClearScreen {
		if err := self.dev.ClearScreen(); err != nil {
			return err
		}
	}
	for _, l := range s.Lines(v) {
		if err := self.dev.ShowTextAligned(l.Align, l.X, l.Y, l.Size, l.Color, l.Text); err != nil {
			return err
		}
	}
	if s.Rule == screen.RuleStatusText {
		return self.dev.ShowLED(v.ProgressLED)
	}
	if s.ClearLEDs {
		if err := self.dev.ClearLEDs(); err != nil {
			return err
		}
	}
	if s.LEDAnimation != 0 {
		return self.dev.AnimateLEDRing(s.LEDAnimation)
	}
	return nil
}
