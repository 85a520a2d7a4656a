// Bench tool: drive front panel board by hand, or print frames with -driver=mock.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/temoto/frontpanel/hardware"
	"github.com/temoto/frontpanel/hardware/frontpanel"
	"github.com/temoto/frontpanel/helpers/cli"
	"github.com/temoto/frontpanel/internal/command"
	"github.com/temoto/frontpanel/internal/screen"
	"github.com/temoto/frontpanel/internal/state"
	"github.com/temoto/frontpanel/internal/types"
	"github.com/temoto/frontpanel/internal/ui"
	"github.com/temoto/frontpanel/log2"
)

const usage = `syntax: one command per line
- on                     power-on sequence
- clear                  clear screen
- text X Y SIZE TEXT     left aligned text
- center Y SIZE TEXT     centered text
- right Y SIZE TEXT      right aligned text
- led N                  show progress LED N, 0 clears ring
- ledclear               clear ring LEDs
- anim N                 start ring animation sequence N
- btn                    read buttons register
- screen STATE [SUB]     render registered screen
- status STATE [LAYER LAYERS SECONDS]  entering status in status mode
- cmd TEXT               decode text command
- keys                   list registered screens
`

type bench struct {
	log        *log2.Log
	hw         *hardware.Hardware
	registry   *screen.Registry
	screens    *ui.Controller
	status     *ui.Controller
	suggestion []prompt.Suggest
}

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	driver := cmdline.String("driver", state.DriverPeriph, "periph|ioctl|mock")
	bus := cmdline.String("bus", "", "i2c bus name or /dev/i2c-N")
	addr := cmdline.Uint("addr", state.DefaultAddress, "")
	codepage := cmdline.String("codepage", "", "display font charset")
	ringSize := cmdline.Int("ring", ui.DefaultRingSize, "LED ring size")
	_ = cmdline.Parse(os.Args[1:])

	log := log2.NewStderr(log2.LDebug)
	log.SetFlags(log2.LInteractiveFlags)

	config := &state.Config{}
	fp := &config.Hardware.FrontPanel
	fp.Driver = *driver
	fp.Bus = *bus
	fp.Address = int(*addr)
	fp.Codepage = *codepage
	if err := config.Validate(); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}

	hw, err := hardware.Open(log, config)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	defer hw.Close()

	registry := screen.Build()
	b := &bench{
		log:      log,
		hw:       hw,
		registry: registry,
		screens:  ui.NewController(hw.Panel, registry, ui.Config{Mode: ui.ModeScreens, RingSize: *ringSize}, log),
		status:   ui.NewController(hw.Panel, registry, ui.Config{Mode: ui.ModeStatus, RingSize: *ringSize}, log),
	}
	b.dump()
	cli.MainLoop("frontpanel-cli", b.exec, b.complete, nil)
}

func (self *bench) exec(line string) {
	if err := self.do(strings.Fields(line)); err != nil {
		self.log.Errorf("%s err=%v", line, errors.ErrorStack(err))
	}
	self.dump()
}

func (self *bench) do(words []string) error {
	if len(words) == 0 {
		return nil
	}
	dev := self.hw.Panel
	args := words[1:]
	switch words[0] {
	case "help":
		fmt.Print(usage)
	case "on":
		return dev.PowerOn()
	case "clear":
		return dev.ClearScreen()
	case "ledclear":
		return dev.ClearLEDs()
	case "text":
		ns, text, err := parseInts(args, 3)
		if err != nil {
			return err
		}
		return dev.ShowText(byte(ns[0]), byte(ns[1]), byte(ns[2]), frontpanel.ColorWhite, text)
	case "center", "right":
		ns, text, err := parseInts(args, 2)
		if err != nil {
			return err
		}
		align, x := frontpanel.AlignCenter, byte(64)
		if words[0] == "right" {
			align, x = frontpanel.AlignRight, 127
		}
		return dev.ShowTextAligned(align, x, byte(ns[0]), byte(ns[1]), frontpanel.ColorWhite, text)
	case "led", "anim":
		ns, _, err := parseInts(args, 1)
		if err != nil {
			return err
		}
		if words[0] == "anim" {
			return dev.AnimateLEDRing(byte(ns[0]))
		}
		return dev.ShowLED(ns[0])
	case "btn":
		code, err := dev.ReadButtons()
		if err != nil {
			return err
		}
		cmd, err := command.DecodeButton(code)
		fmt.Printf("buttons=%02x command=%s err=%v\n", code, cmd.String(), err)
	case "screen":
		if len(args) == 0 {
			return errors.NotValidf("screen STATE [SUB]")
		}
		ps := types.PrinterStatus{
			State:  types.ParsePrintEngineState(args[0]),
			Change: types.ChangeEntering,
		}
		if len(args) > 1 {
			ps.SubState = types.ParseUISubState(args[1])
		}
		return self.screens.ShowScreen(&ps)
	case "status":
		if len(args) == 0 {
			return errors.NotValidf("status STATE [LAYER LAYERS SECONDS]")
		}
		ps := types.PrinterStatus{
			StateName: args[0],
			State:     types.ParsePrintEngineState(args[0]),
			Change:    types.ChangeEntering,
		}
		if len(args) > 1 {
			ns, _, err := parseInts(args[1:], 3)
			if err != nil {
				return err
			}
			ps.CurrentLayer, ps.NumLayers, ps.EstimatedSecondsRemaining = ns[0], ns[1], ns[2]
		}
		return self.status.ShowStatus(&ps)
	case "cmd":
		cmd, err := command.DecodeText(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("command=%s\n", cmd.String())
	case "keys":
		for _, k := range self.registry.Keys() {
			e := self.registry.LookupKey(k)
			if e.Unchanged() {
				fmt.Printf("%s unchanged\n", k.String())
			} else {
				fmt.Printf("%s lines=%d led=%d rule=%s\n", k.String(), len(e.Screen().Text), e.Screen().LEDAnimation, e.Screen().Rule.String())
			}
		}
	default:
		return errors.NotFoundf("command=%s, try help", words[0])
	}
	return nil
}

// dump prints frames written to mock connection.
func (self *bench) dump() {
	if self.hw.Mock == nil {
		return
	}
	for _, s := range self.hw.Mock.Describe() {
		fmt.Println("  " + s)
	}
}

func (self *bench) complete(d prompt.Document) []prompt.Suggest {
	if self.suggestion == nil {
		for _, line := range strings.Split(strings.TrimSpace(usage), "\n")[1:] {
			fields := strings.Fields(strings.TrimPrefix(line, "- "))
			desc := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(line, "- "), fields[0]))
			self.suggestion = append(self.suggestion, prompt.Suggest{Text: fields[0], Description: desc})
		}
		self.suggestion = append(self.suggestion, prompt.Suggest{Text: "help"})
	}
	return prompt.FilterHasPrefix(self.suggestion, d.GetWordBeforeCursor(), true)
}

// parseInts reads n leading integers, the rest is joined as text.
func parseInts(args []string, n int) ([]int, string, error) {
	if len(args) < n {
		return nil, "", errors.NotValidf("expected %d numbers, got %d words", n, len(args))
	}
	ns := make([]int, n)
	for i := 0; i < n; i++ {
		x, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, "", errors.Annotatef(err, "arg %d", i+1)
		}
		ns[i] = x
	}
	return ns, strings.Join(args[n:], " "), nil
}
