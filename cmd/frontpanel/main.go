// Front panel daemon: reads buttons, keyboard and MQTT, shows printer status.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/frontpanel/hardware"
	"github.com/temoto/frontpanel/hardware/input"
	"github.com/temoto/frontpanel/helpers/cli"
	"github.com/temoto/frontpanel/internal/command"
	"github.com/temoto/frontpanel/internal/screen"
	"github.com/temoto/frontpanel/internal/state"
	"github.com/temoto/frontpanel/internal/tele"
	"github.com/temoto/frontpanel/internal/types"
	"github.com/temoto/frontpanel/internal/ui"
	"github.com/temoto/frontpanel/log2"
)

const keyboardSourceTag = "keyboard"

var log = log2.NewStderr(log2.LDebug)

func main() {
	flagConfig := flag.String("config", "frontpanel.hcl", "")
	flag.Parse()

	if sdnotify("start") {
		// under systemd, journal adds timestamps
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}

	config := state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig)
	if !config.LogDebug {
		log.SetLevel(log2.LInfo)
	}
	log.Debugf("config=%+v", config)

	if err := run(config); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
}

func run(config *state.Config) error {
	uiConfig, err := ui.ConfigFrom(&config.UI)
	if err != nil {
		return errors.Annotate(err, "config ui")
	}

	hw, err := hardware.Open(log, config)
	if err != nil {
		return errors.Annotate(err, "front panel")
	}
	defer hw.Close()

	a := alive.NewAlive()
	dispatch := input.NewDispatch(log, a.StopChan())

	var target command.Target = command.LogTarget{Log: log}
	if config.Tele.Enabled {
		tl, err := tele.New(log, config.Tele, dispatch.Emit)
		if err != nil {
			return errors.Annotate(err, "tele")
		}
		tl.Start()
		defer tl.Close()
		log.SetErrorFunc(tl.Error)
		target = tl
	}

	registry := screen.Build()
	controller := ui.NewController(hw.Panel, registry, uiConfig, log)
	interp := command.NewInterpreter(target, log)
	dispatch.SubscribeFunc("command", interp.Callback, nil,
		types.EventButtonInterrupt, types.EventUICommand, types.EventKeyboard)
	dispatch.SubscribeFunc("ui", controller.Callback, nil, types.EventPrinterStatusUpdate)

	sources, err := hw.Sources(log, config)
	if err != nil {
		return errors.Annotate(err, "input")
	}
	a.Add(1)
	go func() {
		defer a.Done()
		dispatch.Run(sources)
	}()
	log.Infof("front panel running mode=%s screens=%d sources=%d", controller.Mode().String(), registry.Len(), len(sources))
	sdnotify(daemon.SdNotifyReady)

	onSignal := func(s os.Signal) {
		log.Infof("signal=%v stopping", s)
		a.Stop()
	}
	if config.Hardware.Input.Keyboard.Enable {
		go func() {
			cli.MainLoop("frontpanel", func(line string) {
				dispatch.Emit(types.KeyboardEvent(keyboardSourceTag, line))
			}, nil, onSignal)
			a.Stop()
		}()
	} else {
		signalCh := make(chan os.Signal, 1)
		signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
		go func() { onSignal(<-signalCh) }()
	}

	a.Wait()
	sdnotify(daemon.SdNotifyStopping)
	return nil
}

func sdnotify(s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
