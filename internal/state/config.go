// Package state reads daemon configuration.
package state

import (
	"path/filepath"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/frontpanel/helpers"
	tele_config "github.com/temoto/frontpanel/internal/tele/config"
	ui_config "github.com/temoto/frontpanel/internal/ui/config"
	"github.com/temoto/frontpanel/log2"
)

const (
	DriverPeriph = "periph"
	DriverIoctl  = "ioctl"
	DriverMock   = "mock"

	DefaultAddress = 0x10
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	LogDebug bool `hcl:"log_debug"`

	Hardware struct {
		FrontPanel struct {
			Driver        string `hcl:"driver"`
			Bus           string `hcl:"bus"`
			Address       int    `hcl:"address"`
			Codepage      string `hcl:"codepage"`
			InterruptChip string `hcl:"interrupt_chip"`
			InterruptPin  int    `hcl:"interrupt_pin"`
		} `hcl:"front_panel"`
		Input struct {
			DevInputEvent struct {
				Enable     bool   `hcl:"enable"`
				Device     string `hcl:"device"`
				Button1Key int    `hcl:"button1_key"`
				Button2Key int    `hcl:"button2_key"`
			} `hcl:"dev_input_event"`
			Keyboard struct {
				Enable bool `hcl:"enable"`
			} `hcl:"keyboard"`
		}
	}

	Tele tele_config.Config
	UI   ui_config.Config
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

// Validate fills defaults and checks values that HCL types can't express.
func (c *Config) Validate() error {
	fp := &c.Hardware.FrontPanel
	switch fp.Driver {
	case "":
		fp.Driver = DriverPeriph
	case DriverPeriph, DriverIoctl, DriverMock:
	default:
		return errors.NotValidf("config hardware.front_panel.driver=%s", fp.Driver)
	}
	if fp.Address == 0 {
		fp.Address = DefaultAddress
	}
	if fp.Address < 0 || fp.Address > 0x7f {
		return errors.NotValidf("config hardware.front_panel.address=%d", fp.Address)
	}
	if fp.Driver == DriverIoctl && fp.Bus == "" {
		return errors.NotValidf("config hardware.front_panel.bus=empty with driver=ioctl")
	}
	if fp.InterruptPin < 0 {
		return errors.NotValidf("config hardware.front_panel.interrupt_pin=%d", fp.InterruptPin)
	}
	die := &c.Hardware.Input.DevInputEvent
	if die.Enable && die.Device == "" {
		return errors.NotValidf("config hardware.input.dev_input_event.device=empty")
	}
	if c.Tele.Enabled && c.Tele.MqttBroker == "" {
		return errors.NotValidf("config tele.mqtt_broker=empty")
	}
	return nil
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		*errs = append(*errs, errors.Errorf("config duplicate source=%s", source.Name))
		return
	}
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		log.Fatal("code error [Must]ReadConfig() without names")
	}

	names = append([]string(nil), names...)
	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	if len(errs) == 0 {
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
