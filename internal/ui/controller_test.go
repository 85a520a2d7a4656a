package ui

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/frontpanel/hardware/frontpanel"
	"github.com/temoto/frontpanel/internal/screen"
	"github.com/temoto/frontpanel/internal/types"
	ui_config "github.com/temoto/frontpanel/internal/ui/config"
	"github.com/temoto/frontpanel/log2"
)

func testController(t testing.TB, mode Mode) (*Controller, *frontpanel.MockConn) {
	conn := frontpanel.NewMockConn()
	log := log2.NewTest(t, log2.LDebug)
	dev, err := frontpanel.New(conn, log)
	require.NoError(t, err)
	conn.Frames()
	return NewController(dev, screen.Build(), Config{Mode: mode}, log), conn
}

func entering(name string, layer int) types.InputEvent {
	return types.StatusEvent("test", types.PrinterStatus{StateName: name, CurrentLayer: layer, NumLayers: 20, Change: types.ChangeEntering})
}

func TestShowStatusExposing(t *testing.T) {
	t.Parallel()

	c, conn := testController(t, ModeStatus)
	ps := &types.PrinterStatus{CurrentLayer: 5, NumLayers: 20, EstimatedSecondsRemaining: 125, StateName: "Exposing", Change: types.ChangeEntering}
	require.NoError(t, c.ShowStatus(ps))
	assert.Equal(t, []string{
		"oled-clear",
		`oled-text align=left x=10 y=50 size=2 color=ffff text="0:02"`,
		"ring-sequence id=0",
		"ring-led index=4 intensity=ffff",
	}, conn.Describe())
}

func TestShowStatusPrinting(t *testing.T) {
	t.Parallel()

	c, conn := testController(t, ModeStatus)
	require.NoError(t, c.ShowStatus(&types.PrinterStatus{CurrentLayer: 2, NumLayers: 20, StateName: "Separating", Change: types.ChangeEntering}))
	assert.Empty(t, conn.Frames(), "Separating must keep previous screen")

	require.NoError(t, c.ShowStatus(&types.PrinterStatus{CurrentLayer: 2, NumLayers: 20, State: types.StatePrintingLayer, Change: types.ChangeEntering}))
	assert.Equal(t, []string{"oled-clear", `oled-text align=left x=1 y=30 size=1 color=ffff text="PrintingLayer"`}, conn.Describe())
}

func TestShowStatusHomeAnimationWraps(t *testing.T) {
	t.Parallel()

	c, conn := testController(t, ModeStatus)
	home := &types.PrinterStatus{StateName: "Home", Change: types.ChangeEntering}
	for i := 1; i <= 8; i++ {
		require.NoError(t, c.ShowStatus(home))
		expect := i
		if i == 8 {
			expect = 1
		}
		assert.Equal(t, []string{
			"oled-clear",
			`oled-text align=left x=1 y=30 size=1 color=ffff text="Home"`,
			fmt.Sprintf("ring-sequence id=%d", expect),
		}, conn.Describe(), "entry=%d", i)
	}

	require.NoError(t, c.ShowStatus(&types.PrinterStatus{StateName: "DoorOpen", Change: types.ChangeEntering}))
	assert.Equal(t, []string{"oled-clear", `oled-text align=left x=1 y=30 size=1 color=ffff text="DoorOpen"`}, conn.Describe())
}

func TestShowStatusOnlyEntering(t *testing.T) {
	t.Parallel()

	c, conn := testController(t, ModeStatus)
	names := []string{"Exposing", "Separating", "Home", "Homing", "Idle", "unknown state"}
	for _, change := range []types.Change{types.ChangeNoChange, types.ChangeLeaving} {
		for _, name := range names {
			for _, layer := range []int{0, 1, 7} {
				ps := &types.PrinterStatus{StateName: name, CurrentLayer: layer, NumLayers: 10, Change: change}
				assert.False(t, ShouldRender(ps))
				require.NoError(t, c.ShowStatus(ps))
				require.NoError(t, c.ShowScreen(ps))
				assert.Empty(t, conn.Frames(), "change=%s name=%s layer=%d", change.String(), name, layer)
			}
		}
	}
	assert.True(t, ShouldRender(&types.PrinterStatus{Change: types.ChangeEntering}))
}

func TestShowStatusEmptyName(t *testing.T) {
	t.Parallel()

	c, conn := testController(t, ModeStatus)
	require.NoError(t, c.ShowStatus(&types.PrinterStatus{Change: types.ChangeEntering}))
	assert.Equal(t, []string{"oled-clear", `oled-text align=left x=1 y=30 size=1 color=ffff text=""`}, conn.Describe())
}

func TestShowStatusBusError(t *testing.T) {
	t.Parallel()

	c, conn := testController(t, ModeStatus)
	conn.WriteErr = fmt.Errorf("nack")
	conn.FailAfter = 1
	err := c.ShowStatus(&types.PrinterStatus{CurrentLayer: 5, NumLayers: 20, StateName: "Exposing", Change: types.ChangeEntering})
	require.Error(t, err)
	assert.True(t, frontpanel.IsBusError(err))
	assert.Equal(t, []string{"oled-clear"}, conn.Describe())
}

func TestShowScreen(t *testing.T) {
	t.Parallel()

	c, conn := testController(t, ModeScreens)

	// Unchanged entry
	require.NoError(t, c.ShowScreen(&types.PrinterStatus{State: types.StateHome, Change: types.ChangeEntering}))
	assert.Empty(t, conn.Frames())

	require.NoError(t, c.ShowScreen(&types.PrinterStatus{State: types.StateHome, SubState: types.SubStateDownloaded, JobName: "gear", Change: types.ChangeEntering}))
	fs := conn.Describe()
	require.Len(t, fs, 1+7+2)
	assert.Equal(t, "oled-clear", fs[0])
	assert.Equal(t, `oled-text align=center x=64 y=6 size=1 color=ffff text="gear"`, fs[1])
	assert.Equal(t, []string{"ring-clear", fmt.Sprintf("ring-sequence id=%d", screen.SeqStartLoaded)}, fs[8:])

	// paused keeps lit LEDs
	require.NoError(t, c.ShowScreen(&types.PrinterStatus{State: types.StatePaused, Change: types.ChangeEntering}))
	fs = conn.Describe()
	assert.Equal(t, fmt.Sprintf("ring-sequence id=%d", screen.SeqPaused), fs[len(fs)-1])
	assert.NotContains(t, fs, "ring-clear")

	// door closing: clear screen, blank LEDs, no animation
	require.NoError(t, c.ShowScreen(&types.PrinterStatus{State: types.StateDoorOpen, SubState: types.SubStateExitingDoorOpen, Change: types.ChangeEntering}))
	assert.Equal(t, []string{"oled-clear", "ring-clear"}, conn.Describe())

	// unknown
	require.NoError(t, c.ShowScreen(&types.PrinterStatus{State: types.StateUndefined, Change: types.ChangeEntering}))
	assert.Equal(t, []string{"oled-clear", `oled-text align=center x=64 y=10 size=1 color=ffff text="Screen?"`, "ring-clear"}, conn.Describe())
}

func TestShowScreenStatusText(t *testing.T) {
	t.Parallel()

	c, conn := testController(t, ModeScreens)
	c.Callback(types.StatusEvent("test", types.PrinterStatus{
		StateName: "Exposing", CurrentLayer: 11, NumLayers: 20, EstimatedSecondsRemaining: 3725, Change: types.ChangeEntering,
	}))
	assert.Equal(t, []string{
		"oled-clear",
		`oled-text align=left x=10 y=50 size=2 color=ffff text="1:02"`,
		`oled-text align=center x=64 y=36 size=1 color=ffff text="50% done"`,
		"ring-sequence id=0",
		"ring-led index=11 intensity=ffff",
	}, conn.Describe())
}

func TestShowScreenError(t *testing.T) {
	t.Parallel()

	c, conn := testController(t, ModeScreens)
	conn.WriteErr = fmt.Errorf("nack")
	conn.FailAfter = 2
	err := c.ShowScreen(&types.PrinterStatus{State: types.StateIdle, ErrorCode: 3, ErrorMessage: "resin", Change: types.ChangeEntering})
	require.Error(t, err)
	assert.True(t, frontpanel.IsBusError(err))
	assert.Contains(t, err.Error(), "screen=Idle/None")
	assert.Len(t, conn.Frames(), 2)
}

func TestCallback(t *testing.T) {
	t.Parallel()

	c, conn := testController(t, ModeStatus)
	c.Callback(entering("Homing", 0))
	assert.Len(t, conn.Frames(), 2)

	c.Callback(types.ButtonEvent("test", 0x01))
	c.Callback(types.UICommandEvent("test", "pause"))
	assert.Empty(t, conn.Frames())
}

func TestConfig(t *testing.T) {
	t.Parallel()

	var uc ui_config.Config
	cfg, err := ConfigFrom(&uc)
	require.NoError(t, err)
	assert.Equal(t, ModeStatus, cfg.Mode)

	uc.FrontPanel.Mode = "Screens"
	uc.FrontPanel.RingSize = 16
	cfg, err = ConfigFrom(&uc)
	require.NoError(t, err)
	assert.Equal(t, Config{Mode: ModeScreens, RingSize: 16}, cfg)

	uc.FrontPanel.Mode = "fancy"
	_, err = ConfigFrom(&uc)
	assert.Error(t, err)

	c := NewController(&frontpanel.Device{}, nil, Config{}, nil)
	assert.Equal(t, DefaultRingSize, c.config.RingSize)
	assert.Equal(t, "status", c.Mode().String())
}

func TestNextIdleAnimation(t *testing.T) {
	t.Parallel()

	n := byte(0)
	seen := []byte{}
	for i := 0; i < 15; i++ {
		n = nextIdleAnimation(n)
		seen = append(seen, n)
	}
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 1, 2, 3, 4, 5, 6, 7, 1}, seen)
}
