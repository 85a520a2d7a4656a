package command

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/temoto/frontpanel/internal/types"
	"github.com/temoto/frontpanel/log2"
)

type mockTarget struct{ mock.Mock }

func (m *mockTarget) Handle(c types.Command) { m.Called(c) }
func (m *mockTarget) HandleError(baseMsg string, fatal bool, detail string, value int) {
	m.Called(baseMsg, fatal, detail, value)
}

func TestInterpreterCallback(t *testing.T) {
	t.Parallel()

	type Case struct {
		name   string
		event  types.InputEvent
		expect types.Command
	}
	cases := []Case{
		{"btn1", types.ButtonEvent("test", Btn1Press), types.CommandStartPauseOrResume},
		{"btn2", types.ButtonEvent("test", Btn2Press), types.CommandCancel},
		{"ui-start", types.UICommandEvent("test", "Start"), types.CommandStart},
		{"ui-getstatus", types.UICommandEvent("test", "getstatus"), types.CommandGetStatus},
		{"kb-resume", types.KeyboardEvent("test", "reSUme"), types.CommandResume},
		{"kb-pause", types.KeyboardEvent("test", "PAUSE"), types.CommandPause},
		{"kb-cancel-newline", types.KeyboardEvent("test", "cancel\n"), types.CommandCancel},
		{"ui-confirm", types.UICommandEvent("test", "Confirm"), types.CommandConfirm},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			target := &mockTarget{}
			target.On("Handle", c.expect).Return().Once()
			ci := NewInterpreter(target, log2.NewTest(t, log2.LDebug))
			ci.Callback(c.event)
			target.AssertExpectations(t)
			target.AssertNotCalled(t, "HandleError", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestInterpreterErrors(t *testing.T) {
	t.Parallel()

	type Case struct {
		name   string
		event  types.InputEvent
		msg    string
		detail string
		value  int
	}
	cases := []Case{
		{"button-ff", types.ButtonEvent("test", 0xff), ErrMsgFrontPanel, "", 0xff},
		{"button-zero", types.ButtonEvent("test", 0), ErrMsgFrontPanel, "", 0},
		{"ui-garbage", types.UICommandEvent("test", "garbageIn"), ErrMsgUnknownTextCommand, "garbageIn", NoValue},
		{"kb-paws", types.KeyboardEvent("test", "Paws"), ErrMsgUnknownTextCommand, "Paws", NoValue},
		{"kb-empty", types.KeyboardEvent("test", ""), ErrMsgUnknownTextCommand, "", NoValue},
		{"ui-sentinel-name", types.UICommandEvent("test", "undefined"), ErrMsgUnknownTextCommand, "undefined", NoValue},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			target := &mockTarget{}
			target.On("HandleError", c.msg, false, c.detail, c.value).Return().Once()
			ci := NewInterpreter(target, log2.NewTest(t, log2.LDebug))
			ci.Callback(c.event)
			target.AssertExpectations(t)
			target.AssertNotCalled(t, "Handle", mock.Anything)
		})
	}
}

func TestInterpreterIgnoresStatus(t *testing.T) {
	t.Parallel()

	target := &mockTarget{}
	ci := NewInterpreter(target, nil)
	ci.Callback(types.StatusEvent("test", types.PrinterStatus{StateName: "Home"}))
	target.AssertNotCalled(t, "Handle", mock.Anything)
	target.AssertNotCalled(t, "HandleError", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDecodeButtonAll(t *testing.T) {
	t.Parallel()

	for code := 0; code <= 0xff; code++ {
		cmd, err := DecodeButton(byte(code))
		if expect, ok := buttonTable[byte(code)]; ok {
			require.NoError(t, err)
			assert.Equal(t, expect, cmd)
			continue
		}
		require.Error(t, err)
		assert.Equal(t, types.CommandUndefined, cmd)
		ube, ok := err.(*UnknownButtonError)
		require.True(t, ok, "err type=%T", err)
		assert.Equal(t, byte(code), ube.Code)
	}
}

func TestDecodeTextChannelsAgree(t *testing.T) {
	t.Parallel()

	for word, expect := range textTable {
		for _, variant := range []string{word, fmt.Sprintf("  %s ", word), strings.ToUpper(word), title(word)} {
			for _, e := range []types.InputEvent{types.UICommandEvent("t", variant), types.KeyboardEvent("t", variant)} {
				target := &mockTarget{}
				target.On("Handle", expect).Return().Once()
				NewInterpreter(target, nil).Callback(e)
				target.AssertExpectations(t)
			}
		}
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func TestLogTarget(t *testing.T) {
	t.Parallel()

	buf := bytes.NewBuffer(nil)
	log := log2.NewWriter(buf, log2.LDebug)
	log.SetFlags(0)
	ip := NewInterpreter(LogTarget{Log: log}, nil)
	ip.Callback(types.KeyboardEvent("stdin", " Resume\n"))
	ip.Callback(types.ButtonEvent("panel", 0x80))
	ip.Callback(types.UICommandEvent("tele", "fly"))
	assert.Equal(t, `command=resume
error: front panel error: undefined button code fatal=false detail="" value=128
error: unknown text command fatal=false detail="fly"
`, buf.String())
}
