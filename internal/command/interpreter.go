// Package command decodes raw button codes and text into domain commands.
package command

import (
	"fmt"
	"math"
	"strings"

	"github.com/temoto/frontpanel/internal/types"
	"github.com/temoto/frontpanel/log2"
)

// Raw button codes reported by front panel board.
const (
	Btn1Press byte = 0x01
	Btn2Press byte = 0x04
)

const (
	ErrMsgFrontPanel         = "front panel error: undefined button code"
	ErrMsgUnknownTextCommand = "unknown text command"
)

// NoValue is HandleError value when there is no numeric detail.
const NoValue = math.MaxInt32

// Target receives decoded commands.
type Target interface {
	Handle(types.Command)
	HandleError(baseMsg string, fatal bool, detail string, value int)
}

var buttonTable = map[byte]types.Command{
	Btn1Press: types.CommandStartPauseOrResume,
	Btn2Press: types.CommandCancel,
}

// keys are lowercase, lookup lowercases input
var textTable = map[string]types.Command{
	"start":     types.CommandStart,
	"getstatus": types.CommandGetStatus,
	"resume":    types.CommandResume,
	"pause":     types.CommandPause,
	"cancel":    types.CommandCancel,
	"confirm":   types.CommandConfirm,
}

type UnknownButtonError struct{ Code byte }

func (e *UnknownButtonError) Error() string {
	return fmt.Sprintf("%s code=%02x", ErrMsgFrontPanel, e.Code)
}

type UnknownTextError struct{ Text string }

func (e *UnknownTextError) Error() string {
	return fmt.Sprintf("%s text=%q", ErrMsgUnknownTextCommand, e.Text)
}

func DecodeButton(code byte) (types.Command, error) {
	if c, ok := buttonTable[code]; ok {
		return c, nil
	}
	return types.CommandUndefined, &UnknownButtonError{Code: code}
}

func DecodeText(text string) (types.Command, error) {
	if c, ok := textTable[strings.ToLower(strings.TrimSpace(text))]; ok {
		return c, nil
	}
	return types.CommandUndefined, &UnknownTextError{Text: text}
}

// Interpreter is stateless between calls and not safe for concurrent use
// together with its target; serialize calls via input.Dispatch.
type Interpreter struct {
	log    *log2.Log
	target Target
}

func NewInterpreter(target Target, log *log2.Log) *Interpreter {
	if target == nil {
		panic("code error command.NewInterpreter target=nil")
	}
	return &Interpreter{log: log, target: target}
}

// Callback decodes event and calls exactly one of target Handle or HandleError.
func (self *Interpreter) Callback(e types.InputEvent) {
	var cmd types.Command
	var err error
	switch e.Type {
	case types.EventButtonInterrupt:
		cmd, err = DecodeButton(e.Button)
	case types.EventUICommand, types.EventKeyboard:
		cmd, err = DecodeText(e.Text)
	default:
		self.log.Errorf("command interpreter impossible event=%s", e.String())
		return
	}

	switch err := err.(type) {
	case nil:
		self.log.Debugf("command %s from %s", cmd.String(), e.Source)
		self.target.Handle(cmd)
	case *UnknownButtonError:
		self.target.HandleError(ErrMsgFrontPanel, false, "", int(err.Code))
	case *UnknownTextError:
		self.target.HandleError(ErrMsgUnknownTextCommand, false, err.Text, NoValue)
	}
}

// LogTarget only logs, used when no remote transport is configured.
type LogTarget struct{ Log *log2.Log }

var _ Target = LogTarget{} // compile-time interface test

func (self LogTarget) Handle(cmd types.Command) {
	self.Log.Infof("command=%s", cmd.String())
}

func (self LogTarget) HandleError(baseMsg string, fatal bool, detail string, value int) {
	if value == NoValue {
		self.Log.Errorf("%s fatal=%t detail=%q", baseMsg, fatal, detail)
		return
	}
	self.Log.Errorf("%s fatal=%t detail=%q value=%d", baseMsg, fatal, detail, value)
}
