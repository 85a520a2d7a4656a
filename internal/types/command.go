package types

import (
	"strconv"
	"strings"
)

// Command is domain action produced by input decoding.
type Command uint8

const (
	// CommandUndefined is never dispatched to a command target.
	CommandUndefined Command = iota
	CommandStart
	CommandPause
	CommandResume
	CommandStartPauseOrResume
	CommandCancel
	CommandConfirm
	CommandGetStatus
	commandCount
)

var commandNames = [commandCount]string{
	CommandUndefined:          "undefined",
	CommandStart:              "start",
	CommandPause:              "pause",
	CommandResume:             "resume",
	CommandStartPauseOrResume: "startpauseorresume",
	CommandCancel:             "cancel",
	CommandConfirm:            "confirm",
	CommandGetStatus:          "getstatus",
}

func (c Command) String() string {
	if c < commandCount {
		return commandNames[c]
	}
	return "Command(" + strconv.Itoa(int(c)) + ")"
}

func (c Command) IsValid() bool { return c > CommandUndefined && c < commandCount }

// ParseCommand is reverse of String, case-insensitive.
// Returns CommandUndefined for unknown names.
func ParseCommand(s string) Command {
	for i := CommandUndefined + 1; i < commandCount; i++ {
		if strings.EqualFold(commandNames[i], s) {
			return i
		}
	}
	return CommandUndefined
}
