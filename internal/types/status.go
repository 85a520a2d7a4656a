package types

import (
	"fmt"
	"strings"
)

// PrintEngineState and UISubState are uint8 so screen keys packing
// state|sub<<8 cannot collide: 257th constant would not compile.
type PrintEngineState uint8

const (
	StateUndefined PrintEngineState = iota
	StatePrinterOn
	StateInitializing
	StateDoorClosed
	StateDoorOpen
	StateHoming
	StateHome
	StateIdle
	StatePrintSetup
	StateMovingToStartPosition
	StatePrinting
	StatePrintingLayer
	StateSeparating
	StateExposing
	StatePaused
	StateConfirmCancel
	StateShowingVersion
	StateCalibrate
	StateMovingToCalibration
	StateCalibrating
	stateCount
)

var stateNames = [stateCount]string{
	StateUndefined:             "Undefined",
	StatePrinterOn:             "PrinterOn",
	StateInitializing:          "Initializing",
	StateDoorClosed:            "DoorClosed",
	StateDoorOpen:              "DoorOpen",
	StateHoming:                "Homing",
	StateHome:                  "Home",
	StateIdle:                  "Idle",
	StatePrintSetup:            "PrintSetup",
	StateMovingToStartPosition: "MovingToStartPosition",
	StatePrinting:              "Printing",
	StatePrintingLayer:         "PrintingLayer",
	StateSeparating:            "Separating",
	StateExposing:              "Exposing",
	StatePaused:                "Paused",
	StateConfirmCancel:         "ConfirmCancel",
	StateShowingVersion:        "ShowingVersion",
	StateCalibrate:             "Calibrate",
	StateMovingToCalibration:   "MovingToCalibration",
	StateCalibrating:           "Calibrating",
}

func (s PrintEngineState) String() string {
	if s < stateCount {
		return stateNames[s]
	}
	return fmt.Sprintf("PrintEngineState(%d)", uint8(s))
}

// ParsePrintEngineState matches exact state name, StateUndefined if unknown.
func ParsePrintEngineState(name string) PrintEngineState {
	for i := StateUndefined + 1; i < stateCount; i++ {
		if stateNames[i] == name {
			return i
		}
	}
	return StateUndefined
}

type UISubState uint8

const (
	NoUISubState UISubState = iota
	SubStateDownloading
	SubStateDownloaded
	SubStateDownloadFailed
	SubStateNoPrintData
	SubStateHavePrintData
	SubStatePrintCanceled
	SubStatePrintCompleted
	SubStateExitingDoorOpen
	subStateCount
)

var subStateNames = [subStateCount]string{
	NoUISubState:            "None",
	SubStateDownloading:     "Downloading",
	SubStateDownloaded:      "Downloaded",
	SubStateDownloadFailed:  "DownloadFailed",
	SubStateNoPrintData:     "NoPrintData",
	SubStateHavePrintData:   "HavePrintData",
	SubStatePrintCanceled:   "PrintCanceled",
	SubStatePrintCompleted:  "PrintCompleted",
	SubStateExitingDoorOpen: "ExitingDoorOpen",
}

func (s UISubState) String() string {
	if s < subStateCount {
		return subStateNames[s]
	}
	return fmt.Sprintf("UISubState(%d)", uint8(s))
}

func ParseUISubState(name string) UISubState {
	for i := NoUISubState; i < subStateCount; i++ {
		if strings.EqualFold(subStateNames[i], name) {
			return i
		}
	}
	return NoUISubState
}

// Change tells whether status callback is first in state, steady or last.
type Change uint8

const (
	ChangeNoChange Change = iota
	ChangeEntering
	ChangeLeaving
)

func (c Change) String() string {
	switch c {
	case ChangeNoChange:
		return "NoChange"
	case ChangeEntering:
		return "Entering"
	case ChangeLeaving:
		return "Leaving"
	}
	return fmt.Sprintf("Change(%d)", uint8(c))
}

func ParseChange(s string) Change {
	switch strings.ToLower(s) {
	case "entering":
		return ChangeEntering
	case "leaving":
		return ChangeLeaving
	}
	return ChangeNoChange
}

type PrinterStatus struct {
	StateName    string
	JobName      string
	ErrorMessage string

	// 0 means not printing
	CurrentLayer              int
	NumLayers                 int
	EstimatedSecondsRemaining int
	ErrorCode                 int

	State    PrintEngineState
	SubState UISubState
	Change   Change
}

// EngineState returns State, falling back to StateName lookup.
func (ps *PrinterStatus) EngineState() PrintEngineState {
	if ps.State != StateUndefined {
		return ps.State
	}
	return ParsePrintEngineState(ps.StateName)
}

// Name is text shown on generic status screen, empty when state is unknown.
func (ps *PrinterStatus) Name() string {
	if ps.StateName != "" || ps.State == StateUndefined {
		return ps.StateName
	}
	return ps.State.String()
}

func (ps *PrinterStatus) IsPrinting() bool { return ps.CurrentLayer != 0 }

func (ps *PrinterStatus) String() string {
	return fmt.Sprintf("state=%s sub=%s change=%s layer=%d/%d remaining=%ds",
		ps.Name(), ps.SubState.String(), ps.Change.String(),
		ps.CurrentLayer, ps.NumLayers, ps.EstimatedSecondsRemaining)
}
