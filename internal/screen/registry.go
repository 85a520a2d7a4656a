package screen

import (
	"sort"

	"github.com/temoto/frontpanel/internal/types"
)

// Entry is either Unchanged or Render(Screen).
type Entry struct {
	screen *Screen
}

// UnchangedEntry keeps currently displayed screen.
func UnchangedEntry() Entry { return Entry{} }
func RenderEntry(s *Screen) Entry { return Entry{screen: s} }
func (e Entry) Unchanged() bool { return e.screen == nil }
func (e Entry) Screen() *Screen { return e.screen }

// Registry is read-only after Build.
type Registry struct {
	m map[Key]Entry
}

func (self *Registry) Len() int { return len(self.m) }

// Lookup never fails: absent key returns fallback unknown screen.
func (self *Registry) Lookup(state types.PrintEngineState, sub types.UISubState) Entry {
	return self.LookupKey(GetKey(state, sub))
}

func (self *Registry) LookupKey(k Key) Entry {
	if e, ok := self.m[k]; ok {
		return e
	}
	return self.m[UnknownKey]
}

// Keys sorted, UnknownKey last.
func (self *Registry) Keys() []Key {
	ks := make([]Key, 0, len(self.m))
	for k := range self.m {
		ks = append(ks, k)
	}
	sort.Slice(ks, func(a, b int) bool { return ks[a] < ks[b] })
	return ks
}

func Build() *Registry {
	r := &Registry{m: make(map[Key]Entry, 32)}
	r.m[UnknownKey] = RenderEntry(NewScreen(Text{unknownLine}, SeqNone))

	for _, s := range []types.PrintEngineState{
		types.StatePrinterOn,
		types.StateInitializing,
		types.StateHome,
		types.StateDoorClosed,
		types.StatePrintSetup,
		types.StatePrinting,
		types.StateSeparating,
	} {
		r.m[GetKey(s, types.NoUISubState)] = UnchangedEntry()
	}

	add := func(state types.PrintEngineState, sub types.UISubState, s *Screen) {
		r.m[GetKey(state, sub)] = RenderEntry(s)
	}
	add(types.StateHome, types.SubStateHavePrintData, NewScreen(readyLoaded, SeqReadyLoaded))
	add(types.StateHome, types.SubStateDownloaded, newRuleScreen(startLoaded, SeqStartLoaded, RuleJobName))
	add(types.StateHome, types.SubStateDownloadFailed, NewScreen(loadFail, SeqLoadFail))
	add(types.StatePrintingLayer, types.NoUISubState, NewScreen(printing, SeqPrinting))
	add(types.StateExposing, types.NoUISubState, newRuleScreen(countdown, SeqPrinting, RuleStatusText))

	pausedScreen := NewScreen(paused, SeqPaused)
	pausedScreen.ClearLEDs = false
	add(types.StatePaused, types.NoUISubState, pausedScreen)

	add(types.StateConfirmCancel, types.NoUISubState, NewScreen(confirmCancel, SeqConfirmCancel))
	add(types.StateHoming, types.SubStatePrintCompleted, NewScreen(printComplete, SeqPrintComplete))
	add(types.StateMovingToStartPosition, types.NoUISubState, newRuleScreen(startingPrint, SeqStartingPrint, RuleJobName))
	add(types.StateHome, types.SubStateNoPrintData, NewScreen(loadFirst, SeqLoadFirst))
	add(types.StateHome, types.SubStateDownloading, NewScreen(loadingFile, SeqLoadingFile))
	add(types.StateHoming, types.SubStatePrintCanceled, NewScreen(canceled, SeqCanceled))
	add(types.StateDoorOpen, types.NoUISubState, NewScreen(doorOpen, SeqDoorOpen))
	// empty text: just clear screen when door closes, next state may have no screen
	add(types.StateDoorOpen, types.SubStateExitingDoorOpen, NewScreen(nil, SeqNone))
	add(types.StateIdle, types.NoUISubState, newRuleScreen(errorCode, SeqError, RuleErrorText))
	add(types.StateHoming, types.NoUISubState, NewScreen(homing, SeqHoming))
	add(types.StateShowingVersion, types.NoUISubState, NewScreen(version, SeqVersion))
	add(types.StateCalibrate, types.NoUISubState, NewScreen(calibrate, SeqCalibrate))
	add(types.StateMovingToCalibration, types.NoUISubState, NewScreen(movingToCal, SeqMovingToCal))
	add(types.StateCalibrating, types.NoUISubState, NewScreen(calibrating, SeqCalibrating))
	return r
}
