package screen

import (
	"github.com/temoto/frontpanel/hardware/frontpanel"
)

// 128x64 OLED, size 1 font is 8px high.
const (
	centerX    = 64
	leftX      = 1
	rightX     = 127
	btnLine1Y  = 46
	btnLine2Y  = 56
	statusX    = 10
	statusY    = 50
	statusSize = 2
)

const white = frontpanel.ColorWhite

// LED ring animation sequences stored in panel firmware.
const (
	SeqNone           byte = 0
	SeqReadyLoaded    byte = 1
	SeqStartLoaded    byte = 2
	SeqLoadFail       byte = 3
	SeqPrinting       byte = 4
	SeqPaused         byte = 5
	SeqConfirmCancel  byte = 6
	SeqPrintComplete  byte = 7
	SeqStartingPrint  byte = 4
	SeqLoadFirst      byte = 1
	SeqLoadingFile    byte = 2
	SeqCanceled       byte = 3
	SeqDoorOpen       byte = 3
	SeqError          byte = 3
	SeqHoming         byte = 2
	SeqVersion        byte = 0
	SeqCalibrate      byte = 6
	SeqMovingToCal    byte = 2
	SeqCalibrating    byte = 5
	SeqIdleAnimations byte = 7
)

func center(y byte, text string) Line {
	return Line{Align: frontpanel.AlignCenter, X: centerX, Y: y, Size: 1, Color: white, Text: text}
}

func replaceCenter(y byte, tpl string) Line {
	l := center(y, tpl)
	l.Replaceable = true
	return l
}

func btn1(y byte, text string) Line {
	return Line{Align: frontpanel.AlignLeft, X: leftX, Y: y, Size: 1, Color: white, Text: text}
}

func btn2(y byte, text string) Line {
	return Line{Align: frontpanel.AlignRight, X: rightX, Y: y, Size: 1, Color: white, Text: text}
}

var (
	unknownLine = center(10, "Screen?")

	readyLoaded = Text{
		center(6, "Ready."),
		center(16, "Load your print"),
		center(26, "or press Start"),
		center(36, "to print last job"),
		btn1(btnLine1Y, "Start"),
		btn1(btnLine2Y, "Print"),
		btn2(btnLine1Y, "Clear"),
		btn2(btnLine2Y, "Job"),
	}

	startLoaded = Text{
		replaceCenter(6, "%s"),
		center(16, "Loaded."),
		center(26, "Press Start"),
		center(36, "to print"),
		center(46, "or Clear to unload"),
		btn1(btnLine2Y, "Start"),
		btn2(btnLine2Y, "Clear"),
	}

	loadFail = Text{
		center(16, "File failed"),
		center(26, "to load."),
		btn1(btnLine2Y, "OK"),
	}

	printing = Text{
		center(6, "Printing"),
		center(26, "Time left:"),
		btn1(btnLine2Y, "Pause"),
		btn2(btnLine2Y, "Cancel"),
	}

	countdown = Text{
		Line{Align: frontpanel.AlignLeft, X: statusX, Y: statusY, Size: statusSize, Color: white, Text: "%d:%02d", Replaceable: true},
		replaceCenter(36, "%d%% done"),
	}

	paused = Text{
		center(16, "Print"),
		center(26, "paused."),
		btn1(btnLine2Y, "Resume"),
		btn2(btnLine1Y, "Cancel"),
		btn2(btnLine2Y, "Print"),
	}

	confirmCancel = Text{
		center(16, "Cancel"),
		center(26, "print?"),
		btn1(btnLine1Y, "Yes,"),
		btn2(btnLine1Y, "No,"),
		btn1(btnLine2Y, "cancel"),
		btn2(btnLine2Y, "resume"),
	}

	printComplete = Text{
		center(16, "Print"),
		center(26, "complete."),
		center(36, "Remove part"),
	}

	startingPrint = Text{
		center(16, "Starting print"),
		replaceCenter(26, "%s"),
		btn2(btnLine2Y, "Cancel"),
	}

	loadFirst = Text{
		center(6, "Ready."),
		center(16, "Load a print"),
		center(26, "from network"),
		center(36, "or USB drive"),
	}

	loadingFile = Text{
		center(26, "Loading..."),
	}

	canceled = Text{
		center(16, "Print"),
		center(26, "canceled."),
		center(36, "Homing"),
	}

	doorOpen = Text{
		center(6, "Door open."),
		center(16, "Close door"),
		center(26, "to continue."),
		center(36, "Keep hands"),
		center(46, "away from vat"),
	}

	errorCode = Text{
		center(6, "Error"),
		replaceCenter(16, "code %d"),
		replaceCenter(26, "%s"),
		center(36, "See manual"),
		center(46, "for details"),
		btn1(btnLine2Y, "Retry"),
		btn2(btnLine2Y, "Info"),
	}

	homing = Text{
		center(16, "Please wait,"),
		center(26, "homing..."),
	}

	version = Text{
		center(16, "Front panel"),
		center(26, "firmware info"),
		btn1(btnLine2Y, "OK"),
	}

	calibrate = Text{
		center(6, "Calibrate"),
		center(16, "build plate?"),
		center(26, "Remove tray first"),
		btn1(btnLine2Y, "Start"),
		btn2(btnLine2Y, "Back"),
	}

	movingToCal = Text{
		center(6, "Moving to"),
		center(16, "calibration"),
		center(26, "position..."),
		btn2(btnLine2Y, "Cancel"),
	}

	calibrating = Text{
		center(6, "Loosen plate"),
		center(16, "screws, press"),
		center(26, "plate down,"),
		center(36, "tighten screws"),
		center(46, "then press Done"),
		btn1(btnLine2Y, "Done"),
	}
)
