// Package frontpanel encodes front panel board frames: OLED text display and LED ring.
//
// Frame: [CmdStart][length of remaining bytes][group][command][args...]
// Bus has no delimiters besides declared length, so length byte must always
// match bytes written.
package frontpanel

import (
	"fmt"
)

const (
	CmdStart byte = 0x98

	CmdOLED        byte = 0x20
	OLEDOn         byte = 0x10
	OLEDClear      byte = 0x11
	OLEDSetText    byte = 0x12
	OLEDCenterText byte = 0x13
	OLEDRightText  byte = 0x14

	CmdRing      byte = 0x30
	RingSequence byte = 0x31
	RingLED      byte = 0x32
	RingLEDs     byte = 0x33
)

// Board registers.
const (
	RegUICommand byte = 0x20
	RegButtons   byte = 0x21
)

const (
	MaxTextLen = 25
	// start, length, group, command, x, y, size, color hi, color lo, text length
	textHeaderLen = 10

	IntensityFull uint16 = 0xffff
	ColorWhite    uint16 = 0xffff
	ColorBlack    uint16 = 0x0000
)

type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return fmt.Sprintf("Align(%d)", uint8(a))
}

func (a Align) command() byte {
	switch a {
	case AlignCenter:
		return OLEDCenterText
	case AlignRight:
		return OLEDRightText
	}
	return OLEDSetText
}

func FrameDisplayOn() []byte { return []byte{CmdStart, 2, CmdOLED, OLEDOn} }
func FrameClearScreen() []byte { return []byte{CmdStart, 2, CmdOLED, OLEDClear} }
func FrameLEDsClear() []byte { return []byte{CmdStart, 4, CmdRing, RingLEDs, 0, 0} }
func FrameAnimate(seq byte) []byte { return []byte{CmdStart, 3, CmdRing, RingSequence, seq} }

func FrameLED(index byte, intensity uint16) []byte {
	return []byte{CmdStart, 5, CmdRing, RingLED, index, byte(intensity >> 8), byte(intensity)}
}

// FrameText truncates text to MaxTextLen bytes, length bytes reflect truncated text.
func FrameText(align Align, x, y, size byte, color uint16, text []byte) []byte {
	if len(text) > MaxTextLen {
		text = text[:MaxTextLen]
	}
	n := len(text)
	b := make([]byte, 0, textHeaderLen+n)
	b = append(b, CmdStart, byte(textHeaderLen-2+n), CmdOLED, align.command(),
		x, y, size, byte(color>>8), byte(color), byte(n))
	return append(b, text...)
}

// DescribeFrame is human readable frame form for logs and dry run output.
func DescribeFrame(b []byte) string {
	if len(b) < 4 || b[0] != CmdStart {
		return fmt.Sprintf("invalid(%x)", b)
	}
	if int(b[1]) != len(b)-2 {
		return fmt.Sprintf("invalid-length(%x)", b)
	}
	group, cmd, args := b[2], b[3], b[4:]
	switch {
	case group == CmdOLED && cmd == OLEDOn:
		return "oled-on"
	case group == CmdOLED && cmd == OLEDClear:
		return "oled-clear"
	case group == CmdOLED && (cmd == OLEDSetText || cmd == OLEDCenterText || cmd == OLEDRightText):
		if len(args) < 6 || int(args[5]) != len(args)-6 {
			return fmt.Sprintf("invalid-text(%x)", b)
		}
		align := AlignLeft
		if cmd == OLEDCenterText {
			align = AlignCenter
		} else if cmd == OLEDRightText {
			align = AlignRight
		}
		return fmt.Sprintf("oled-text align=%s x=%d y=%d size=%d color=%02x%02x text=%q",
			align.String(), args[0], args[1], args[2], args[3], args[4], args[6:])
	case group == CmdRing && cmd == RingLED && len(args) == 3:
		return fmt.Sprintf("ring-led index=%d intensity=%02x%02x", args[0], args[1], args[2])
	case group == CmdRing && cmd == RingLEDs:
		return "ring-clear"
	case group == CmdRing && cmd == RingSequence && len(args) == 1:
		return fmt.Sprintf("ring-sequence id=%d", args[0])
	}
	return fmt.Sprintf("unknown(%x)", b)
}
