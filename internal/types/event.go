package types

import "fmt"

type EventType uint8

const (
	EventInvalid EventType = iota
	EventButtonInterrupt
	EventUICommand
	EventKeyboard
	EventPrinterStatusUpdate
)

func (t EventType) String() string {
	switch t {
	case EventInvalid:
		return "Invalid"
	case EventButtonInterrupt:
		return "ButtonInterrupt"
	case EventUICommand:
		return "UICommand"
	case EventKeyboard:
		return "Keyboard"
	case EventPrinterStatusUpdate:
		return "PrinterStatusUpdate"
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// InputEvent is tagged union, Type selects which payload field is meaningful:
// Button for ButtonInterrupt, Text for UICommand and Keyboard,
// Status for PrinterStatusUpdate.
type InputEvent struct {
	Status PrinterStatus
	Text   string
	Source string
	Type   EventType
	Button byte
}

func ButtonEvent(source string, code byte) InputEvent {
	return InputEvent{Type: EventButtonInterrupt, Source: source, Button: code}
}
func UICommandEvent(source string, text string) InputEvent {
	return InputEvent{Type: EventUICommand, Source: source, Text: text}
}
func KeyboardEvent(source string, text string) InputEvent {
	return InputEvent{Type: EventKeyboard, Source: source, Text: text}
}
func StatusEvent(source string, ps PrinterStatus) InputEvent {
	return InputEvent{Type: EventPrinterStatusUpdate, Source: source, Status: ps}
}

func (e *InputEvent) String() string {
	inner := ""
	switch e.Type {
	case EventButtonInterrupt:
		inner = fmt.Sprintf(" button=%02x", e.Button)
	case EventUICommand, EventKeyboard:
		inner = fmt.Sprintf(" text=%q", e.Text)
	case EventPrinterStatusUpdate:
		inner = " " + e.Status.String()
	}
	return fmt.Sprintf("InputEvent(%s source=%s%s)", e.Type.String(), e.Source, inner)
}
