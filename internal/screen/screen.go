// Package screen describes display pages and maps printer state to them.
package screen

import (
	"fmt"

	"github.com/temoto/frontpanel/hardware/frontpanel"
	"github.com/temoto/frontpanel/internal/types"
)

// Line is one text fragment. Replaceable line Text is a fmt template
// filled by Screen.Rule at render time.
type Line struct {
	Align       frontpanel.Align
	X, Y, Size  byte
	Color       uint16
	Text        string
	Replaceable bool
}

type Text []Line

// Rule selects live values substituted into replaceable lines.
type Rule uint8

const (
	RuleNone Rule = iota
	// first replaceable line <- job name
	RuleJobName
	// remaining time "H:MM" then percent complete
	RuleStatusText
	// error code then error message
	RuleErrorText
)

func (r Rule) String() string {
	switch r {
	case RuleNone:
		return "none"
	case RuleJobName:
		return "job-name"
	case RuleStatusText:
		return "status-text"
	case RuleErrorText:
		return "error-text"
	}
	return fmt.Sprintf("Rule(%d)", uint8(r))
}

type Screen struct {
	Text         Text
	LEDAnimation byte
	ClearScreen  bool
	// false keeps currently lit LEDs, so animation affects only some of them
	ClearLEDs bool
	Rule      Rule
}

func NewScreen(text Text, seq byte) *Screen {
	return &Screen{Text: text, LEDAnimation: seq, ClearScreen: true, ClearLEDs: true}
}

func newRuleScreen(text Text, seq byte, rule Rule) *Screen {
	s := NewScreen(text, seq)
	s.Rule = rule
	return s
}

// Values are live data for substitution.
type Values struct {
	JobName      string
	ErrorCode    int
	ErrorMessage string

	Percent float64
	Hours   int
	Minutes int
	Seconds int
	// ring position for Percent, 0 when not printing
	ProgressLED int
}

func ValuesFromStatus(ps *types.PrinterStatus, ringSize int) Values {
	v := Values{
		JobName:      ps.JobName,
		ErrorCode:    ps.ErrorCode,
		ErrorMessage: ps.ErrorMessage,
	}
	if ps.IsPrinting() && ps.NumLayers > 0 {
		v.Percent = float64(ps.CurrentLayer-1) * 100 / float64(ps.NumLayers)
		v.ProgressLED = ProgressLED(v.Percent, ringSize)
	}
	r := ps.EstimatedSecondsRemaining
	v.Hours = r / 3600
	v.Minutes = (r - v.Hours*3600) / 60
	v.Seconds = r - v.Hours*3600 - v.Minutes*60
	return v
}

// ProgressLED maps percent to nearest ring position.
func ProgressLED(percent float64, ringSize int) int {
	return int(percent*float64(ringSize)/100 + 0.5)
}

// Remaining formats time as H:MM.
func (v Values) Remaining() string { return fmt.Sprintf("%d:%02d", v.Hours, v.Minutes) }

// Lines returns Text with replaceable lines filled according to Rule.
// Screen itself is not modified.
func (self *Screen) Lines(v Values) []Line {
	out := make([]Line, len(self.Text))
	copy(out, self.Text)
	if self.Rule == RuleNone {
		return out
	}
	nth := 0
	for i := range out {
		l := &out[i]
		if !l.Replaceable {
			continue
		}
		switch {
		case self.Rule == RuleJobName && nth == 0:
			l.Text = fmt.Sprintf(l.Text, v.JobName)
		case self.Rule == RuleStatusText && nth == 0:
			l.Text = fmt.Sprintf(l.Text, v.Hours, v.Minutes)
		case self.Rule == RuleStatusText && nth == 1:
			l.Text = fmt.Sprintf(l.Text, int(v.Percent))
		case self.Rule == RuleErrorText && nth == 0:
			l.Text = fmt.Sprintf(l.Text, v.ErrorCode)
		case self.Rule == RuleErrorText && nth == 1:
			l.Text = fmt.Sprintf(l.Text, v.ErrorMessage)
		}
		nth++
	}
	return out
}
