package tele

import (
	"encoding/json"

	"github.com/juju/errors"
	"github.com/temoto/frontpanel/internal/command"
	"github.com/temoto/frontpanel/internal/types"
)

// StatusMessage is JSON payload of <prefix>/status topic.
type StatusMessage struct {
	State        string `json:"state"`
	UISubState   string `json:"ui_substate,omitempty"`
	Change       string `json:"change,omitempty"`
	Layer        int    `json:"layer,omitempty"`
	NumLayers    int    `json:"num_layers,omitempty"`
	SecondsLeft  int    `json:"seconds_left,omitempty"`
	JobName      string `json:"job_name,omitempty"`
	ErrorCode    int    `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func ParseStatus(b []byte) (types.PrinterStatus, error) {
	var m StatusMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return types.PrinterStatus{}, errors.Annotate(err, "status json")
	}
	if m.State == "" {
		return types.PrinterStatus{}, errors.NotValidf("status state=empty")
	}
	return types.PrinterStatus{
		StateName:                 m.State,
		State:                     types.ParsePrintEngineState(m.State),
		SubState:                  types.ParseUISubState(m.UISubState),
		Change:                    types.ParseChange(m.Change),
		CurrentLayer:              m.Layer,
		NumLayers:                 m.NumLayers,
		EstimatedSecondsRemaining: m.SecondsLeft,
		JobName:                   m.JobName,
		ErrorCode:                 m.ErrorCode,
		ErrorMessage:              m.ErrorMessage,
	}, nil
}

// ErrorReport is JSON payload of <prefix>/error topic.
type ErrorReport struct {
	Message string `json:"message"`
	Fatal   bool   `json:"fatal,omitempty"`
	Detail  string `json:"detail,omitempty"`
	// nil when there is no numeric detail
	Value *int `json:"value,omitempty"`
}

func NewErrorReport(baseMsg string, fatal bool, detail string, value int) ErrorReport {
	r := ErrorReport{Message: baseMsg, Fatal: fatal, Detail: detail}
	if value != command.NoValue {
		r.Value = &value
	}
	return r
}
