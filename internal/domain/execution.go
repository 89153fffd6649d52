package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExecutionRequest captures one run, debug or query dispatch.
type ExecutionRequest struct {
	Source string
	Mode   Mode
	Debug  bool
}

// Action maps the request onto the history action it records as.
func (r ExecutionRequest) Action() Action {
	switch {
	case r.Mode == ModeRelational:
		return ActionSQL
	case r.Debug:
		return ActionDebug
	default:
		return ActionRun
	}
}

// RemoteResult is the decoded response of either execution service.
type RemoteResult interface {
	DisplayText() string
	remoteResult()
}

// GeneralResult is the interpreter service response.
type GeneralResult struct {
	Output string
	Error  string
}

// DisplayText appends the error text on its own line when present.
func (r GeneralResult) DisplayText() string {
	if r.Error == "" {
		return r.Output
	}
	return r.Output + "\n" + r.Error
}

func (GeneralResult) remoteResult() {}

// RelationalResult is the query service response. Result holds the raw JSON value.
type RelationalResult struct {
	Result json.RawMessage
	Error  string
}

// DisplayText prefers the error text, otherwise pretty-prints the result.
func (r RelationalResult) DisplayText() string {
	if r.Error != "" {
		return r.Error
	}
	return PrettyJSON(r.Result)
}

func (RelationalResult) remoteResult() {}

// PrettyJSON renders a JSON value with two-space indentation. String values are
// shown unquoted; absent values render as the empty string.
func PrettyJSON(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, trimmed, "", "  "); err != nil {
		return strings.TrimSpace(string(trimmed))
	}
	return buf.String()
}

// ExecutionResult is the normalized outcome handed back to the editor shell.
type ExecutionResult struct {
	DisplayText string
	Mode        Mode
	Action      Action
	Remote      RemoteResult
	Recorded    bool
}
