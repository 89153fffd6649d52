package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/doeshing/pyfuturist/internal/domain"
)

func TestGeneralResultDisplayText(t *testing.T) {
	tests := []struct {
		name   string
		result domain.GeneralResult
		want   string
	}{
		{name: "output only", result: domain.GeneralResult{Output: "hi\n"}, want: "hi\n"},
		{name: "output and error", result: domain.GeneralResult{Output: "a\n", Error: "NameError: x"}, want: "a\n\nNameError: x"},
		{name: "error only", result: domain.GeneralResult{Error: "boom"}, want: "\nboom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.DisplayText(); got != tt.want {
				t.Fatalf("DisplayText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRelationalResultDisplayText(t *testing.T) {
	tests := []struct {
		name   string
		result domain.RelationalResult
		want   string
	}{
		{
			name:   "pretty prints rows",
			result: domain.RelationalResult{Result: json.RawMessage(`[{"col":1}]`)},
			want:   "[\n  {\n    \"col\": 1\n  }\n]",
		},
		{
			name:   "error wins over result",
			result: domain.RelationalResult{Result: json.RawMessage(`[]`), Error: "no such table: t"},
			want:   "no such table: t",
		},
		{
			name:   "string result shown verbatim",
			result: domain.RelationalResult{Result: json.RawMessage(`"2 rows affected."`)},
			want:   "2 rows affected.",
		},
		{
			name:   "absent result",
			result: domain.RelationalResult{},
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.DisplayText(); got != tt.want {
				t.Fatalf("DisplayText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecutionRequestAction(t *testing.T) {
	session := domain.Session{Mode: domain.ModeGeneral}
	if got := session.Request("x", false).Action(); got != domain.ActionRun {
		t.Fatalf("run action = %q", got)
	}
	if got := session.Request("x", true).Action(); got != domain.ActionDebug {
		t.Fatalf("debug action = %q", got)
	}
	session.Mode = session.Mode.Toggle()
	if got := session.Request("SELECT 1", true).Action(); got != domain.ActionSQL {
		t.Fatalf("sql action = %q", got)
	}
}
