package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
)

// StdLogger is a lightweight implementation backed by Go's log package.
// Debug and Info are only emitted in verbose mode; warnings and errors always are.
type StdLogger struct {
	verbose bool
	out     *log.Logger
}

// NewStd creates a StdLogger writing to stderr.
func NewStd(verbose bool) *StdLogger {
	return NewWriter(os.Stderr, verbose)
}

// NewWriter creates a StdLogger writing to w.
func NewWriter(w io.Writer, verbose bool) *StdLogger {
	return &StdLogger{
		verbose: verbose,
		out:     log.New(w, "pyfuturist ", log.LstdFlags),
	}
}

// Nop returns a logger that discards everything.
func Nop() *StdLogger {
	return NewWriter(io.Discard, false)
}

// SetVerbose toggles Debug and Info output.
func (l *StdLogger) SetVerbose(verbose bool) {
	l.verbose = verbose
}

// SetOutput redirects subsequent log lines to w.
func (l *StdLogger) SetOutput(w io.Writer) {
	l.out.SetOutput(w)
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.out.Println("[DEBUG]", msg, formatFields(fields))
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.out.Println("[INFO]", msg, formatFields(fields))
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	l.out.Println("[WARN]", msg, formatFields(fields))
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.out.Println("[ERROR]", msg, err, formatFields(fields))
}

// formatFields renders fields as sorted key=value pairs.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}
