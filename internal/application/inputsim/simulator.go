// Package inputsim resolves interactive input() calls before code is sent to a
// non-interactive interpreter.
//
// Call sites are found with a textual pattern, not a parser: an input token
// followed by a parenthesised argument list without nested parentheses. Calls
// whose argument contains parentheses, or that span lines inside a nested
// expression, are not recognised and are left for the interpreter.
package inputsim

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/doeshing/pyfuturist/internal/domain"
	"github.com/doeshing/pyfuturist/internal/ports"
)

// inputCall matches input(...) with zero or one argument and no nested parentheses.
var inputCall = regexp.MustCompile(`\binput\s*\(([^()]*)\)`)

// CallSite is one located input() invocation.
type CallSite struct {
	// MatchedText is the full matched span, e.g. input('Name: ').
	MatchedText string
	// RawArgument is the unparsed argument text; empty when the call has none.
	RawArgument string
	// Offset is the byte offset of the match in the source.
	Offset int
}

// CallSites scans source left to right and returns every supported input() call.
func CallSites(source string) []CallSite {
	matches := inputCall.FindAllStringSubmatchIndex(source, -1)
	sites := make([]CallSite, 0, len(matches))
	for _, m := range matches {
		// obj.input(...) is a method call, not the builtin
		if m[0] > 0 && source[m[0]-1] == '.' {
			continue
		}
		sites = append(sites, CallSite{
			MatchedText: source[m[0]:m[1]],
			RawArgument: strings.TrimSpace(source[m[2]:m[3]]),
			Offset:      m[0],
		})
	}
	return sites
}

// HasInputCalls reports whether source contains at least one supported call site.
func HasInputCalls(source string) bool {
	return len(CallSites(source)) > 0
}

// Simulator prompts for every call site and substitutes string literals.
type Simulator struct {
	Prompter      ports.InputPrompter
	DefaultPrompt string
	Logger        ports.Logger
}

// New creates a Simulator using prompter.
func New(prompter ports.InputPrompter, logger ports.Logger) *Simulator {
	return &Simulator{
		Prompter:      prompter,
		DefaultPrompt: domain.DefaultInputPrompt,
		Logger:        logger,
	}
}

// Simulate returns source with each input() call replaced by a quoted literal of
// the user's answer. Prompts are issued one at a time in source order; a
// cancelled prompt yields the empty string. Only a prompter failure or ctx
// cancellation aborts the transformation.
func (s *Simulator) Simulate(ctx context.Context, source string) (string, error) {
	sites := CallSites(source)
	if len(sites) == 0 {
		return source, nil
	}
	if s.Prompter == nil {
		return "", fmt.Errorf("input simulation: no prompter configured")
	}

	values := make([]string, 0, len(sites))
	for i, site := range sites {
		message := PromptText(site.RawArgument)
		if message == "" {
			message = s.DefaultPrompt
		}
		value, ok, err := s.Prompter.Prompt(ctx, message)
		if err != nil {
			return "", fmt.Errorf("input simulation: prompt %d of %d: %w", i+1, len(sites), err)
		}
		if !ok {
			value = ""
		}
		values = append(values, value)
	}

	s.debug("input calls resolved", map[string]interface{}{"count": len(sites)})
	return substitute(source, sites, values), nil
}

// substitute rebuilds source replacing the i-th site with the i-th value.
func substitute(source string, sites []CallSite, values []string) string {
	var b strings.Builder
	b.Grow(len(source))
	last := 0
	for i, site := range sites {
		b.WriteString(source[last:site.Offset])
		b.WriteString(Literal(values[i]))
		last = site.Offset + len(site.MatchedText)
	}
	b.WriteString(source[last:])
	return b.String()
}

// Literal encodes value as a double-quoted string literal.
func Literal(value string) string {
	return strconv.Quote(value)
}

// PromptText derives the prompt shown for a raw argument: the decoded value of a
// string literal, otherwise the raw text itself.
func PromptText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if decoded, ok := decodeLiteral(raw); ok {
		return decoded
	}
	return raw
}

func (s *Simulator) debug(msg string, fields map[string]interface{}) {
	if s.Logger != nil {
		s.Logger.Debug(msg, fields)
	}
}
