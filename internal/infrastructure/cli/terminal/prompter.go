package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/doeshing/pyfuturist/internal/ports"
)

// Prompter implements ports.InputPrompter using stdin/stdout.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

type lineResult struct {
	line string
	err  error
}

// Prompt prints message and reads one line. End of input counts as cancellation.
func (p *Prompter) Prompt(ctx context.Context, message string) (string, bool, error) {
	fmt.Fprintf(p.out, "%s ", strings.TrimRight(message, " "))

	done := make(chan lineResult, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		done <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", false, ctx.Err()
	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, io.EOF) {
				fmt.Fprintln(p.out)
				if res.line == "" {
					return "", false, nil
				}
				return strings.TrimRight(res.line, "\r"), true, nil
			}
			return "", false, res.err
		}
		return strings.TrimRight(res.line, "\r\n"), true, nil
	}
}

var _ ports.InputPrompter = (*Prompter)(nil)
