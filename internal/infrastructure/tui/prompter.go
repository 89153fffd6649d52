package tui

import (
	"context"

	"github.com/doeshing/pyfuturist/internal/ports"
)

// PromptRequest is one pending input() prompt waiting for the editor to answer.
type PromptRequest struct {
	Message string
	reply   chan promptReply
}

type promptReply struct {
	value string
	ok    bool
}

// Answer resolves the prompt with value.
func (r PromptRequest) Answer(value string) {
	r.reply <- promptReply{value: value, ok: true}
}

// Cancel resolves the prompt as dismissed.
func (r PromptRequest) Cancel() {
	r.reply <- promptReply{}
}

// Bridge hands prompts from the dispatching goroutine to the UI loop and
// blocks the caller until the UI answers.
type Bridge struct {
	requests chan PromptRequest
}

// NewBridge creates an unbuffered bridge.
func NewBridge() *Bridge {
	return &Bridge{requests: make(chan PromptRequest)}
}

// Prompt implements ports.InputPrompter.
func (b *Bridge) Prompt(ctx context.Context, message string) (string, bool, error) {
	req := PromptRequest{Message: message, reply: make(chan promptReply, 1)}
	select {
	case b.requests <- req:
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
	select {
	case res := <-req.reply:
		return res.value, res.ok, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

// Next waits for the next prompt request. ok is false once ctx is done.
func (b *Bridge) Next(ctx context.Context) (PromptRequest, bool) {
	select {
	case req := <-b.requests:
		return req, true
	case <-ctx.Done():
		return PromptRequest{}, false
	}
}

var _ ports.InputPrompter = (*Bridge)(nil)
