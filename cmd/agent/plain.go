package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/tinker"
	"github.com/fwojciec/tinker/agent"
	bt "github.com/fwojciec/tinker/bubbletea"
)

// printer writes events as plain lines. Text deltas are streamed as they
// arrive; tool activity gets a line of its own.
type printer struct {
	w      io.Writer
	inText bool
}

func (p *printer) handle(e tinker.Event) {
	switch e := e.(type) {
	case tinker.EventTextDelta:
		p.inText = true
		fmt.Fprint(p.w, e.Delta)
	case tinker.EventThinkingDelta:
		// Reasoning is only shown by the TUI.
	case tinker.EventToolCallBegin:
	case tinker.EventToolCallEnd:
		p.endText()
		fmt.Fprintf(p.w, "→ %s %s\n", e.Call.Name, strings.TrimSpace(string(e.Call.Arguments)))
	case tinker.EventToolResult:
		p.endText()
		mark := "←"
		if e.IsError {
			mark = "✗"
		}
		fmt.Fprintf(p.w, "%s %s: %s\n", mark, e.ToolName, e.Content)
	}
}

func (p *printer) endText() {
	if p.inText {
		fmt.Fprintln(p.w)
		p.inText = false
	}
}

func runPlain(ctx context.Context, fn bt.AgentFunc, session *tinker.Session, w io.Writer) error {
	p := &printer{w: w}
	err := fn(ctx, session, p.handle)
	p.endText()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Answer: %s\n", agent.FinalAnswer(session))
	return nil
}
