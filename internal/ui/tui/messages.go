// Package tui provides a Bubble Tea progress view for registering and
// tearing down the stack, plus the prompts and tables the CLI prints.
package tui

import (
	"github.com/imamik/jenkins-stack/internal/engine"
	"github.com/imamik/jenkins-stack/internal/stack"
)

// EventMsg carries one engine progress event.
type EventMsg struct {
	Event engine.Event
}

// TickMsg is sent periodically to animate the spinner.
type TickMsg struct{}

// ErrMsg carries the error that ended the pass.
type ErrMsg struct{ Err error }

// DoneMsg signals that the pass completed.
type DoneMsg struct {
	Outputs stack.Outputs
}
