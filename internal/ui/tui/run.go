package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/jenkins-stack/internal/engine"
	"github.com/imamik/jenkins-stack/internal/stack"
)

// PassFunc runs an up or destroy pass, reporting progress to observe.
type PassFunc func(ctx context.Context, observe engine.Observer) (stack.Outputs, error)

// Run shows m while pass runs in the background and returns the pass
// result. Quitting the view cancels the pass.
func Run(ctx context.Context, m Model, pass PassFunc, opts ...tea.ProgramOption) (stack.Outputs, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(m, opts...)

	go func() {
		out, err := pass(ctx, func(e engine.Event) {
			p.Send(EventMsg{Event: e})
		})
		if err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{Outputs: out})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("TUI error: %w", err)
	}

	fm := finalModel.(Model)
	if fm.Err != nil {
		return nil, fm.Err
	}
	return fm.Outputs, nil
}
