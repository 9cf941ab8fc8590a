package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Program runs the kiosk model on the terminal.
type Program struct {
	program *tea.Program
}

// NewProgram creates a program bound to controller. Options are passed to
// tea.NewProgram; the alternate screen is always used.
func NewProgram(controller Controller, opts ...tea.ProgramOption) *Program {
	options := append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)

	return &Program{program: tea.NewProgram(NewModel(controller), options...)}
}

// Render queues view for display. It is safe to call from any goroutine.
func (p *Program) Render(view View) {
	p.program.Send(viewMsg(view))
}

// Run blocks until the operator quits or ctx is done.
// A quit caused by ctx is not an error.
func (p *Program) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			p.program.Quit()
		case <-done:
		}
	}()

	_, err := p.program.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}
