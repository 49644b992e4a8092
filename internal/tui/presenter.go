package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lifetag/tagscan/internal/model"
	"github.com/lifetag/tagscan/internal/pipeline"
)

// sender delivers messages to a running program.
type sender interface {
	Send(msg tea.Msg)
}

// Presenter forwards intake output to a Bubble Tea program.
type Presenter struct {
	program sender
}

// NewPresenter creates a presenter for program.
func NewPresenter(program sender) *Presenter {
	return &Presenter{program: program}
}

// Render shows a new view.
func (p *Presenter) Render(state model.ViewState) {
	p.program.Send(viewMsg{state: state})
}

// Alert opens an alert and waits until the user dismisses it.
func (p *Presenter) Alert(ctx context.Context, message string) error {
	ack := make(chan struct{})
	p.program.Send(alertMsg{message: message, ack: ack})

	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run shows an intake session in the terminal until the user quits.
// build receives the presenter and returns the intake to run. A camera
// failure keeps the error on screen and is returned once the user quits.
func Run(ctx context.Context, build func(*Presenter) *pipeline.Intake, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var intake *pipeline.Intake
	program := tea.NewProgram(
		NewModel(func() { intake.Rescan() }),
		append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...,
	)
	intake = build(NewPresenter(program))

	errc := make(chan error, 1)
	go func() {
		errc <- intake.Run(ctx)
	}()

	_, uiErr := program.Run()
	cancel()
	runErr := <-errc

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if uiErr != nil && !errors.Is(uiErr, tea.ErrProgramKilled) {
		return uiErr
	}
	return nil
}
