package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"moviefinder/models"
	"moviefinder/services/browse"
)

// Run mounts ctrl and drives the terminal UI until the user quits or ctx is
// cancelled. The controller is closed before Run returns.
func Run(ctx context.Context, ctrl *browse.Controller, opts ...tea.ProgramOption) error {
	defer ctrl.Close()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(ctrl), opts...)

	// Send blocks until the program reads the message, and notifications can
	// fire from inside Update via SetSearchTerm.
	ctrl.Subscribe(func(s models.BrowseState) {
		go p.Send(StateMsg(s))
	})
	ctrl.Mount()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
