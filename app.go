package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// TabSpec names the input behind one tab. More than one file means the
// tab holds a merged dataset; Stdin means the tab drains piped input.
type TabSpec struct {
	Files []string
	Stdin bool
}

type App struct {
	config  *Config
	model   *Model
	program *tea.Program
}

func NewApp(config *Config, specs []TabSpec, initial FilterState, follow bool) *App {
	return &App{
		config: config,
		model:  NewModel(config, specs, initial, follow),
	}
}

func (a *App) Run() error {
	a.program = tea.NewProgram(a.model, tea.WithAltScreen())
	if _, err := a.program.Run(); err != nil {
		return fmt.Errorf("failed to run program: %w", err)
	}
	return nil
}
