package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"labelgen/cmd/labelgen/ui"
	"labelgen/internal/logging"
)

// runInteractive opens the label form and blocks until the user quits.
func runInteractive(parent context.Context) error {
	ctx, cancel := signalContext(parent)
	defer cancel()

	app, st, err := openApp()
	if err != nil {
		return err
	}
	defer st.Close()

	logging.Boot("Starting form (store=%s)", st.Path())
	p := tea.NewProgram(
		ui.NewModel(ctx, app),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		logging.BootError("Form exited with error: %v", err)
		return fmt.Errorf("form exited: %w", err)
	}
	logging.Boot("Form closed")
	return nil
}
