package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"sniffer/internal/driver"
	"sniffer/internal/ui"
)

type checkOutcome struct {
	result *driver.Result
	err    error
}

// runCheckWithUI checks dir while a Bubble Tea progress view renders driver
// events on stderr. The report itself is printed afterwards by the caller.
func runCheckWithUI(cmd *cobra.Command, dir string, opts driver.Options) (*driver.Result, error) {
	files, err := driver.ListDumps(dir, opts.Extensions)
	if err != nil {
		return nil, fmt.Errorf("failed to list dumps: %w", err)
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.CheckDir(cmd.Context(), dir, optsCopy)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("sniffer check "+dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(cmd.ErrOrStderr()))
	_, uiErr := program.Run()
	// the view may quit before the driver is done
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
