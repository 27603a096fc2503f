package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/readnote/readnote/internal/tui"
)

func newPanelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "panel",
		Short: "Open the chat panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPanel()
		},
	}
}

func runPanel() error {
	a, broker, err := newApp()
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.New(a, broker), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("panel exited with error: %w", err)
	}
	return nil
}
