package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/readnote/readnote/internal/app"
	"github.com/readnote/readnote/internal/config"
	"github.com/readnote/readnote/internal/tui/events"
)

// Execute runs the readnote CLI.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readnote",
		Short: "Turn what you read into notes",
		Long: `ReadNote sends selected text to your note-taking backend and keeps a
local history of every request. Run with no arguments to open the chat
panel, or use "readnote send" to fire a single note request.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPanel()
		},
	}

	cmd.AddCommand(
		newPanelCmd(),
		newSendCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newQueueCmd(),
		newConfigCmd(),
	)

	return cmd
}

// newApp loads the config and wires the service layer.
func newApp() (*app.App, *events.Broker, error) {
	cfg := config.NewManager(config.DefaultDataDir())
	if err := cfg.Load(); err != nil {
		return nil, nil, err
	}

	broker := events.NewBroker()
	return app.New(cfg, broker), broker, nil
}
