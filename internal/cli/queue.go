package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/readnote/readnote/internal/queue"
)

func newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show the local request history",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := newApp()
			if err != nil {
				return err
			}

			entries := a.Queue.Entries()
			if len(entries) == 0 {
				fmt.Println("No requests yet.")
				return nil
			}

			for _, entry := range entries {
				fmt.Println(formatEntry(entry))
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Wipe the local request history",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := newApp()
			if err != nil {
				return err
			}
			if err := a.Queue.Clear(); err != nil {
				return err
			}
			fmt.Println("History cleared.")
			return nil
		},
	})

	return cmd
}

func formatEntry(entry queue.Entry) string {
	text := entry.User
	if len(text) > 60 {
		text = text[:57] + "..."
	}
	text = strings.ReplaceAll(text, "\n", " ")

	line := fmt.Sprintf("[%-10s] %s  %s",
		entry.Status,
		entry.CreatedAt.Format("2006-01-02 15:04"),
		text,
	)
	if entry.Status == queue.StatusError && entry.Err != "" {
		line += "  (" + entry.Err + ")"
	}
	return line
}
