package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/readnote/readnote/internal/queue"
)

func newSendCmd() *cobra.Command {
	var sourceURL string

	cmd := &cobra.Command{
		Use:   "send [text]",
		Short: "Send selected text to the backend as a note request",
		Long: `Send takes the selected text from its arguments, or from stdin when no
arguments are given, and asks the backend to turn it into a note. The
request is recorded in the local history either way.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			}

			a, _, err := newApp()
			if err != nil {
				return err
			}

			entry, err := a.NoteService.Send(cmd.Context(), text, sourceURL)
			if err != nil {
				return err
			}

			switch entry.Status {
			case queue.StatusNeedLogin:
				fmt.Println("Not signed in. The request was queued; run `readnote login` and send again.")
			case queue.StatusDone:
				fmt.Println(entry.AI)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceURL, "url", "", "URL of the page the text came from")

	return cmd
}
