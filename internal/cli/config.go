package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/readnote/readnote/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write client settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one setting",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := config.NewManager(config.DefaultDataDir())
				if err := cfg.Load(); err != nil {
					return err
				}
				value, err := cfg.Value(args[0])
				if err != nil {
					return err
				}
				fmt.Println(value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one setting",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := config.NewManager(config.DefaultDataDir())
				if err := cfg.Load(); err != nil {
					return err
				}
				return cfg.Set(args[0], args[1])
			},
		},
	)

	return cmd
}
