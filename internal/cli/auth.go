package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in through your browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := newApp()
			if err != nil {
				return err
			}

			loginURL, err := a.Auth.BeginLogin(cmd.Context())
			if err != nil {
				if loginURL == "" {
					return err
				}
				fmt.Println("Open this URL to sign in:", loginURL)
			} else {
				fmt.Println("A browser window has been opened to sign you in.")
			}

			fmt.Print("Paste the access token shown after sign-in: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}
			token := strings.TrimSpace(line)
			if token == "" {
				return errors.New("no token provided")
			}

			if tc, ok := a.Client.(interface{ SetToken(string) }); ok {
				tc.SetToken(token)
			}

			user, err := a.Auth.Refresh(cmd.Context())
			if err != nil {
				return fmt.Errorf("could not confirm sign-in: %w", err)
			}
			if err := a.Auth.HandleCallback(token, user); err != nil {
				return err
			}

			fmt.Println("Signed in as", user.DisplayName)
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear local auth state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := newApp()
			if err != nil {
				return err
			}
			if err := a.Auth.Clear(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}
