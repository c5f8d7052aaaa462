package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCheckCmd)
}

var loginCheckCmd = &cobra.Command{
	Use:   "login-check",
	Short: "Logs into cardmarket with the configured account and browser cookies.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := getApp(cmd.Context())
		service, err := openSession(cmd.Context(), a)
		if err != nil {
			return err
		}
		defer service.Logout()

		fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", a.cfg.Username)
		return nil
	},
}
