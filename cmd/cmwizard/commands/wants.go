package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(wantsCmd)
}

var wantsCmd = &cobra.Command{
	Use:   "wants [<wants list id>]",
	Short: "Lists the want-lists of the account, or the cards of one want-list.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := getApp(cmd.Context())
		service, err := openSession(cmd.Context(), a)
		if err != nil {
			return err
		}
		defer service.Logout()

		if len(args) == 0 {
			lists, err := service.WantsLists(cmd.Context())
			if err != nil {
				return err
			}
			renderWantsLists(cmd.OutOrStdout(), lists)
			return nil
		}

		list, err := service.WantsList(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		renderWantsList(cmd.OutOrStdout(), list, service.Language())
		return nil
	},
}
