package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/numinary/internal/bot"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete stored history, progress, lessons and events",
	RunE: func(cmd *cobra.Command, args []string) error {
		chatID, _ := cmd.Flags().GetInt64("chat")
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			if chatID != 0 {
				return fmt.Errorf("reset deletes chat %d's saved state; rerun with --yes to confirm", chatID)
			}
			return fmt.Errorf("reset deletes all data; rerun with --yes to confirm")
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if chatID != 0 {
			n, err := bot.ForgetChat(cmd.Context(), s.KVRepo(), chatID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d keys for chat %d.\n", n, chatID)
			return nil
		}

		if err := s.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All data deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
	resetCmd.Flags().Int64("chat", 0, "Only forget the saved state of this Telegram chat")
}
