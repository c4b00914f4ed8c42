package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/numinary/internal/session"
	"github.com/abhisek/numinary/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print or export the calculation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		export, _ := cmd.Flags().GetString("export")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		var history []session.HistoryEntry
		if _, err := store.GetJSON(cmd.Context(), s.KVRepo(), session.KeyHistory, &history); err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		text := session.ExportHistory(history)

		if export == "" {
			if text == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No calculations yet.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		}
		if err := os.WriteFile(export, []byte(text+"\n"), 0o644); err != nil {
			return fmt.Errorf("export history: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(history), export)
		return nil
	},
}

func init() {
	historyCmd.Flags().String("export", "", "Write the history to a file (e.g. numinary-history.txt)")
	historyCmd.Flags().Lookup("export").NoOptDefVal = "numinary-history.txt"
}
