package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/numinary/internal/bot"
	"github.com/abhisek/numinary/internal/session"
	"github.com/abhisek/numinary/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics from the event log",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		var ns *string
		if !all {
			local := ""
			ns = &local
		}
		st, err := s.EventRepo().Stats(ctx, ns)
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}

		var progress session.Progress
		if _, err := store.GetJSON(ctx, s.KVRepo(), session.KeyProgress, &progress); err != nil {
			return fmt.Errorf("load progress: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Completed:     %d\n", progress.Completed)
		fmt.Fprintf(out, "Streak:        %d (next milestone %d)\n", progress.Streak, session.NextStreakMilestone(progress.Streak))
		if progress.MathWhiz() {
			fmt.Fprintln(out, "Badge:         Math Whiz")
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Sessions:      %d\n", st.Sessions)
		fmt.Fprintf(out, "Calculations:  %d (%d failed)\n", st.Calculations, st.FailedCalculations)
		fmt.Fprintf(out, "Answers:       %d (%d correct)\n", st.Answers, st.CorrectAnswers)
		fmt.Fprintf(out, "LLM requests:  %d\n", st.LLMRequests)
		if all {
			chats, err := bot.StoredChats(ctx, s.KVRepo())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Bot chats:     %d\n", len(chats))
		}

		if len(st.Topics) == 0 {
			return nil
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-18s  %8s  %8s  %8s\n", "Topic", "Answered", "Correct", "Accuracy")
		fmt.Fprintln(out, strings.Repeat("─", 50))
		for _, t := range st.Topics {
			fmt.Fprintf(out, "%-18s  %8d  %8d  %7.0f%%\n", t.Topic, t.Answered, t.Correct, t.Accuracy()*100)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("all", false, "Include Telegram chats")
}
