package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/abhisek/numinary/internal/evaluator"
	"github.com/abhisek/numinary/internal/problemgen"
	"github.com/spf13/cobra"
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "Generate practice problems and verify their answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		topicFlag, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")

		topic, err := problemgen.ParseTopic(topicFlag)
		if err != nil {
			return err
		}
		if count < 1 {
			return fmt.Errorf("--count must be at least 1")
		}

		validators := problemgen.DefaultValidators(evaluator.New())
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TOPIC\tQUESTION\tANSWER\tCHECK")

		var failed int
		for _, p := range newGenerator(cmd).GenerateN(topic, count) {
			check := "ok"
			if verr := problemgen.Verify(p, validators...); verr != nil {
				check = verr.Error()
				failed++
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Topic, p.Question, p.Answer, check)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d problems failed verification", failed, count)
		}
		return nil
	},
}

func init() {
	problemsCmd.Flags().StringP("topic", "t", "all", "Topic: all, arithmetic, algebra, trigonometry")
	problemsCmd.Flags().IntP("count", "n", 10, "Number of problems")
}
