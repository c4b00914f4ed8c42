package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/numinary/internal/evaluator"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate an expression and print the result",
	Example: `  numinary eval "2 * (3 + 4)"
  numinary eval "sin(pi/6) + sqrt(16)"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := evaluator.New().EvaluateString(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result)
		return nil
	},
}
