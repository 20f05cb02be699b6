package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/moore/internal/cli"
	"github.com/aretw0/moore/pkg/analysis"
	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process <word>",
	Short: "Run a word through the automaton",
	Long:  `Processes the word from the initial state and prints every step and the output word. A missing transition prints the partial trace and exits non-zero.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := cli.CreateEngine(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer engine.Close()

		res, runErr := engine.Process(args[0])
		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			body := struct {
				Result any    `json:"result,omitempty"`
				Error  string `json:"error,omitempty"`
			}{}
			if res != nil {
				body.Result = res
			}
			if runErr != nil {
				body.Error = runErr.Error()
			}
			if err := enc.Encode(body); err != nil {
				return err
			}
		} else {
			fmt.Fprint(out, analysis.FormatResult(res, runErr))
		}
		if runErr != nil {
			return reportedError{runErr}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().Bool("json", false, "Print the result as JSON")
}
