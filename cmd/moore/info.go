package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/moore/internal/cli"
	"github.com/aretw0/moore/internal/presentation/tui"
	"github.com/aretw0/moore/pkg/analysis"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe the automaton",
	Long:  `Prints the states, alphabets, determinism, completeness and transition table of the automaton.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := cli.CreateEngine(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer engine.Close()

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				analysis.Info
				Statistics analysis.Statistics `json:"statistics"`
			}{analysis.Describe(engine.Automaton()), analysis.Stats(engine.Automaton())})
		}

		render := tui.NewPlainRenderer()
		if isTerminal(out) {
			render = tui.NewRenderer()
		}
		text, err := render(tui.InfoMarkdown(engine.Automaton()))
		if err != nil {
			return err
		}
		fmt.Fprint(out, text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().Bool("json", false, "Print the description as JSON")
}
