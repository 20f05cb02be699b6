package main

import (
	"fmt"

	"github.com/aretw0/moore/internal/cli"
	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/internal/presentation/graph"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the automaton as a Mermaid diagram",
	Long:  `Outputs a Mermaid flowchart (graph LR) of the automaton. With --word, the states visited by the word are highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := cli.CreateEngine(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer engine.Close()

		m := engine.Manager()
		if word, _ := cmd.Flags().GetString("word"); word != "" {
			if _, err := m.StartLive(cmd.Context(), word); err != nil {
				return err
			}
			for m.LiveStatus().Phase == domain.PhaseActive {
				if _, err := m.StepLive(cmd.Context()); err != nil {
					logger.Warn("word halted", logging.Err(err))
					break
				}
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(m.Automaton(), graph.OverlayFromStatus(m.LiveStatus())))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("word", "w", "", "Highlight the path of this word")
}
