package main

import (
	"fmt"
	"os"

	"github.com/aretw0/moore"
	"github.com/aretw0/moore/internal/cli"
	"github.com/aretw0/moore/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var liveCmd = &cobra.Command{
	Use:   "live [word]",
	Short: "Step through words interactively",
	Long: `Opens a console that edits the automaton and steps words one symbol at a time.
When stdin is not a terminal and a word is given, the word is stepped to the end and the command exits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		styler := tui.NewStyler(profileFor(out))
		printer := cli.NewEventPrinter(out, styler)

		engine, err := cli.CreateEngine(cmd.Context(), cfg, logger, moore.WithListener(printer))
		if err != nil {
			return err
		}
		defer engine.Close()

		render := tui.NewPlainRenderer()
		if isTerminal(out) {
			render = tui.NewRenderer()
		}
		console := cli.NewConsole(engine, out, styler, render)

		interactive := isTerminal(os.Stdin)
		if forced, _ := cmd.Flags().GetBool("interactive"); forced {
			interactive = true
		}

		if len(args) == 1 {
			if !interactive {
				if err := console.AutoRun(cmd.Context(), args[0]); err != nil {
					return reportedError{err}
				}
				return nil
			}
			if _, err := engine.Manager().StartLive(cmd.Context(), args[0]); err != nil {
				return err
			}
		}
		if !interactive {
			return fmt.Errorf("live needs a terminal or a word argument")
		}

		tui.PrintBanner(out, profileFor(out))
		fmt.Fprintln(out, "Type help for commands.")
		return console.Loop(cmd.Context(), cmd.InOrStdin())
	},
}

func init() {
	rootCmd.AddCommand(liveCmd)
	liveCmd.Flags().BoolP("interactive", "i", false, "Read commands from stdin even when it is not a terminal")
}
