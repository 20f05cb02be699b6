package main

import (
	"fmt"

	"github.com/aretw0/moore/internal/cli"
	"github.com/aretw0/moore/pkg/adapters/file"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage saved automata",
	Long:  `Saves, lists, shows and deletes named snapshots in the configured store (--store file or redis to persist across runs).`,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current automaton under name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := cli.CreateEngine(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer engine.Close()

		if err := engine.Manager().SaveSnapshot(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s store)\n", args[0], cfg.Store)
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := cli.CreateEngine(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer engine.Close()

		names, err := engine.Manager().ListSnapshots(cmd.Context())
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a saved snapshot as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := cli.CreateEngine(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer engine.Close()

		snap, err := engine.Manager().Store().Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(snap)
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := cli.CreateEngine(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer engine.Close()
		return engine.Manager().DeleteSnapshot(cmd.Context(), args[0])
	},
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export <name> <path>",
	Short: "Write a saved snapshot as a definition file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := cli.CreateEngine(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer engine.Close()

		snap, err := engine.Manager().Store().Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return file.SaveDefinition(args[1], snap)
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotListCmd, snapshotShowCmd, snapshotDeleteCmd, snapshotExportCmd)
}
