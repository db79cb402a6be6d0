package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	backupLimit int
	backupKeep  int
	backupJSON  bool
)

func init() {
	backupListCmd.Flags().IntVar(&backupLimit, "limit", 20, "Number of snapshots to show (0 for all)")
	backupListCmd.Flags().BoolVar(&backupJSON, "json", false, "Print JSON")
	backupPruneCmd.Flags().IntVar(&backupKeep, "keep", -1, "Snapshots to keep (default from config)")

	backupCmd.AddCommand(backupListCmd, backupRestoreCmd, backupPruneCmd)
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage the snapshots taken before each edit",
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		snaps, err := store.List(cmd.Context(), backupLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if backupJSON {
			return printJSON(out, snaps)
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tLABEL\tFILES")
		for _, s := range snaps {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID[:8], s.CreatedAt.Local().Format(time.DateTime), s.Label, strings.Join(s.Paths, ", "))
		}
		return tw.Flush()
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Write back the files of a snapshot (a unique id prefix is enough)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, done, err := openPipeline(true)
		if err != nil {
			return err
		}
		defer done()
		res, err := p.Restore(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printResult(cmd, res)
		return nil
	},
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		keep := backupKeep
		if keep < 0 {
			keep = cfg.BackupsKept
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		n, err := store.Prune(cmd.Context(), keep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d snapshots, kept at most %d\n", n, keep)
		return nil
	},
}
