package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentic-research/scribe/api"
	"github.com/agentic-research/scribe/internal/editerr"
	"github.com/agentic-research/scribe/internal/resources"
)

var (
	listJSON  bool
	listStats bool
	inputFile string
)

func init() {
	resourceListCmd.Flags().BoolVar(&listJSON, "json", false, "Print JSON")
	resourceListCmd.Flags().BoolVar(&listStats, "stats", false, "Print counts instead of the list")
	resourceAddCmd.Flags().StringVarP(&inputFile, "file", "f", "", "YAML or JSON file holding resource and translations (- for stdin)")
	resourceUpdateCmd.Flags().StringVarP(&inputFile, "file", "f", "", "YAML or JSON file holding resource and translations (- for stdin)")

	resourceCmd.AddCommand(resourceListCmd, resourceShowCmd, resourceAddCmd,
		resourceUpdateCmd, resourceRemoveCmd, resourceNewIDCmd)
	rootCmd.AddCommand(resourceCmd)
}

var resourceCmd = &cobra.Command{
	Use:   "resource",
	Short: "Read and edit the resource list",
}

var resourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, done, err := openPipeline(false)
		if err != nil {
			return err
		}
		defer done()
		ctx := cmd.Context()
		text, _, err := p.Read(ctx)
		if err != nil {
			return err
		}
		list, err := p.Editor().ListResources(ctx, text)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case listStats && listJSON:
			return printJSON(out, resources.Summarize(list))
		case listStats:
			s := resources.Summarize(list)
			fmt.Fprintf(out, "total %d, with video %d, with PDFs %d\n", s.Total, s.WithVideo, s.WithPDFs)
			for _, group := range []struct {
				name   string
				counts map[string]int
			}{{"subject", s.BySubject}, {"level", s.ByLevel}, {"type", s.ByType}} {
				for _, k := range sortedKeys(group.counts) {
					fmt.Fprintf(out, "  %-8s %-12s %d\n", group.name, k, group.counts[k])
				}
			}
			return nil
		case listJSON:
			if list == nil {
				list = []api.Resource{}
			}
			return printJSON(out, list)
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSUBJECT\tLEVEL\tTYPE\tDURATION\tVIDEO")
		for _, r := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%v\n", r.ID, r.Subject, r.LevelKey, r.TypeKey, r.Duration, r.HasVideo)
		}
		return tw.Flush()
	},
}

var resourceShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a resource and its translations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, done, err := openPipeline(false)
		if err != nil {
			return err
		}
		defer done()
		ctx := cmd.Context()
		resText, trText, err := p.Read(ctx)
		if err != nil {
			return err
		}
		ed := p.Editor()
		r, ok, err := ed.FindResource(ctx, resText, args[0])
		if err != nil {
			return err
		}
		if !ok {
			return editerr.Errorf(editerr.EntryNotFound, "resource %q not found", args[0])
		}
		set, err := ed.ReadTranslations(ctx, trText, r.Subject, r.ID)
		if err != nil {
			return err
		}
		return printYAML(cmd.OutOrStdout(), api.ResourceInput{Resource: r, Translations: set})
	},
}

var resourceAddCmd = &cobra.Command{
	Use:   "add -f <file>",
	Short: "Add a resource and its translations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := readInput(cmd, inputFile)
		if err != nil {
			return err
		}
		p, done, err := openPipeline(true)
		if err != nil {
			return err
		}
		defer done()
		res, err := p.AddResource(cmd.Context(), in)
		if err != nil {
			return err
		}
		printResult(cmd, res)
		return nil
	},
}

var resourceUpdateCmd = &cobra.Command{
	Use:   "update <id> -f <file>",
	Short: "Replace a resource and its translations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := readInput(cmd, inputFile)
		if err != nil {
			return err
		}
		p, done, err := openPipeline(true)
		if err != nil {
			return err
		}
		defer done()
		res, err := p.UpdateResource(cmd.Context(), args[0], in)
		if err != nil {
			return err
		}
		printResult(cmd, res)
		return nil
	},
}

var resourceRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a resource and its translations",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, done, err := openPipeline(true)
		if err != nil {
			return err
		}
		defer done()
		res, err := p.RemoveResource(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printResult(cmd, res)
		return nil
	},
}

var resourceNewIDCmd = &cobra.Command{
	Use:   "new-id <base>",
	Short: "Print the first unused id derived from base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, done, err := openPipeline(false)
		if err != nil {
			return err
		}
		defer done()
		ctx := cmd.Context()
		text, _, err := p.Read(ctx)
		if err != nil {
			return err
		}
		list, err := p.Editor().ListResources(ctx, text)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), resources.UniqueID(list, args[0]))
		return nil
	},
}
