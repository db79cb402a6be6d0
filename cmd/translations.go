package cmd

import (
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	translationsCmd.AddCommand(translationsShowCmd, translationsRepairCmd)
	rootCmd.AddCommand(translationsCmd)
}

var translationsCmd = &cobra.Command{
	Use:     "translations",
	Aliases: []string{"tr"},
	Short:   "Read and repair the translation table",
}

var translationsShowCmd = &cobra.Command{
	Use:   "show <subject> <id>",
	Short: "Show the translations of one resource",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, done, err := openPipeline(false)
		if err != nil {
			return err
		}
		defer done()
		ctx := cmd.Context()
		_, text, err := p.Read(ctx)
		if err != nil {
			return err
		}
		set, err := p.Editor().ReadTranslations(ctx, text, args[0], args[1])
		if err != nil {
			return err
		}
		return printYAML(cmd.OutOrStdout(), set)
	},
}

var translationsRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Move nested entries to their own keys in every subject",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, done, err := openPipeline(true)
		if err != nil {
			return err
		}
		defer done()
		res, err := p.RepairTranslations(cmd.Context())
		if err != nil {
			return err
		}
		printResult(cmd, res)
		return nil
	},
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
