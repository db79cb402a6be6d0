package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentic-research/scribe/internal/ingest"
	"github.com/agentic-research/scribe/internal/linter"
	"github.com/agentic-research/scribe/internal/pipeline"
	"github.com/agentic-research/scribe/internal/watch"
)

var lintWatch bool

// errLintFailed is returned when lint reports at least one error.
var errLintFailed = errors.New("lint found errors")

func init() {
	lintCmd.Flags().BoolVarP(&lintWatch, "watch", "w", false, "Lint again whenever either file changes")
	rootCmd.AddCommand(lintCmd, fmtCmd, checkCmd)
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Report duplicate ids, invalid resources and translation problems",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, done, err := openPipeline(false)
		if err != nil {
			return err
		}
		defer done()

		if !lintWatch {
			return runLint(cmd, p)
		}

		res, tr := p.Paths()
		files := []string{filepath.Join(cfg.ProjectDir, res), filepath.Join(cfg.ProjectDir, tr)}
		_ = runLint(cmd, p)
		return watch.Run(cmd.Context(), files, watch.DefaultDebounce, logger, func() {
			fmt.Fprintln(cmd.OutOrStdout(), "---")
			if err := runLint(cmd, p); err != nil && !errors.Is(err, errLintFailed) {
				logger.Error().Err(err).Msg("lint")
			}
		})
	},
}

func runLint(cmd *cobra.Command, p *pipeline.Pipeline) error {
	diags, err := p.Lint(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, d := range diags {
		fmt.Fprintln(out, d.String())
	}
	if len(diags) == 0 {
		fmt.Fprintln(out, "ok")
	}
	if linter.HasErrors(diags) {
		return errLintFailed
	}
	return nil
}

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Reformat the resource list and translation table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, done, err := openPipeline(true)
		if err != nil {
			return err
		}
		defer done()
		res, err := p.Format(cmd.Context())
		if err != nil {
			return err
		}
		printResult(cmd, res)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the web project's files exist and parse",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := openProject()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		info, err := proj.Check(ctx)
		if err != nil {
			return err
		}
		p, done, err := openPipeline(false)
		if err != nil {
			return err
		}
		defer done()

		resText, trText, err := p.Read(ctx)
		if err != nil {
			return err
		}
		ed := p.Editor()
		list, err := ed.ListResources(ctx, resText)
		if err != nil {
			return fmt.Errorf("%s: %w", info.ResourceList, err)
		}
		tbl, err := ed.Translations(ctx, trText)
		if err != nil {
			return fmt.Errorf("%s: %w", info.Translations, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "project       %s\n", info.Root)
		fmt.Fprintf(out, "resource list %s (%d bytes, %d resources)\n", info.ResourceList, info.ResourceListSize, len(list))
		fmt.Fprintf(out, "translations  %s (%d bytes, languages %v)\n", info.Translations, info.TranslationsSize, tbl.Languages)

		for _, path := range []string{info.ResourceList, info.Translations} {
			commits, err := ingest.FileHistory(ctx, cfg.ProjectDir, path, 1)
			if err != nil {
				logger.Warn().Err(err).Str("file", path).Msg("git history")
				continue
			}
			if len(commits) > 0 {
				c := commits[0]
				fmt.Fprintf(out, "last commit   %s %s %s (%s, %s)\n", path, c.SHA[:min(7, len(c.SHA))], c.Subject, c.Author, c.Date)
			}
		}
		return nil
	},
}
