package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agentic-research/scribe/internal/mcpserver"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the edit operations as MCP tools on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, done, err := openPipeline(true)
		if err != nil {
			return err
		}
		defer done()
		return mcpserver.New(p, version, logger).ServeStdio()
	},
}
