package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/agentic-research/scribe/api"
	"github.com/agentic-research/scribe/internal/editerr"
	"github.com/agentic-research/scribe/internal/pipeline"
)

// Exit codes: 1 for usage and I/O problems, 2 for rejected input, 3 when
// the files could not be edited as asked.
func exitCode(err error) int {
	switch editerr.KindOf(err) {
	case editerr.Unknown:
		return 1
	case editerr.InvalidInput:
		return 2
	default:
		return 3
	}
}

// readInput decodes a resource with its translations from a YAML or JSON
// file; "-" reads stdin.
func readInput(cmd *cobra.Command, path string) (api.ResourceInput, error) {
	var in api.ResourceInput
	if path == "" {
		return in, fmt.Errorf("--file is required")
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return in, fmt.Errorf("read input: %w", err)
	}
	if err := yaml.Unmarshal(data, &in); err != nil {
		return in, editerr.Wrap(editerr.InvalidInput, err, "decode input")
	}
	return in, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(v)
}

// printResult reports an edit: diffs in dry-run mode, else the files written.
func printResult(cmd *cobra.Command, res pipeline.Result) {
	out := cmd.OutOrStdout()
	for _, d := range res.Diffs {
		fmt.Fprint(out, d.Diff)
	}
	if res.Repaired.Changed() {
		r := res.Repaired
		fmt.Fprintf(out, "repaired: %d split, %d hoisted, %d dropped\n", len(r.Split), len(r.Hoisted), len(r.Dropped))
		for _, k := range r.Split {
			fmt.Fprintf(out, "  split   %s\n", k)
		}
		for _, k := range r.Hoisted {
			fmt.Fprintf(out, "  hoisted %s\n", k)
		}
		for _, k := range r.Dropped {
			fmt.Fprintf(out, "  dropped %s\n", k)
		}
	}
	if len(res.Changed) == 0 {
		fmt.Fprintln(out, "no changes")
		return
	}
	if len(res.Diffs) > 0 {
		return
	}
	fmt.Fprintf(out, "wrote %s\n", strings.Join(res.Changed, ", "))
	if res.Snapshot != "" {
		fmt.Fprintf(out, "snapshot %s\n", res.Snapshot)
	}
}
