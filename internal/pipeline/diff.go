package pipeline

import (
	"github.com/pmezard/go-difflib/difflib"
)

// FileDiff is the unified diff of one file.
type FileDiff struct {
	Path string
	Diff string
}

// UnifiedDiff renders the change from before to after in unified format
// with three lines of context. Equal inputs give "".
func UnifiedDiff(path, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
}
