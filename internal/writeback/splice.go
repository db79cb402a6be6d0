package writeback

import (
	"fmt"
	"strings"
)

// Splice replaces src[start:end] with newContent.
func Splice(src []byte, start, end int, newContent []byte) ([]byte, error) {
	if start < 0 || end > len(src) || start > end {
		return nil, fmt.Errorf("invalid byte range [%d:%d] for content of length %d", start, end, len(src))
	}

	// result = prefix + newContent + suffix
	result := make([]byte, 0, start+len(newContent)+len(src)-end)
	result = append(result, src[:start]...)
	result = append(result, newContent...)
	result = append(result, src[end:]...)
	return result, nil
}

// Reindent prefixes every line of s but the first with indent. Blank
// lines stay empty.
func Reindent(s, indent string) string {
	if indent == "" || !strings.Contains(s, "\n") {
		return s
	}
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
