package writeback

import (
	"regexp"
	"strings"

	"github.com/agentic-research/scribe/internal/editerr"
)

// Markers delimit the editable region of a file.
type Markers struct {
	Open  *regexp.Regexp
	Close *regexp.Regexp
}

// ScriptSetup matches the <script setup> block of a Vue single-file
// component, whatever other attributes the opening tag carries.
var ScriptSetup = Markers{
	Open:  regexp.MustCompile(`<script\b[^>]*\bsetup\b[^>]*>`),
	Close: regexp.MustCompile(`</script\s*>`),
}

var langAttr = regexp.MustCompile(`\blang\s*=\s*["']([^"']*)["']`)

// Region splits a file into the text before the region, the region
// itself and the text after it. Open is the matched opening marker, which
// ends Prefix.
type Region struct {
	Prefix string
	Body   string
	Suffix string
	Open   string
}

// Lang returns the lang attribute of the opening marker ("" when absent).
func (r Region) Lang() string {
	if m := langAttr.FindStringSubmatch(r.Open); m != nil {
		return m[1]
	}
	return ""
}

// Line returns the 0-based line of the file on which Body starts.
func (r Region) Line() int {
	return strings.Count(r.Prefix, "\n")
}

// Splice rebuilds the file around a new body.
func (r Region) Splice(body string) string {
	return SpliceRegion(r.Prefix, body, r.Suffix)
}

// ExtractRegion isolates the region delimited by m. The opening marker
// must occur exactly once and be followed by a closing marker; the region
// ends at the first closing marker after it.
func ExtractRegion(text string, m Markers) (Region, error) {
	opens := m.Open.FindAllStringIndex(text, -1)
	switch len(opens) {
	case 0:
		return Region{}, editerr.Errorf(editerr.RegionNotFound, "opening marker %s not found", m.Open)
	case 1:
	default:
		return Region{}, editerr.Errorf(editerr.RegionNotFound, "opening marker %s found %d times", m.Open, len(opens))
	}
	bodyStart := opens[0][1]
	loc := m.Close.FindStringIndex(text[bodyStart:])
	if loc == nil {
		return Region{}, editerr.Errorf(editerr.RegionNotFound, "closing marker %s not found", m.Close)
	}
	bodyEnd := bodyStart + loc[0]
	return Region{
		Prefix: text[:bodyStart],
		Body:   text[bodyStart:bodyEnd],
		Suffix: text[bodyEnd:],
		Open:   text[opens[0][0]:bodyStart],
	}, nil
}

// SpliceRegion is prefix + body + suffix.
func SpliceRegion(prefix, body, suffix string) string {
	var b strings.Builder
	b.Grow(len(prefix) + len(body) + len(suffix))
	b.WriteString(prefix)
	b.WriteString(body)
	b.WriteString(suffix)
	return b.String()
}
