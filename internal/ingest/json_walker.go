package ingest

import (
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// JsonWalker implements Walker for JSON-like data, such as a translation
// table converted with jsast.NodeToValue.
type JsonWalker struct{}

func NewJsonWalker() *JsonWalker {
	return &JsonWalker{}
}

// Query implements Walker.
func (w *JsonWalker) Query(root any, selector string) ([]Match, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}

	results := x.Get(root)

	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = &jsonMatch{value: r}
	}

	return matches, nil
}

type jsonMatch struct {
	value any
}

// Values implements Match.
func (m *jsonMatch) Values() map[string]any {
	switch v := m.value.(type) {
	case map[string]any:
		return v // preserve nesting
	default:
		return map[string]any{"value": v}
	}
}

// Context implements Match.
func (m *jsonMatch) Context() any {
	return m.value
}

// KeyPath builds a bracket-notation JSONPath selecting the nested keys,
// e.g. KeyPath("fr", "resources") == "$['fr']['resources']". Keys may hold
// any character.
func KeyPath(keys ...string) string {
	var b strings.Builder
	b.WriteByte('$')
	for _, k := range keys {
		b.WriteString("['")
		b.WriteString(strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(k))
		b.WriteString("']")
	}
	return b.String()
}

// TranslationEntryPath selects one translation entry.
func TranslationEntryPath(lang, subject, id string) string {
	return KeyPath(lang, "resources", "exercises", subject, id)
}

// ExercisesPath selects the subjects object of one language.
func ExercisesPath(lang string) string {
	return KeyPath(lang, "resources", "exercises")
}
