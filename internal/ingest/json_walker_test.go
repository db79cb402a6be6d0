package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonWalker(t *testing.T) {
	data := map[string]any{
		"fr": map[string]any{
			"resources": map[string]any{
				"exercises": map[string]any{
					"maths": map[string]any{
						"r1":        map[string]any{"title": "Limites", "notes": ""},
						"it's-ok":   map[string]any{"title": "Quote"},
						"with.dots": map[string]any{"title": "Dots"},
					},
				},
			},
		},
		"meta": []any{"a", "b"},
	}

	w := NewJsonWalker()

	t.Run("select object", func(t *testing.T) {
		matches, err := w.Query(data, TranslationEntryPath("fr", "maths", "r1"))
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, map[string]any{"title": "Limites", "notes": ""}, matches[0].Values())
	})

	t.Run("select primitive", func(t *testing.T) {
		matches, err := w.Query(data, KeyPath("fr", "resources", "exercises", "maths", "r1", "title"))
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, map[string]any{"value": "Limites"}, matches[0].Values())
	})

	t.Run("keys with special characters", func(t *testing.T) {
		matches, err := w.Query(data, TranslationEntryPath("fr", "maths", "it's-ok"))
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "Quote", matches[0].Values()["title"])

		matches, err = w.Query(data, TranslationEntryPath("fr", "maths", "with.dots"))
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "Dots", matches[0].Values()["title"])
	})

	t.Run("wildcard over array", func(t *testing.T) {
		matches, err := w.Query(data, "$.meta[*]")
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("missing path", func(t *testing.T) {
		matches, err := w.Query(data, ExercisesPath("en"))
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("invalid selector", func(t *testing.T) {
		_, err := w.Query(data, "$[")
		assert.Error(t, err)
	})
}

func TestKeyPath(t *testing.T) {
	assert.Equal(t, "$", KeyPath())
	assert.Equal(t, "$['fr']['resources']", KeyPath("fr", "resources"))
	assert.Equal(t, `$['it\'s']`, KeyPath("it's"))
	assert.Equal(t, "$['en']['resources']['exercises']['maths']['r1']", TranslationEntryPath("en", "maths", "r1"))
}
