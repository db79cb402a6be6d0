package editor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/scribe/api"
	"github.com/agentic-research/scribe/internal/editerr"
	"github.com/agentic-research/scribe/internal/jsast"
)

const resourceArray = `[
  {
    id: 'a',
    subject: 'maths',
    levelKey: 'terminale',
    typeKey: 'exercise',
    duration: '1h'
  }
]`

const appVue = `<template>
  <ResourceList :items="resources" />
</template>

<script setup>
import ResourceList from './components/ResourceList.vue'

const resources = ` + resourceArray + `
</script>

<style scoped>
h1 { color: red; }
</style>
`

const translationsJS = `// Translations for the site
export const translations = {
  fr: { resources: { exercises: { maths: {} } } },
  en: { resources: { exercises: { maths: {} } } }
}
`

func resource(id string) api.Resource {
	return api.Resource{ID: id, Subject: "physics", LevelKey: "prepa1", TypeKey: "course", Duration: "2h"}
}

func TestRemoveResourceEntry_ToEmptyArray(t *testing.T) {
	ed := New(Options{})
	out, err := ed.RemoveResourceEntry(context.Background(), appVue, "a")
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(appVue, resourceArray, "[]", 1), out)
	assert.Contains(t, out, "const resources = []\n</script>")
}

func TestRemoveResourceEntry_AbsentIsNoop(t *testing.T) {
	ed := New(Options{})
	out, err := ed.RemoveResourceEntry(context.Background(), appVue, "zz")
	require.NoError(t, err)
	assert.Equal(t, appVue, out)
}

func TestAddResourceEntry_ThenFind(t *testing.T) {
	ctx := context.Background()
	ed := New(Options{})
	out, err := ed.AddResourceEntry(ctx, appVue, resource("b"))
	require.NoError(t, err)

	// markup outside the script block is untouched
	assert.True(t, strings.HasPrefix(out, "<template>\n  <ResourceList :items=\"resources\" />\n</template>\n\n<script setup>\nimport ResourceList"))
	assert.True(t, strings.HasSuffix(out, "</script>\n\n<style scoped>\nh1 { color: red; }\n</style>\n"))

	list, err := ed.ListResources(ctx, out)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, resource("b"), list[1])

	r, ok, err := ed.FindResource(ctx, out, "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "physics", r.Subject)

	again, err := ed.RemoveResourceEntry(ctx, out, "missing")
	require.NoError(t, err)
	assert.Equal(t, out, again)

	_, err = ed.AddResourceEntry(ctx, out, resource("b"))
	assert.True(t, errors.Is(err, editerr.ErrEntryExists))
}

func TestUpdateResourceEntry(t *testing.T) {
	ctx := context.Background()
	ed := New(Options{})
	r := api.Resource{ID: "a", Subject: "maths", LevelKey: "terminale", TypeKey: "exercise", Duration: "3h", HasVideo: true, VideoURL: "https://example.org/v"}
	out, err := ed.UpdateResourceEntry(ctx, appVue, "a", r)
	require.NoError(t, err)

	list, err := ed.ListResources(ctx, out)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, r, list[0])

	_, err = ed.UpdateResourceEntry(ctx, appVue, "missing", r)
	assert.True(t, errors.Is(err, editerr.ErrEntryNotFound))
}

func TestResourceEntry_DuplicateIDs(t *testing.T) {
	ctx := context.Background()
	text := "<script setup>\nconst resources = [{ id: 'a', n: 1 }, { id: 'a', n: 2 }]\n</script>\n"

	_, err := New(Options{}).UpdateResourceEntry(ctx, text, "a", resource("a"))
	assert.True(t, errors.Is(err, editerr.ErrStructuralAmbiguity))

	out, err := New(Options{AllowDuplicateIDs: true}).RemoveResourceEntry(ctx, text, "a")
	require.NoError(t, err)
	assert.Equal(t, "<script setup>\nconst resources = []\n</script>\n", out)
}

func TestResourceEntry_TypeScriptScript(t *testing.T) {
	ctx := context.Background()
	text := "<script setup lang=\"ts\">\nimport type { Resource } from './types'\nconst resources: Resource[] = []\n</script>\n"
	out, err := New(Options{}).AddResourceEntry(ctx, text, resource("b"))
	require.NoError(t, err)
	assert.Contains(t, out, "const resources: Resource[] = [\n")
	assert.Contains(t, out, "import type { Resource } from './types'\n")

	list, err := New(Options{}).ListResources(ctx, out)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
}

func TestResourceEntry_Failures(t *testing.T) {
	ctx := context.Background()
	ed := New(Options{})

	_, err := ed.AddResourceEntry(ctx, "<template/>\n", resource("b"))
	assert.True(t, errors.Is(err, editerr.ErrRegionNotFound))

	_, err = ed.AddResourceEntry(ctx, "<script setup>\nconst other = []\n</script>", resource("b"))
	assert.True(t, errors.Is(err, editerr.ErrDeclarationNotFound))

	_, err = ed.AddResourceEntry(ctx, "<script setup>\nconst resources = {}\n</script>", resource("b"))
	assert.True(t, errors.Is(err, editerr.ErrDeclarationNotFound))

	_, err = ed.AddResourceEntry(ctx, "<script setup>\nconst resources = [makeResource('a')]\n</script>", resource("b"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, editerr.ErrParseFailure))
	var se *jsast.SyntaxError
	assert.ErrorAs(t, err, &se)

	_, err = New(Options{ArrayName: "items"}).ListResources(ctx, appVue)
	assert.True(t, errors.Is(err, editerr.ErrDeclarationNotFound))
}

func TestResourceEntry_MalformedLiteral(t *testing.T) {
	ctx := context.Background()
	ed := New(Options{})
	for name, body := range map[string]string{
		"missing bracket":     "const resources = [{id:'a'}",
		"unterminated string": "const resources = [{id:'a}]",
		"missing brace":       "const resources = [{id:'a']",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ed.ListResources(ctx, "<script setup>\n"+body+"\n</script>\n")
			require.Error(t, err)
			assert.True(t, errors.Is(err, editerr.ErrParseFailure), err.Error())

			_, err = ed.AddResourceEntry(ctx, "<script setup>\n"+body+"\n</script>\n", resource("b"))
			assert.True(t, errors.Is(err, editerr.ErrParseFailure), err.Error())
		})
	}
}

func TestAddTranslations_BothLanguages(t *testing.T) {
	ctx := context.Background()
	ed := New(Options{})
	set := api.TranslationSet{
		"fr": {Title: "T", Description: "D"},
		"en": {Title: "T2", Description: "D2"},
	}
	out, err := ed.AddTranslations(ctx, translationsJS, "maths", "r1", set)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "// Translations for the site\nexport const translations = {\n"))

	got, err := ed.ReadTranslations(ctx, out, "maths", "r1")
	require.NoError(t, err)
	assert.Equal(t, "T", got["fr"].Title)
	assert.Equal(t, "T2", got["en"].Title)
	assert.Equal(t, set, got)

	tbl, err := ed.Translations(ctx, out)
	require.NoError(t, err)
	fr, ok, err := tbl.Lookup("fr", "maths", "r1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "D", fr.Description)
}

func TestUpdateTranslations_Upserts(t *testing.T) {
	ctx := context.Background()
	ed := New(Options{})
	out, err := ed.UpdateTranslations(ctx, translationsJS, "chemistry", "c1", api.TranslationSet{"fr": {Title: "Chimie"}})
	require.NoError(t, err)

	got, err := ed.ReadTranslations(ctx, out, "chemistry", "c1")
	require.NoError(t, err)
	assert.Equal(t, "Chimie", got["fr"].Title)
	assert.Equal(t, api.TranslationEntry{}, got["en"])
}

func TestRemoveTranslations(t *testing.T) {
	ctx := context.Background()
	ed := New(Options{})
	added, err := ed.AddTranslations(ctx, translationsJS, "maths", "r1", api.TranslationSet{"fr": {Title: "T"}, "en": {Title: "T2"}})
	require.NoError(t, err)

	out, err := ed.RemoveTranslations(ctx, added, "maths", "r1")
	require.NoError(t, err)
	got, err := ed.ReadTranslations(ctx, out, "maths", "r1")
	require.NoError(t, err)
	assert.Empty(t, got)

	// absent entries leave the text alone
	same, err := ed.RemoveTranslations(ctx, translationsJS, "maths", "nope")
	require.NoError(t, err)
	assert.Equal(t, translationsJS, same)
}

func TestAddTranslations_KeepsCRLF(t *testing.T) {
	ctx := context.Background()
	src := strings.ReplaceAll(translationsJS, "\n", "\r\n")
	out, err := New(Options{}).AddTranslations(ctx, src, "maths", "r1", api.TranslationSet{
		"fr": {Title: "T", Description: "D"},
		"en": {Title: "T2", Description: "D2"},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "r1")
	assert.Equal(t, strings.Count(out, "\n"), strings.Count(out, "\r\n"), "no bare LF in %q", out)
}

func TestTranslations_Failures(t *testing.T) {
	ctx := context.Background()
	ed := New(Options{})

	_, err := ed.AddTranslations(ctx, "export const other = {}\n", "maths", "r1", nil)
	assert.True(t, errors.Is(err, editerr.ErrRegionNotFound))

	_, err = ed.AddTranslations(ctx, "export const translations = []\n", "maths", "r1", nil)
	assert.True(t, errors.Is(err, editerr.ErrDeclarationNotFound))

	_, err = ed.AddTranslations(ctx, "export const translations = { fr: load() }\n", "maths", "r1", nil)
	assert.True(t, errors.Is(err, editerr.ErrParseFailure))

	_, err = ed.AddTranslations(ctx, "export const translations = { fr: { resources: 1 } }\n", "maths", "r1", nil)
	assert.True(t, errors.Is(err, editerr.ErrStructuralAmbiguity))

	_, err = ed.AddTranslations(ctx, "export const translations = { fr: { resources: {}\n", "maths", "r1", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, editerr.ErrParseFailure), err.Error())
	assert.False(t, errors.Is(err, editerr.ErrRegionNotFound))
}

func TestRepairTranslations(t *testing.T) {
	ctx := context.Background()
	ed := New(Options{})
	corrupted := "export const translations = {\n" +
		"  fr: { resources: { exercises: { maths: { x: { title: 'A', nested: { title: 'B' } } } } } }\n" +
		"}\n"

	got, err := ed.ReadTranslations(ctx, corrupted, "maths", "nested")
	require.NoError(t, err)
	assert.Equal(t, "B", got["fr"].Title, "reads see repaired entries")

	out, report, err := ed.RepairTranslations(ctx, corrupted)
	require.NoError(t, err)
	assert.Equal(t, []string{"fr.maths.nested"}, report.Hoisted)

	tbl, err := ed.Translations(ctx, out)
	require.NoError(t, err)
	x, ok, err := tbl.Lookup("fr", "maths", "x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A", x.Title)

	again, report, err := ed.RepairTranslations(ctx, out)
	require.NoError(t, err)
	assert.False(t, report.Changed())
	assert.Equal(t, out, again)
}

func TestNew_Defaults(t *testing.T) {
	opts := New(Options{}).Options()
	assert.Equal(t, "resources", opts.ArrayName)
	assert.Equal(t, "translations", opts.ExportName)
	assert.Equal(t, []string{"fr", "en"}, opts.Languages)
	assert.Equal(t, DefaultResourceListPath, opts.ResourceListPath)
	assert.NotNil(t, opts.Markers.Open)
}
