package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDeclarations(t *testing.T) {
	src := []byte(`import { ref } from 'vue'

const resources = [
  { id: 'a' }
]
export const translations = { fr: {} };
let x = 1, y = 2
  var indented = 'v'
function f() { const inner = 1 }
`)
	decls, err := FindDeclarations(context.Background(), src, javascript.GetLanguage())
	require.NoError(t, err)

	var names []string
	for _, d := range decls {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"resources", "translations", "x", "y", "indented"}, names)

	res := decls[0]
	assert.Equal(t, "const", res.Keyword)
	assert.False(t, res.Exported)
	assert.Equal(t, 1, res.Declarators)
	assert.Equal(t, 2, res.Line)
	assert.Equal(t, "", res.Indent)
	stmt := string(src[res.Start:res.End])
	assert.True(t, strings.HasPrefix(stmt, "const resources = ["), stmt)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(stmt), "]"), stmt)
	assert.Equal(t, "[\n  { id: 'a' }\n]", string(src[res.ValueStart:res.ValueEnd]))

	tr := decls[1]
	assert.True(t, tr.Exported)
	assert.Equal(t, "const", tr.Keyword)
	assert.Equal(t, "export const translations = { fr: {} };", string(src[tr.Start:tr.End]))
	assert.Equal(t, "{ fr: {} }", string(src[tr.ValueStart:tr.ValueEnd]))

	assert.Equal(t, "let", decls[2].Keyword)
	assert.Equal(t, 2, decls[2].Declarators)
	assert.Equal(t, 2, decls[3].Declarators)

	assert.Equal(t, "var", decls[4].Keyword)
	assert.Equal(t, "  ", decls[4].Indent)
}

func TestFindDeclarations_TypeScript(t *testing.T) {
	src := []byte(`interface Resource { id: string }
const resources: Resource[] = [{ id: 'a' }]
`)
	decls, err := FindDeclarations(context.Background(), src, typescript.GetLanguage())
	require.NoError(t, err)
	require.Len(t, Named(decls, "resources"), 1)
	d := Named(decls, "resources")[0]
	assert.Equal(t, "[{ id: 'a' }]", string(src[d.ValueStart:d.ValueEnd]))
}

func TestNamed(t *testing.T) {
	decls := []Declaration{{Name: "a"}, {Name: "b"}, {Name: "a"}}
	assert.Len(t, Named(decls, "a"), 2)
	assert.Empty(t, Named(decls, "c"))
}
