package jsast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFormat(t *testing.T, src string, style Style) string {
	t.Helper()
	out, err := Format(src, style)
	require.NoError(t, err)
	return out
}

func TestFormat_FlatWhenFits(t *testing.T) {
	got := mustFormat(t, `const a = {x:1,"y":[1,2],z:{}};`, DefaultStyle())
	assert.Equal(t, "const a = { x: 1, y: [1, 2], z: {} }", got)
}

func TestFormat_EmptyArray(t *testing.T) {
	got := mustFormat(t, "const resources = [\n]", DefaultStyle())
	assert.Equal(t, "const resources = []", got)
}

func TestFormat_ArrayOfObjectsAlwaysBreaks(t *testing.T) {
	got := mustFormat(t, `const r = [{id:'a',n:1},{id:'b',n:2}]`, DefaultStyle())
	want := "const r = [\n" +
		"  { id: 'a', n: 1 },\n" +
		"  { id: 'b', n: 2 }\n" +
		"]"
	assert.Equal(t, want, got)
}

func TestFormat_BreaksWideObjects(t *testing.T) {
	src := `const resources = [{id:'a',subject:'maths',levelKey:'terminale',typeKey:'exercise',duration:'1h'}]`
	got := mustFormat(t, src, DefaultStyle())
	want := "const resources = [\n" +
		"  {\n" +
		"    id: 'a',\n" +
		"    subject: 'maths',\n" +
		"    levelKey: 'terminale',\n" +
		"    typeKey: 'exercise',\n" +
		"    duration: '1h'\n" +
		"  }\n" +
		"]"
	assert.Equal(t, want, got)
}

func TestFormat_NestedTranslations(t *testing.T) {
	src := `export const translations = {fr:{resources:{exercises:{maths:{r1:{title:'T',description:'D',fullDescription:'',notes:''}}}}}}`
	got := mustFormat(t, src, DefaultStyle())
	want := "export const translations = {\n" +
		"  fr: {\n" +
		"    resources: {\n" +
		"      exercises: {\n" +
		"        maths: {\n" +
		"          r1: { title: 'T', description: 'D', fullDescription: '', notes: '' }\n" +
		"        }\n" +
		"      }\n" +
		"    }\n" +
		"  }\n" +
		"}"
	assert.Equal(t, want, got)
}

func TestFormat_NarrowWidthBreaksDeeper(t *testing.T) {
	style := DefaultStyle()
	style.PrintWidth = 20
	got := mustFormat(t, `const a = {title:'Title',notes:''}`, style)
	assert.Equal(t, "const a = {\n  title: 'Title',\n  notes: ''\n}", got)
}

func TestFormat_Idempotent(t *testing.T) {
	inputs := []string{
		`const resources = [{id:'a',subject:'maths',levelKey:'terminale',typeKey:'exercise',duration:'1h',hasVideo:true,videoUrl:'https://example.com/v'}, {id:'b'}]`,
		`export const translations = {fr:{resources:{exercises:{maths:{r1:{title:'T',description:"L'exercice",fullDescription:'',notes:''}}}}},en:{}}`,
		`const x = [[1,2],[3,4],"a\tb", -1, 0x10, null, undefined]`,
	}
	for _, in := range inputs {
		once := mustFormat(t, in, DefaultStyle())
		twice := mustFormat(t, once, DefaultStyle())
		assert.Equal(t, once, twice)
	}
}

func TestFormat_QuotePreference(t *testing.T) {
	cases := map[string]string{
		`const s = "plain"`:       `const s = 'plain'`,
		`const s = "it's"`:        `const s = "it's"`,
		`const s = 'say "hi"'`:    `const s = 'say "hi"'`,
		`const s = "a'b\"c"`:      `const s = 'a\'b"c'`,
		`const s = 'back\\slash'`: `const s = 'back\\slash'`,
		`const s = "line\nbreak"`: `const s = 'line\nbreak'`,
	}
	for in, want := range cases {
		assert.Equal(t, want, mustFormat(t, in, DefaultStyle()), in)
	}
}

func TestFormat_DoubleQuoteStyle(t *testing.T) {
	style := DefaultStyle()
	style.SingleQuote = false
	assert.Equal(t, `const s = "x"`, mustFormat(t, `const s = 'x'`, style))
}

func TestFormat_KeysQuotedOnlyWhenNeeded(t *testing.T) {
	got := mustFormat(t, `const o = {'a-b': 1, "c": 2, 1: 3, 'x y': 4}`, DefaultStyle())
	assert.Equal(t, `const o = { 'a-b': 1, c: 2, 1: 3, 'x y': 4 }`, got)
}

func TestFormat_SemicolonsAndTrailingCommas(t *testing.T) {
	style := DefaultStyle()
	style.Semicolons = true
	style.TrailingComma = true
	got := mustFormat(t, `const r = [{id:'a',n:1},{id:'b',n:2}]`, style)
	want := "const r = [\n" +
		"  { id: 'a', n: 1 },\n" +
		"  { id: 'b', n: 2 },\n" +
		"];"
	assert.Equal(t, want, got)
}

func TestFormat_DropsComments(t *testing.T) {
	got := mustFormat(t, "const a = [\n  // note\n  1, /* two */ 2\n]", DefaultStyle())
	assert.Equal(t, "const a = [1, 2]", got)
}

func TestFormat_SyntaxError(t *testing.T) {
	_, err := Format("const a = {", DefaultStyle())
	assert.Error(t, err)
}

func TestSerialize_Compact(t *testing.T) {
	n := MustParseExpression(`{ id: 'a', tags: ['x', 'y'], meta: { n: 1.50 } }`)
	assert.Equal(t, "{ id: 'a', tags: ['x', 'y'], meta: { n: 1.50 } }", Serialize(n))
}

func TestFormatNode_Column(t *testing.T) {
	n := MustParseExpression(`{ title: 'T', description: 'D' }`)
	assert.Equal(t, "{ title: 'T', description: 'D' }", FormatNode(n, DefaultStyle(), 0))
	assert.Equal(t, "{\n  title: 'T',\n  description: 'D'\n}", FormatNode(n, DefaultStyle(), 60))
}

func TestFormat_KeepsUnpairedSurrogateEscape(t *testing.T) {
	got := mustFormat(t, `const s = ["\uD800", 'a\uDC00b', "\uD83D\uDE00"]`, DefaultStyle())
	assert.Equal(t, `const s = ["\uD800", 'a\uDC00b', '`+"\U0001F600"+`']`, got)
}

func TestParseExpression_UnpairedSurrogateRaw(t *testing.T) {
	n := MustParseExpression(`'\uD800'`)
	s := n.(*String)
	assert.Equal(t, `'\uD800'`, s.Raw)
	assert.Equal(t, `'\uD800'`, Serialize(s))

	paired := MustParseExpression(`'\uD83D\uDE00'`).(*String)
	assert.Empty(t, paired.Raw)
	assert.Equal(t, "\U0001F600", paired.Value)

	assert.Equal(t, `'x'`, Serialize(NewString("x")))
}
