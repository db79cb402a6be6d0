package repair

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/scribe/internal/editerr"
	"github.com/agentic-research/scribe/internal/jsast"
)

func subject(t *testing.T, src string) *jsast.Object {
	t.Helper()
	n, err := jsast.ParseExpression(src)
	require.NoError(t, err)
	obj, ok := n.(*jsast.Object)
	require.True(t, ok)
	return obj
}

func TestSubject_SplitsNestedEntry(t *testing.T) {
	s := subject(t, `{ x: { title: 'A', nested: { title: 'B' } } }`)
	report, err := Subject(s)
	require.NoError(t, err)
	assert.Equal(t, `{ x: { title: 'A' }, nested: { title: 'B' } }`, jsast.Serialize(s))
	assert.Equal(t, []string{"x"}, report.Split)
	assert.Equal(t, []string{"nested"}, report.Hoisted)
	assert.True(t, report.Changed())
}

func TestSubject_HoistsRightAfterParentAndKeepsOrder(t *testing.T) {
	s := subject(t, `{
		a: { title: 'A' },
		b: { title: 'B', description: 'd', c: { title: 'C' }, d: { title: 'D' } },
		e: { title: 'E' }
	}`)
	_, err := Subject(s)
	require.NoError(t, err)
	assert.Equal(t,
		`{ a: { title: 'A' }, b: { title: 'B', description: 'd' }, c: { title: 'C' }, d: { title: 'D' }, e: { title: 'E' } }`,
		jsast.Serialize(s))
}

func TestSubject_FlattensDeepNesting(t *testing.T) {
	s := subject(t, `{ a: { title: 'A', b: { title: 'B', c: { title: 'C' } } } }`)
	report, err := Subject(s)
	require.NoError(t, err)
	assert.Equal(t, `{ a: { title: 'A' }, b: { title: 'B' }, c: { title: 'C' } }`, jsast.Serialize(s))
	assert.Equal(t, []string{"a", "b"}, report.Split)
	assert.Equal(t, []string{"b", "c"}, report.Hoisted)
}

func TestSubject_Idempotent(t *testing.T) {
	inputs := []string{
		`{ x: { title: 'A', nested: { title: 'B' } } }`,
		`{ a: { title: 'A', b: { title: 'B', c: { notes: 'n' } } }, z: 'scalar' }`,
		`{ ok: { title: 'T', extra: 'kept as is' } }`,
		`{}`,
	}
	for _, in := range inputs {
		s := subject(t, in)
		_, err := Subject(s)
		require.NoError(t, err, in)
		once := jsast.Clone(s)

		report, err := Subject(s)
		require.NoError(t, err, in)
		assert.False(t, report.Changed(), in)
		assert.True(t, jsast.Equal(once, s), in)
	}
}

func TestSubject_HealthyUntouched(t *testing.T) {
	s := subject(t, `{ r1: { title: 'T', extra: 1 }, legacy: 'x', r2: { title: 'U' } }`)
	before := jsast.Serialize(s)
	report, err := Subject(s)
	require.NoError(t, err)
	assert.False(t, report.Changed())
	assert.Equal(t, before, jsast.Serialize(s))
	assert.False(t, NeedsRepair(s))
}

func TestSubject_DropsIdenticalCollision(t *testing.T) {
	s := subject(t, `{ x: { title: 'A', y: { title: 'B' } }, y: { title: 'B' } }`)
	report, err := Subject(s)
	require.NoError(t, err)
	assert.Equal(t, `{ x: { title: 'A' }, y: { title: 'B' } }`, jsast.Serialize(s))
	assert.Equal(t, []string{"y"}, report.Dropped)
}

func TestSubject_Ambiguities(t *testing.T) {
	cases := map[string]string{
		"conflicting collision": `{ x: { title: 'A', y: { title: 'B' } }, y: { title: 'other' } }`,
		"canonical object":      `{ x: { title: { fr: 'A' } } }`,
		"mixed scalar":          `{ x: { title: 'A', extra: 'e', y: { title: 'B' } } }`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			s := subject(t, in)
			before := jsast.Serialize(s)
			_, err := Subject(s)
			require.Error(t, err)
			assert.True(t, errors.Is(err, editerr.ErrStructuralAmbiguity))
			assert.Equal(t, before, jsast.Serialize(s), "subject must be left untouched")
		})
	}
}

func TestTable_RepairsEveryLanguage(t *testing.T) {
	root := subject(t, `{
		fr: { resources: { exercises: { maths: { x: { title: 'A', y: { title: 'B' } } }, physics: {} } } },
		en: { resources: { exercises: { maths: { x: { title: 'A2', y: { title: 'B2' } } } } } },
		de: { other: true }
	}`)
	report, err := Table(root, []string{"fr", "en", "de", "es"})
	require.NoError(t, err)
	assert.Equal(t, []string{"fr.maths.x", "en.maths.x"}, report.Split)
	assert.Equal(t, []string{"fr.maths.y", "en.maths.y"}, report.Hoisted)

	fr := jsast.PropertyValue(root, "fr").(*jsast.Object)
	assert.Equal(t,
		`{ resources: { exercises: { maths: { x: { title: 'A' }, y: { title: 'B' } }, physics: {} } } }`,
		jsast.Serialize(fr))
}

func TestTable_FailureLeavesRootUntouched(t *testing.T) {
	root := subject(t, `{
		fr: { resources: { exercises: { maths: { x: { title: 'A', y: { title: 'B' } } } } } },
		en: { resources: { exercises: { maths: { x: { title: 'A', bad: 1, y: {} } } } } }
	}`)
	before := jsast.Serialize(root)
	_, err := Table(root, []string{"fr", "en"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repair en.maths")
	assert.Equal(t, before, jsast.Serialize(root))
}

func TestTable_NonObjectLevel(t *testing.T) {
	root := subject(t, `{ fr: { resources: 'oops' } }`)
	_, err := Table(root, []string{"fr"})
	require.Error(t, err)
	assert.Equal(t, editerr.StructuralAmbiguity, editerr.KindOf(err))
	assert.Contains(t, err.Error(), "fr.resources is not an object")
}
