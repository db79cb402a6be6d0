package writeback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplice_ReplaceMiddle(t *testing.T) {
	src := []byte("const a = 1\nconst b = 2\nconst c = 3\n")
	got, err := Splice(src, 12, 23, []byte("const b = [2, 3]"))
	require.NoError(t, err)
	assert.Equal(t, "const a = 1\nconst b = [2, 3]\nconst c = 3\n", string(got))
	assert.Equal(t, "const a = 1\nconst b = 2\nconst c = 3\n", string(src), "source is not modified")
}

func TestSplice_ShorterAndLongerContent(t *testing.T) {
	got, err := Splice([]byte("const resources = [1, 2, 3]"), 18, 27, []byte("[]"))
	require.NoError(t, err)
	assert.Equal(t, "const resources = []", string(got))

	got, err = Splice([]byte("const resources = []"), 18, 20, []byte("[{ id: 'a' }]"))
	require.NoError(t, err)
	assert.Equal(t, "const resources = [{ id: 'a' }]", string(got))
}

func TestSplice_InvalidRange(t *testing.T) {
	src := []byte("short")
	_, err := Splice(src, 3, 10, nil)
	assert.Error(t, err)
	_, err = Splice(src, 4, 2, nil)
	assert.Error(t, err)
	_, err = Splice(src, -1, 2, nil)
	assert.Error(t, err)
}

func TestReindent(t *testing.T) {
	assert.Equal(t, "[\n    1\n  ]", Reindent("[\n  1\n]", "  "))
	assert.Equal(t, "[\n\n  ]", Reindent("[\n\n]", "  "), "blank lines stay empty")
	assert.Equal(t, "[1]", Reindent("[1]", "\t"))
	assert.Equal(t, "[\n1\n]", Reindent("[\n1\n]", ""))
}
