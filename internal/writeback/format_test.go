package writeback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyleFor(t *testing.T) {
	assert.Equal(t, 80, StyleFor("src/App.vue").PrintWidth)
	assert.Equal(t, 120, StyleFor("src/i18n/translations.js").PrintWidth)
	assert.True(t, StyleFor("x.js").SingleQuote)
}

func TestFormatBuffer_FormatsJS(t *testing.T) {
	input := []byte("// header\nexport const translations = {fr:{a:\"x\"}}\n")
	got := FormatBuffer(input, "translations.js")
	assert.Equal(t, "// header\nexport const translations = { fr: { a: 'x' } }\n", string(got))
}

func TestFormatBuffer_VueScriptOnly(t *testing.T) {
	input := []byte("<template>\n  <p>{{ count }}</p>\n</template>\n<script setup>\n" +
		"import { ref } from 'vue'\n" +
		"const count = ref(0)\n" +
		"const resources = [{id:'a',n:1},{id:'b',n:2}]\n" +
		"</script>\n")
	want := "<template>\n  <p>{{ count }}</p>\n</template>\n<script setup>\n" +
		"import { ref } from 'vue'\n" +
		"const count = ref(0)\n" +
		"const resources = [\n  { id: 'a', n: 1 },\n  { id: 'b', n: 2 }\n]\n" +
		"</script>\n"
	got := FormatBuffer(input, "App.vue")
	assert.Equal(t, want, string(got))
	assert.Equal(t, want, string(FormatBuffer(got, "App.vue")), "formatting is idempotent")
}

func TestFormatBuffer_Passthrough(t *testing.T) {
	input := []byte("def foo():\n  pass\n")
	assert.Equal(t, input, FormatBuffer(input, "main.py"), "unknown files pass through unchanged")

	vue := []byte("<template/>\n<script>\nconst a = {b:1}\n</script>\n")
	assert.Equal(t, vue, FormatBuffer(vue, "App.vue"), "no <script setup> block")
}
