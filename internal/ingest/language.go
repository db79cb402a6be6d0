package ingest

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// DetectLanguageFromExt returns the language name and tree-sitter Language
// for a script file extension. Returns ok=false for unsupported extensions.
func DetectLanguageFromExt(ext string) (langName string, lang *sitter.Language, ok bool) {
	switch strings.ToLower(ext) {
	case ".js", ".mjs", ".cjs":
		return "javascript", javascript.GetLanguage(), true
	case ".ts", ".mts":
		return "typescript", typescript.GetLanguage(), true
	default:
		return "", nil, false
	}
}

// DetectLanguageFromPath is DetectLanguageFromExt on the extension of path.
func DetectLanguageFromPath(path string) (string, *sitter.Language, bool) {
	return DetectLanguageFromExt(filepath.Ext(path))
}

// LanguageByName maps a language name or a <script lang="..."> value to
// its grammar. An empty name means JavaScript.
func LanguageByName(name string) (*sitter.Language, bool) {
	switch strings.ToLower(name) {
	case "", "js", "javascript":
		return javascript.GetLanguage(), true
	case "ts", "typescript":
		return typescript.GetLanguage(), true
	default:
		return nil, false
	}
}
