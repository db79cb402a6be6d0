package api

import "sort"

// Subjects, levels and types accepted by the web project.
var (
	Subjects = []string{"maths", "physics", "chemistry"}
	Levels   = []string{"terminale", "prepa1", "prepa2"}
	Types    = []string{"exercise", "course", "method", "interro"}
)

// DefaultLanguages are the translation languages the web project ships.
var DefaultLanguages = []string{"fr", "en"}

// Resource is one entry of the resource list.
// Field order is the order written to the source file.
type Resource struct {
	// ID is the primary key within the list.
	ID string `json:"id" yaml:"id" validate:"required,resourceid"`
	// Subject groups resources and their translations.
	Subject  string `json:"subject" yaml:"subject" validate:"required,oneof=maths physics chemistry"`
	LevelKey string `json:"levelKey" yaml:"levelKey" validate:"required,oneof=terminale prepa1 prepa2"`
	TypeKey  string `json:"typeKey" yaml:"typeKey" validate:"required,oneof=exercise course method interro"`
	// Duration is free text ("1h", "45 min").
	Duration string `json:"duration" yaml:"duration" validate:"required"`
	HasVideo bool   `json:"hasVideo" yaml:"hasVideo"`
	// VideoURL is required iff HasVideo.
	VideoURL string `json:"videoUrl,omitempty" yaml:"videoUrl,omitempty" validate:"required_if=HasVideo true"`
	// PDFStatement and PDFSolution are paths relative to the web project's public dir.
	PDFStatement string `json:"pdfStatement,omitempty" yaml:"pdfStatement,omitempty"`
	PDFSolution  string `json:"pdfSolution,omitempty" yaml:"pdfSolution,omitempty"`
}

// TranslationEntry holds the localized text of one resource in one language.
type TranslationEntry struct {
	Title           string `json:"title" yaml:"title"`
	Description     string `json:"description" yaml:"description"`
	FullDescription string `json:"fullDescription" yaml:"fullDescription"`
	Notes           string `json:"notes" yaml:"notes"`
}

// CanonicalFields are the keys of a translation entry, in write order.
var CanonicalFields = []string{"title", "description", "fullDescription", "notes"}

// IsCanonicalField reports whether key is one of CanonicalFields.
func IsCanonicalField(key string) bool {
	for _, f := range CanonicalFields {
		if f == key {
			return true
		}
	}
	return false
}

// TranslationSet maps a language code to the entry for that language.
type TranslationSet map[string]TranslationEntry

// Languages returns the language codes of s, sorted.
func (s TranslationSet) Languages() []string {
	out := make([]string, 0, len(s))
	for lang := range s {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// ResourceInput is a resource together with its translations, the unit
// accepted by add and update operations.
type ResourceInput struct {
	Resource     Resource       `json:"resource" yaml:"resource"`
	Translations TranslationSet `json:"translations" yaml:"translations"`
}

// Stats summarizes a resource list.
type Stats struct {
	Total     int            `json:"total"`
	BySubject map[string]int `json:"bySubject"`
	ByLevel   map[string]int `json:"byLevel"`
	ByType    map[string]int `json:"byType"`
	WithVideo int            `json:"withVideo"`
	WithPDFs  int            `json:"withPdfs"`
}
