package pipeline

import (
	"context"

	"github.com/agentic-research/scribe/internal/linter"
)

// Lint reads both files and lints them. It does not take the edit lock.
func (p *Pipeline) Lint(ctx context.Context) ([]linter.Diagnostic, error) {
	t, err := p.read(ctx)
	if err != nil {
		return nil, err
	}
	paths := p.proj.Paths()
	return linter.Lint(ctx, p.Editor(), linter.Input{
		ResourceListPath: paths.ResourceList,
		ResourceList:     t.resources,
		TranslationsPath: paths.Translations,
		Translations:     t.translations,
	}), nil
}

// Paths returns the project file layout.
func (p *Pipeline) Paths() (resourceList, translations string) {
	paths := p.proj.Paths()
	return paths.ResourceList, paths.Translations
}
