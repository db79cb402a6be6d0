package editor

import "context"

// Source reads and writes the two files the editor works on.
// internal/project implements it over a billy filesystem.
type Source interface {
	ReadResourceListSource(ctx context.Context) (string, error)
	WriteResourceListSource(ctx context.Context, text string) error
	ReadTranslationsSource(ctx context.Context) (string, error)
	WriteTranslationsSource(ctx context.Context, text string) error
}
