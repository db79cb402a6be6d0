// Package project reads and writes the web project's source files through
// a billy filesystem: the host directory in production, memfs in tests.
package project

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/agentic-research/scribe/internal/editor"
	"github.com/agentic-research/scribe/internal/writeback"
)

// DefaultLockFile is created at the project root to serialize edits.
const DefaultLockFile = ".scribe.lock"

// Paths locates the edited files, relative to the project root.
type Paths struct {
	ResourceList string
	Translations string
	LockFile     string
}

// DefaultPaths returns the layout of the web project.
func DefaultPaths() Paths {
	return Paths{
		ResourceList: editor.DefaultResourceListPath,
		Translations: editor.DefaultTranslationsPath,
		LockFile:     DefaultLockFile,
	}
}

func (p Paths) withDefaults() Paths {
	d := DefaultPaths()
	if p.ResourceList == "" {
		p.ResourceList = d.ResourceList
	}
	if p.Translations == "" {
		p.Translations = d.Translations
	}
	if p.LockFile == "" {
		p.LockFile = d.LockFile
	}
	return p
}

// Project is a web project checkout. It implements editor.Source.
type Project struct {
	fs    billy.Filesystem
	paths Paths
}

var _ editor.Source = (*Project)(nil)

// New returns a project rooted at fs.
func New(fs billy.Filesystem, paths Paths) *Project {
	return &Project{fs: fs, paths: paths.withDefaults()}
}

// Open returns a project rooted at the host directory dir.
func Open(dir string, paths Paths) (*Project, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open project %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open project %s: not a directory", dir)
	}
	return New(osfs.New(dir), paths), nil
}

// Paths returns the file layout.
func (p *Project) Paths() Paths { return p.paths }

// Root returns the project root as seen by the filesystem.
func (p *Project) Root() string { return p.fs.Root() }

// ReadFile reads a project-relative file.
func (p *Project) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := util.ReadFile(p.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// WriteFile atomically replaces a project-relative file.
func (p *Project) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeback.WriteFileAtomic(p.fs, path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadResourceListSource implements editor.Source.
func (p *Project) ReadResourceListSource(ctx context.Context) (string, error) {
	data, err := p.ReadFile(ctx, p.paths.ResourceList)
	return string(data), err
}

// WriteResourceListSource implements editor.Source.
func (p *Project) WriteResourceListSource(ctx context.Context, text string) error {
	return p.WriteFile(ctx, p.paths.ResourceList, []byte(text))
}

// ReadTranslationsSource implements editor.Source.
func (p *Project) ReadTranslationsSource(ctx context.Context) (string, error) {
	data, err := p.ReadFile(ctx, p.paths.Translations)
	return string(data), err
}

// WriteTranslationsSource implements editor.Source.
func (p *Project) WriteTranslationsSource(ctx context.Context, text string) error {
	return p.WriteFile(ctx, p.paths.Translations, []byte(text))
}

// Lock takes the project's advisory edit lock, blocking until it is free.
// The returned func releases it.
func (p *Project) Lock(ctx context.Context) (func() error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := p.fs.OpenFile(p.paths.LockFile, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := f.Lock(); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("lock %s: %w", p.paths.LockFile, err)
	}
	return func() error {
		unlockErr := f.Unlock()
		closeErr := f.Close()
		if unlockErr != nil {
			return fmt.Errorf("unlock %s: %w", p.paths.LockFile, unlockErr)
		}
		return closeErr
	}, nil
}

// Info describes a project for `scribe check`.
type Info struct {
	Root             string
	ResourceList     string
	Translations     string
	ResourceListSize int64
	TranslationsSize int64
}

// Check verifies that both edited files exist and are regular files.
func (p *Project) Check(ctx context.Context) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	info := Info{Root: p.fs.Root(), ResourceList: p.paths.ResourceList, Translations: p.paths.Translations}
	for _, f := range []struct {
		path string
		size *int64
	}{
		{p.paths.ResourceList, &info.ResourceListSize},
		{p.paths.Translations, &info.TranslationsSize},
	} {
		st, err := p.fs.Stat(f.path)
		if err != nil {
			return info, fmt.Errorf("stat %s: %w", f.path, err)
		}
		if st.IsDir() {
			return info, fmt.Errorf("%s is a directory", f.path)
		}
		*f.size = st.Size()
	}
	return info, nil
}
