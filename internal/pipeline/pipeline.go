// Package pipeline runs complete edits against a project: lock, read both
// files, compute the new texts in memory, validate, snapshot, write. A
// failure before the write phase leaves the files untouched; a failure
// during it restores the files already written.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentic-research/scribe/api"
	"github.com/agentic-research/scribe/internal/backup"
	"github.com/agentic-research/scribe/internal/editerr"
	"github.com/agentic-research/scribe/internal/editor"
	"github.com/agentic-research/scribe/internal/project"
	"github.com/agentic-research/scribe/internal/repair"
	"github.com/agentic-research/scribe/internal/writeback"
)

// Pipeline edits one project. Store may be nil, in which case no
// snapshots are taken.
type Pipeline struct {
	proj  *project.Project
	store *backup.Store
	opts  editor.Options
	log   zerolog.Logger

	// DryRun computes diffs instead of writing.
	DryRun bool
	// Keep bounds the number of stored snapshots after each edit; 0 keeps all.
	Keep int
}

// New returns a pipeline. The editor paths are taken from the project.
func New(proj *project.Project, store *backup.Store, opts editor.Options, log zerolog.Logger) *Pipeline {
	opts.ResourceListPath = proj.Paths().ResourceList
	opts.TranslationsPath = proj.Paths().Translations
	return &Pipeline{proj: proj, store: store, opts: opts, log: log}
}

// Result reports what an edit did.
type Result struct {
	// Changed lists the files whose content changed, written or not.
	Changed []string
	// Snapshot is the id of the backup taken before writing, if any.
	Snapshot string
	// Diffs holds one entry per changed file in dry-run mode.
	Diffs []FileDiff
	// Repaired lists what the repair pass fixed on the way.
	Repaired repair.Report
}

// texts holds both files' content.
type texts struct {
	resources    string
	translations string
}

type editFunc func(ed *editor.Editor, in texts) (texts, repair.Report, error)

// WithDryRun returns a copy of p with DryRun set.
func (p *Pipeline) WithDryRun(dry bool) *Pipeline {
	c := *p
	c.DryRun = dry
	return &c
}

// Editor returns a fresh editor for the pipeline's options.
func (p *Pipeline) Editor() *editor.Editor {
	return editor.New(p.opts)
}

// Read returns the current content of both files.
func (p *Pipeline) Read(ctx context.Context) (resources, translations string, err error) {
	t, err := p.read(ctx)
	return t.resources, t.translations, err
}

func (p *Pipeline) read(ctx context.Context) (texts, error) {
	res, err := p.proj.ReadResourceListSource(ctx)
	if err != nil {
		return texts{}, err
	}
	tr, err := p.proj.ReadTranslationsSource(ctx)
	if err != nil {
		return texts{}, err
	}
	return texts{resources: res, translations: tr}, nil
}

func (p *Pipeline) apply(ctx context.Context, label string, fn editFunc) (Result, error) {
	unlock, err := p.proj.Lock(ctx)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err := unlock(); err != nil {
			p.log.Warn().Err(err).Msg("release project lock")
		}
	}()

	before, err := p.read(ctx)
	if err != nil {
		return Result{}, err
	}
	after, report, err := fn(editor.New(p.opts), before)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", label, err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	paths := p.proj.Paths()
	type change struct {
		path          string
		before, after string
	}
	var changes []change
	if after.resources != before.resources {
		changes = append(changes, change{paths.ResourceList, before.resources, after.resources})
	}
	if after.translations != before.translations {
		changes = append(changes, change{paths.Translations, before.translations, after.translations})
	}

	result := Result{Repaired: report}
	for _, c := range changes {
		if err := writeback.Validate([]byte(c.after), c.path); err != nil {
			return Result{}, editerr.Wrap(editerr.ParseFailure, err, label+": emitted file does not parse")
		}
		result.Changed = append(result.Changed, c.path)
	}
	if len(changes) == 0 {
		p.log.Info().Str("op", label).Msg("nothing to change")
		return result, nil
	}

	if p.DryRun {
		for _, c := range changes {
			d, err := UnifiedDiff(c.path, c.before, c.after)
			if err != nil {
				return Result{}, fmt.Errorf("diff %s: %w", c.path, err)
			}
			result.Diffs = append(result.Diffs, FileDiff{Path: c.path, Diff: d})
		}
		return result, nil
	}

	if p.store != nil {
		snap, err := p.store.Snapshot(ctx, label, map[string][]byte{
			paths.ResourceList: []byte(before.resources),
			paths.Translations: []byte(before.translations),
		})
		if err != nil {
			return Result{}, fmt.Errorf("snapshot before %s: %w", label, err)
		}
		result.Snapshot = snap.ID
	}

	for i, c := range changes {
		if err := p.proj.WriteFile(ctx, c.path, []byte(c.after)); err != nil {
			p.log.Error().Err(err).Str("op", label).Str("file", c.path).Msg("write failed, restoring")
			for _, done := range changes[:i] {
				// context.Background: the restore must run even when ctx is cancelled
				if rerr := p.proj.WriteFile(context.Background(), done.path, []byte(done.before)); rerr != nil {
					err = errors.Join(err, fmt.Errorf("restore %s: %w", done.path, rerr))
				}
			}
			return Result{}, err
		}
	}

	p.log.Info().Str("op", label).Strs("files", result.Changed).Str("snapshot", result.Snapshot).Msg("edit applied")
	if p.store != nil && p.Keep > 0 {
		if _, err := p.store.Prune(ctx, p.Keep); err != nil {
			p.log.Warn().Err(err).Msg("prune snapshots")
		}
	}
	return result, nil
}

func validateInput(in api.ResourceInput, langs []string) error {
	if err := in.Validate(langs); err != nil {
		return editerr.Wrap(editerr.InvalidInput, err, "invalid resource")
	}
	return nil
}

// AddResource appends a resource and writes its translations.
func (p *Pipeline) AddResource(ctx context.Context, in api.ResourceInput) (Result, error) {
	ed := p.Editor()
	if err := validateInput(in, ed.Options().Languages); err != nil {
		return Result{}, err
	}
	return p.apply(ctx, "add-resource "+in.Resource.ID, func(ed *editor.Editor, t texts) (texts, repair.Report, error) {
		res, err := ed.AddResourceEntry(ctx, t.resources, in.Resource)
		if err != nil {
			return texts{}, repair.Report{}, err
		}
		tr, err := ed.AddTranslations(ctx, t.translations, in.Resource.Subject, in.Resource.ID, in.Translations)
		if err != nil {
			return texts{}, repair.Report{}, err
		}
		return texts{res, tr}, repair.Report{}, nil
	})
}

// UpdateResource replaces resource oldID. When the id or the subject
// changes, the translations stored under the old key are removed.
func (p *Pipeline) UpdateResource(ctx context.Context, oldID string, in api.ResourceInput) (Result, error) {
	ed := p.Editor()
	if err := validateInput(in, ed.Options().Languages); err != nil {
		return Result{}, err
	}
	return p.apply(ctx, "update-resource "+oldID, func(ed *editor.Editor, t texts) (texts, repair.Report, error) {
		old, ok, err := ed.FindResource(ctx, t.resources, oldID)
		if err != nil {
			return texts{}, repair.Report{}, err
		}
		if !ok {
			return texts{}, repair.Report{}, editerr.Errorf(editerr.EntryNotFound, "resource %q not found", oldID)
		}
		res, err := ed.UpdateResourceEntry(ctx, t.resources, oldID, in.Resource)
		if err != nil {
			return texts{}, repair.Report{}, err
		}
		tr := t.translations
		if old.ID != in.Resource.ID || old.Subject != in.Resource.Subject {
			if tr, err = ed.RemoveTranslations(ctx, tr, old.Subject, old.ID); err != nil {
				return texts{}, repair.Report{}, err
			}
		}
		tr, err = ed.UpdateTranslations(ctx, tr, in.Resource.Subject, in.Resource.ID, in.Translations)
		if err != nil {
			return texts{}, repair.Report{}, err
		}
		return texts{res, tr}, repair.Report{}, nil
	})
}

// RemoveResource drops resource id and its translations. Removing an
// absent id changes nothing.
func (p *Pipeline) RemoveResource(ctx context.Context, id string) (Result, error) {
	return p.apply(ctx, "remove-resource "+id, func(ed *editor.Editor, t texts) (texts, repair.Report, error) {
		old, ok, err := ed.FindResource(ctx, t.resources, id)
		if err != nil || !ok {
			return t, repair.Report{}, err
		}
		res, err := ed.RemoveResourceEntry(ctx, t.resources, id)
		if err != nil {
			return texts{}, repair.Report{}, err
		}
		tr, err := ed.RemoveTranslations(ctx, t.translations, old.Subject, id)
		if err != nil {
			return texts{}, repair.Report{}, err
		}
		return texts{res, tr}, repair.Report{}, nil
	})
}

// RepairTranslations runs the repair pass over the whole table.
func (p *Pipeline) RepairTranslations(ctx context.Context) (Result, error) {
	return p.apply(ctx, "repair-translations", func(ed *editor.Editor, t texts) (texts, repair.Report, error) {
		tr, report, err := ed.RepairTranslations(ctx, t.translations)
		if err != nil {
			return texts{}, repair.Report{}, err
		}
		return texts{t.resources, tr}, report, nil
	})
}

// Format reformats the literal declarations of both files.
func (p *Pipeline) Format(ctx context.Context) (Result, error) {
	paths := p.proj.Paths()
	return p.apply(ctx, "format", func(_ *editor.Editor, t texts) (texts, repair.Report, error) {
		return texts{
			resources:    string(writeback.FormatBuffer([]byte(t.resources), paths.ResourceList)),
			translations: string(writeback.FormatBuffer([]byte(t.translations), paths.Translations)),
		}, repair.Report{}, nil
	})
}

// Restore writes back the files of a snapshot. The current content is
// snapshotted first so a restore can itself be undone.
func (p *Pipeline) Restore(ctx context.Context, snapshotID string) (Result, error) {
	if p.store == nil {
		return Result{}, errors.New("restore: no backup store configured")
	}
	id, err := p.store.Resolve(ctx, snapshotID)
	if err != nil {
		return Result{}, err
	}
	files, err := p.store.Files(ctx, id)
	if err != nil {
		return Result{}, err
	}
	paths := p.proj.Paths()
	return p.apply(ctx, "restore "+id, func(_ *editor.Editor, t texts) (texts, repair.Report, error) {
		out := t
		if b, ok := files[paths.ResourceList]; ok {
			out.resources = string(b)
		}
		if b, ok := files[paths.Translations]; ok {
			out.translations = string(b)
		}
		return out, repair.Report{}, nil
	})
}
