package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/specialistvlad/shadergen/internal/config"
	"github.com/specialistvlad/shadergen/internal/ctxlog"
	"github.com/specialistvlad/shadergen/internal/fsutil"
	"github.com/specialistvlad/shadergen/internal/generator"
	"github.com/specialistvlad/shadergen/internal/manifest"
)

// JobError wraps the failure of one job.
type JobError struct {
	Job string
	Err error
}

func (e *JobError) Error() string { return fmt.Sprintf("job %q: %v", e.Job, e.Err) }

func (e *JobError) Unwrap() error { return e.Err }

// Run executes every job in order. A failing job does not stop the ones after
// it; all failures are returned joined. A job writes nothing unless it fully
// succeeded.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "jobs", len(a.model.Jobs))

	root := a.model.Settings.Root
	if root == "" {
		root = "."
	}
	templates := os.DirFS(root)

	var errs []error
	for _, job := range a.model.Jobs {
		if err := a.runJob(ctx, templates, job); err != nil {
			a.logger.Error("Job failed.", "job", job.Name, "error", err)
			errs = append(errs, &JobError{Job: job.Name, Err: err})
		}
	}

	a.logger.Debug("App.Run method finished.", "failed", len(errs))
	return errors.Join(errs...)
}

func (a *App) runJob(ctx context.Context, templates fs.FS, job *config.Job) error {
	ctx = ctxlog.With(ctx, "job", job.Name)
	logger := ctxlog.FromContext(ctx)

	src, err := os.ReadFile(job.Source)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}
	pp, err := a.registry.Lookup(job.Preprocessor)
	if err != nil {
		return err
	}

	gen := &generator.Generator{FS: templates, Preprocessor: pp, Defaults: job.Defines}
	art, err := gen.Generate(ctx, generator.Site{Filename: job.Source, Source: src, Package: job.Package})
	if err != nil {
		return err
	}

	var manifestData []byte
	if job.Manifest != "" {
		if manifestData, err = manifest.Marshal(art.Manifest, job.Manifest); err != nil {
			return err
		}
	}

	outputs := []fsutil.PendingFile{{Path: job.Output, Data: art.Code, Perm: 0o644}}
	if manifestData != nil {
		outputs = append(outputs, fsutil.PendingFile{Path: job.Manifest, Data: manifestData, Perm: 0o644})
	}
	if err := fsutil.WriteFilesAtomic(outputs...); err != nil {
		return err
	}

	cases := 0
	for _, d := range art.Manifest.Declarations {
		cases += len(d.Cases)
	}
	logger.Info("Generated.", "output", job.Output, "declarations", len(art.Manifest.Declarations), "cases", cases)
	return nil
}
