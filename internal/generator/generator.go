// Package generator runs the whole pipeline for one declaration site:
// parse, validate, read templates, preprocess every case and emit Go code.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/specialistvlad/shadergen/internal/bridge"
	"github.com/specialistvlad/shadergen/internal/codegen"
	"github.com/specialistvlad/shadergen/internal/ctxlog"
	"github.com/specialistvlad/shadergen/internal/dsl"
	"github.com/specialistvlad/shadergen/internal/manifest"
	"github.com/specialistvlad/shadergen/internal/preprocess"
	"github.com/specialistvlad/shadergen/internal/shaderdef"
)

// Site is one DSL input that becomes one generated Go file.
type Site struct {
	// Filename is used in diagnostics and in the generated header.
	Filename string
	Source   []byte
	Package  string
}

// Artifact is the result of a successful generation.
type Artifact struct {
	Code     []byte
	Manifest *manifest.Manifest
}

// Generator holds what is shared by every site of a job.
type Generator struct {
	// FS resolves template paths. Paths are slash separated and relative to
	// the root of FS.
	FS           fs.FS
	Preprocessor preprocess.Preprocessor
	// Defaults sit below every declaration's shared block.
	Defaults map[string]shaderdef.Value
}

// Generate produces the artifact for site. Nothing is returned unless every
// declaration succeeded; failures of different declarations are joined in
// declaration order.
func (g *Generator) Generate(ctx context.Context, site Site) (*Artifact, error) {
	logger := ctxlog.FromContext(ctx).With("site", site.Filename)
	ctx = ctxlog.WithLogger(ctx, logger)

	file, err := dsl.Parse(site.Source, site.Filename)
	if err != nil {
		return nil, err
	}
	if err := dsl.Validate(file); err != nil {
		return nil, err
	}
	logger.Debug("Declarations parsed.", "value_enums", len(file.ValueEnums), "variants", len(file.Variants))

	var (
		resolved []*bridge.Resolved
		errs     []error
	)
	for _, decl := range file.Variants {
		tmpl, err := g.readTemplate(decl)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		res, err := bridge.Resolve(ctx, decl, file, tmpl, g.Preprocessor, g.Defaults)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		resolved = append(resolved, res)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	code, err := codegen.Emit(codegen.Input{
		Package:  site.Package,
		Source:   filepath.Base(site.Filename),
		File:     file,
		Resolved: resolved,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", site.Filename, err)
	}
	logger.Debug("Code emitted.", "bytes", len(code))

	return &Artifact{
		Code:     code,
		Manifest: manifest.Build(filepath.Base(site.Filename), site.Package, resolved),
	}, nil
}

func (g *Generator) readTemplate(decl *dsl.VariantsDecl) (string, error) {
	name := path.Clean(decl.TemplatePath)
	if !fs.ValidPath(name) {
		return "", &ResourceError{Declaration: decl.Name, Path: decl.TemplatePath, Err: fs.ErrInvalid}
	}
	data, err := fs.ReadFile(g.FS, name)
	if err != nil {
		return "", &ResourceError{Declaration: decl.Name, Path: decl.TemplatePath, Err: err}
	}
	return string(data), nil
}

// ResourceError reports a template that could not be read.
type ResourceError struct {
	Declaration string
	Path        string
	Err         error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("declaration %q: reading template %q: %v", e.Declaration, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }
