// Package hclconfig loads shadergen job files written in HCL into the
// format-agnostic config.Model.
package hclconfig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"unicode"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/shadergen/internal/bggohcl"
	"github.com/specialistvlad/shadergen/internal/config"
	"github.com/specialistvlad/shadergen/internal/ctxlog"
	"github.com/specialistvlad/shadergen/internal/fsutil"
	"github.com/specialistvlad/shadergen/internal/shaderdef"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new HCL job file loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Files returns every file parsed so far, keyed by name, for use with
// hcl.NewDiagnosticTextWriter.
func (l *Loader) Files() map[string]*hcl.File {
	return l.parser.Files()
}

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "settings"},
		{Type: "generate", LabelNames: []string{"name"}},
	},
}

type settingsBody struct {
	Root string `hcl:"root,optional"`
}

type generateBody struct {
	Source       string        `hcl:"source"`
	Output       string        `hcl:"output"`
	Package      string        `hcl:"package,optional"`
	Preprocessor string        `hcl:"preprocessor,optional"`
	Manifest     string        `hcl:"manifest,optional"`
	Defines      []*defineBody `hcl:"define,block"`
}

type defineBody struct {
	Name  string         `hcl:"name,label"`
	Type  hcl.Expression `hcl:"type"`
	Value hcl.Expression `hcl:"value"`
}

// Load implements config.Loader. Directories are searched recursively for
// .hcl files. The returned error is hcl.Diagnostics whenever the problem is
// located in a file.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no job files found in %v", paths)
	}

	model := &config.Model{}
	var (
		diags        hcl.Diagnostics
		settingsSeen *hcl.Block
		firstDir     string
		jobRanges    = make(map[string]hcl.Range)
	)
	for _, path := range files {
		hclFile, parseDiags := l.parser.ParseHCLFile(path)
		diags = append(diags, parseDiags...)
		if parseDiags.HasErrors() {
			continue
		}
		dir := filepath.Dir(path)
		if firstDir == "" {
			firstDir = dir
		}

		content, contentDiags := hclFile.Body.Content(rootSchema)
		diags = append(diags, contentDiags...)
		if content == nil {
			continue
		}

		settings, uniqueDiags := bggohcl.FindUniqueBlock(content.Blocks, "settings")
		diags = append(diags, uniqueDiags...)
		if settings != nil {
			if settingsSeen != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  `Duplicate "settings" block`,
					Detail:   fmt.Sprintf("Settings are already defined at %s.", settingsSeen.DefRange),
					Subject:  settings.DefRange.Ptr(),
				})
			} else {
				settingsSeen = settings
				var body settingsBody
				diags = append(diags, gohcl.DecodeBody(settings.Body, nil, &body)...)
				root := body.Root
				if root == "" {
					root = "."
				}
				model.Settings.Root = resolve(dir, root)
			}
		}

		for _, block := range content.Blocks.OfType("generate") {
			job, jobDiags := decodeJob(block, dir)
			diags = append(diags, jobDiags...)
			if job == nil {
				continue
			}
			if prev, ok := jobRanges[job.Name]; ok {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate job",
					Detail:   fmt.Sprintf("A job named %q is already defined at %s.", job.Name, prev),
					Subject:  block.DefRange.Ptr(),
				})
				continue
			}
			jobRanges[job.Name] = block.DefRange
			model.Jobs = append(model.Jobs, job)
		}
	}

	// Without a settings block templates resolve like an empty one would:
	// relative to the first job file.
	if settingsSeen == nil && firstDir != "" {
		model.Settings.Root = resolve(firstDir, ".")
	}

	if diags.HasErrors() {
		return nil, diags
	}
	logger.Debug("HCL loading complete.", "files", len(files), "jobs", len(model.Jobs), "root", model.Settings.Root)
	return model, nil
}

func decodeJob(block *hcl.Block, dir string) (*config.Job, hcl.Diagnostics) {
	var body generateBody
	diags := gohcl.DecodeBody(block.Body, nil, &body)
	if diags.HasErrors() {
		return nil, diags
	}

	job := &config.Job{
		Name:         block.Labels[0],
		Source:       resolve(dir, body.Source),
		Output:       resolve(dir, body.Output),
		Package:      body.Package,
		Preprocessor: body.Preprocessor,
		Defines:      make(map[string]shaderdef.Value, len(body.Defines)),
	}
	if body.Manifest != "" {
		job.Manifest = resolve(dir, body.Manifest)
	}
	if job.Preprocessor == "" {
		job.Preprocessor = config.DefaultPreprocessor
	}
	if job.Package == "" {
		job.Package = PackageFromDir(filepath.Dir(job.Output))
	}

	for _, def := range body.Defines {
		if _, dup := job.Defines[def.Name]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate define",
				Detail:   fmt.Sprintf("Job %q defines %q more than once.", job.Name, def.Name),
				Subject:  def.Type.Range().Ptr(),
			})
			continue
		}
		kind, kindDiags := bggohcl.KindFromExpr(def.Type)
		diags = append(diags, kindDiags...)
		if kindDiags.HasErrors() {
			continue
		}
		v, valDiags := bggohcl.ValueFromExpr(def.Value, kind)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		job.Defines[def.Name] = v
	}
	return job, diags
}

// PackageFromDir derives a Go package name from a directory name, dropping
// characters that are not allowed in identifiers.
func PackageFromDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err == nil {
		dir = abs
	}
	var name []rune
	for _, r := range filepath.Base(dir) {
		switch {
		case unicode.IsLetter(r) || r == '_':
			name = append(name, unicode.ToLower(r))
		case unicode.IsDigit(r) && len(name) > 0:
			name = append(name, r)
		}
	}
	if len(name) == 0 {
		return "main"
	}
	return string(name)
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// findAllHCLFiles expands directories into the .hcl files below them.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			add(p)
		}
	}
	return all, nil
}
