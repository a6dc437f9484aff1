package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/spf13/cobra"
	"github.com/specialistvlad/shadergen/internal/app"
	"github.com/specialistvlad/shadergen/internal/config"
	"github.com/specialistvlad/shadergen/internal/fsutil"
	"github.com/specialistvlad/shadergen/internal/hclconfig"
)

// SourceExt is the conventional extension of declaration files.
const SourceExt = ".wgslv"

type generateFlags struct {
	configs      []string
	input        string
	output       string
	pkg          string
	manifest     string
	preprocessor string
	root         string
	dir          string
}

func newGenerateCmd(g *globalFlags) *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Go code from declaration files",
		Long: `Generate runs in one of three modes:

  generate [--config FILE]...        run every job of the job files (default ` + config.DefaultFile + `)
  generate -i IN -o OUT [-p PKG]     generate a single file
  generate --dir DIR                 generate <name>_variants.go next to every *` + SourceExt + ` below DIR`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.appConfig(cmd, g)
			if err != nil {
				return usageError(err)
			}

			loader := hclconfig.NewLoader()
			a, err := app.NewApp(cmd.ErrOrStderr(), cfg, loader)
			if err != nil {
				var diags hcl.Diagnostics
				if errors.As(err, &diags) {
					writeDiagnostics(cmd.ErrOrStderr(), loader.Files(), diags)
				}
				return failure(err)
			}
			if err := a.Run(cmd.Context()); err != nil {
				return failure(err)
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringSliceVarP(&f.configs, "config", "c", nil, "job file or directory of job files (repeatable)")
	fl.StringVarP(&f.input, "input", "i", "", "declaration file to compile")
	fl.StringVarP(&f.output, "output", "o", "", "generated Go file (with --input)")
	fl.StringVarP(&f.pkg, "package", "p", "", "package of the generated file (default $GOPACKAGE or the output directory name)")
	fl.StringVar(&f.manifest, "manifest", "", "also write a case manifest (.json, .yaml or .yml)")
	fl.StringVar(&f.preprocessor, "preprocessor", config.DefaultPreprocessor, "preprocessor for ad-hoc jobs")
	fl.StringVar(&f.root, "root", "", "directory template paths are resolved against")
	fl.StringVar(&f.dir, "dir", "", "generate every declaration file below this directory")
	cmd.MarkFlagsMutuallyExclusive("config", "input")
	cmd.MarkFlagsMutuallyExclusive("config", "dir")
	cmd.MarkFlagsMutuallyExclusive("input", "dir")
	return cmd
}

func (f *generateFlags) appConfig(cmd *cobra.Command, g *globalFlags) (*app.Config, error) {
	cfg := app.Config{
		Root:      f.root,
		LogLevel:  g.logLevel,
		LogFormat: g.logFormat,
	}

	switch {
	case f.dir != "":
		jobs, err := f.discoverJobs()
		if err != nil {
			return nil, err
		}
		cfg.Jobs = jobs

	case f.input != "":
		if f.output == "" {
			return nil, errors.New("--output is required with --input")
		}
		cfg.Jobs = []*config.Job{{
			Name:         f.input,
			Source:       f.input,
			Output:       f.output,
			Package:      f.packageFor(f.output),
			Preprocessor: f.preprocessor,
			Manifest:     f.manifest,
		}}

	default:
		if cmd.Flags().Changed("output") || cmd.Flags().Changed("manifest") || cmd.Flags().Changed("package") {
			return nil, errors.New("--output, --package and --manifest require --input")
		}
		cfg.ConfigPaths = f.configs
		if len(cfg.ConfigPaths) == 0 {
			cfg.ConfigPaths = []string{config.DefaultFile}
		}
	}

	return app.NewConfig(cfg)
}

func (f *generateFlags) discoverJobs() ([]*config.Job, error) {
	if f.output != "" || f.manifest != "" {
		return nil, errors.New("--output and --manifest cannot be used with --dir")
	}
	sources, err := fsutil.FindFilesByExtension(f.dir, SourceExt)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no %s files found below %s", SourceExt, f.dir)
	}

	jobs := make([]*config.Job, len(sources))
	for i, src := range sources {
		out := strings.TrimSuffix(src, SourceExt) + "_variants.go"
		jobs[i] = &config.Job{
			Name:         src,
			Source:       src,
			Output:       out,
			Package:      f.pkg,
			Preprocessor: f.preprocessor,
		}
		if jobs[i].Package == "" {
			jobs[i].Package = hclconfig.PackageFromDir(filepath.Dir(out))
		}
	}
	return jobs, nil
}

func (f *generateFlags) packageFor(output string) string {
	if f.pkg != "" {
		return f.pkg
	}
	if pkg := os.Getenv("GOPACKAGE"); pkg != "" {
		return pkg
	}
	return hclconfig.PackageFromDir(filepath.Dir(output))
}
