package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/spf13/cobra"
	"github.com/specialistvlad/shadergen/internal/dsl"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Parse and validate declaration files without generating code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make(map[string]*hcl.File, len(args))
			var all hcl.Diagnostics
			for _, path := range args {
				src, err := os.ReadFile(path)
				if err != nil {
					return failure(err)
				}
				files[path] = &hcl.File{Bytes: src}

				f, err := dsl.Parse(src, path)
				if err == nil {
					err = dsl.Validate(f)
				}
				if err != nil {
					all = append(all, dsl.Diagnostics(err)...)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok\t%s\t%d value enums, %d variants declarations\n",
					path, len(f.ValueEnums), len(f.Variants))
			}

			if all.HasErrors() {
				writeDiagnostics(cmd.ErrOrStderr(), files, all)
				return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%d problem(s) found", len(all))}
			}
			return nil
		},
	}
}

func writeDiagnostics(w io.Writer, files map[string]*hcl.File, diags hcl.Diagnostics) {
	wr := hcl.NewDiagnosticTextWriter(w, files, 78, false)
	_ = wr.WriteDiagnostics(diags)
}
