// Package cli implements the shadergen command line on top of cobra. It
// translates flags into an app.Config, renders diagnostics and maps failures
// to process exit codes.
package cli
