// Package app wires the loaded job configuration, the preprocessor registry
// and the generator together. It is independent of any entrypoint; the CLI
// only builds a Config and calls Run.
package app
