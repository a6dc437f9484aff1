// Package registry maps the preprocessor names used in job files and on the
// command line (e.g. "directives") to compiled Preprocessor implementations.
//
// Modules register themselves at startup. Registering the same name twice is
// a programming error and panics, so a misconfigured binary fails fast
// instead of silently picking one implementation.
package registry
