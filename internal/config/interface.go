package config

import "context"

// Loader is the interface for a format-specific job file loader.
type Loader interface {
	// Load reads every given file or directory and merges the jobs found
	// into a single Model. Relative paths inside a file are resolved
	// against that file's directory.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
