package config

import (
	"github.com/specialistvlad/shadergen/internal/preprocess"
	"github.com/specialistvlad/shadergen/internal/shaderdef"
)

// DefaultFile is the job file looked up when none is given.
const DefaultFile = "shadergen.hcl"

// Model is the unified representation of all loaded job files.
type Model struct {
	Settings Settings
	Jobs     []*Job
}

// Settings apply to every job.
type Settings struct {
	// Root is the directory template paths are resolved against. Empty
	// means the current working directory.
	Root string
}

// Job is one DSL file to generate.
type Job struct {
	Name         string
	Source       string
	Output       string
	Package      string
	Preprocessor string
	// Manifest is optional; its extension selects the format.
	Manifest string
	// Defines sit below every declaration's shared block.
	Defines map[string]shaderdef.Value
}

// DefaultPreprocessor is used by jobs that do not name one.
const DefaultPreprocessor = preprocess.DirectivesName
