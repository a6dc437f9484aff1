// Package config defines the format-agnostic model of a shadergen job file
// and the Loader interface that produces it.
//
// A job file lists one or more generation jobs. Each job turns one DSL file
// into one generated Go file. Concrete loaders, such as the HCL one, live in
// separate packages.
package config
