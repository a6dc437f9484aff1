package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/specialistvlad/shadergen/internal/preprocess"
)

// ErrUnknownPreprocessor is returned by Lookup for unregistered names.
var ErrUnknownPreprocessor = errors.New("unknown preprocessor")

// Module is the interface that all built-in modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the preprocessors available to a single application instance.
type Registry struct {
	preprocessors map[string]preprocess.Preprocessor
}

// New creates an empty Registry and registers the given modules into it.
func New(modules ...Module) *Registry {
	r := &Registry{preprocessors: make(map[string]preprocess.Preprocessor)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterPreprocessor makes p available under name.
func (r *Registry) RegisterPreprocessor(name string, p preprocess.Preprocessor) {
	if name == "" || p == nil {
		panic("registry: preprocessor name and implementation must be set")
	}
	if _, exists := r.preprocessors[name]; exists {
		panic(fmt.Sprintf("preprocessor with name '%s' already registered", name))
	}
	slog.Debug("Registering preprocessor.", "name", name)
	r.preprocessors[name] = p
}

// Lookup returns the preprocessor registered under name.
func (r *Registry) Lookup(name string) (preprocess.Preprocessor, error) {
	if p, ok := r.preprocessors[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownPreprocessor, name, strings.Join(r.Names(), ", "))
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.preprocessors))
	for name := range r.preprocessors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
