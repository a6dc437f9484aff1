// Package manifest describes every generated case in a machine readable
// form: which declaration and template it came from, its label, its
// combination index and the exact definitions it was preprocessed with.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/specialistvlad/shadergen/internal/bridge"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for manifest paths with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported manifest format")

// Manifest lists the cases of one declaration site.
type Manifest struct {
	Source       string        `json:"source" yaml:"source"`
	Package      string        `json:"package" yaml:"package"`
	Declarations []Declaration `json:"declarations" yaml:"declarations"`
}

type Declaration struct {
	Name     string `json:"name" yaml:"name"`
	Template string `json:"template" yaml:"template"`
	Cases    []Case `json:"cases" yaml:"cases"`
}

type Case struct {
	Variant string `json:"variant" yaml:"variant"`
	Label   string `json:"label" yaml:"label"`
	// Combination is -1 for hardcoded variants.
	Combination int          `json:"combination" yaml:"combination"`
	Definitions []Definition `json:"definitions" yaml:"definitions"`
}

type Definition struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value" yaml:"value"`
}

// Build collects the manifest for the resolved declarations of one site.
func Build(source, pkg string, resolved []*bridge.Resolved) *Manifest {
	m := &Manifest{Source: source, Package: pkg, Declarations: make([]Declaration, 0, len(resolved))}
	for _, res := range resolved {
		d := Declaration{Name: res.Decl.Name, Template: res.Decl.TemplatePath, Cases: []Case{}}
		for _, rv := range res.Variants {
			for _, c := range rv.Combinations {
				d.Cases = append(d.Cases, Case{
					Variant:     rv.Variant.Name,
					Label:       rv.Label(c),
					Combination: c.Index,
					Definitions: definitions(c),
				})
			}
		}
		m.Declarations = append(m.Declarations, d)
	}
	return m
}

func definitions(c bridge.Combination) []Definition {
	keys := make([]string, 0, len(c.Definitions))
	for k := range c.Definitions {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	defs := make([]Definition, len(keys))
	for i, k := range keys {
		v := c.Definitions[k]
		defs[i] = Definition{Name: k, Type: v.Kind().String(), Value: v.Interface()}
	}
	return defs
}

// Marshal encodes m in the format implied by path's extension: .json,
// .yaml or .yml.
func Marshal(m *Manifest, path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding manifest as JSON: %w", err)
		}
		return append(data, '\n'), nil
	case ".yaml", ".yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("encoding manifest as YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding manifest as YAML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q (use .json, .yaml or .yml)", ErrUnsupportedFormat, path)
	}
}
