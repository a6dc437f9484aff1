// Package bridge connects parsed variant declarations to a preprocessor. It
// computes the definitions of every concrete case a declaration implies and
// runs the shader template through the preprocessor once per case.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/specialistvlad/shadergen/internal/ctxlog"
	"github.com/specialistvlad/shadergen/internal/dsl"
	"github.com/specialistvlad/shadergen/internal/odometer"
	"github.com/specialistvlad/shadergen/internal/preprocess"
	"github.com/specialistvlad/shadergen/internal/shaderdef"
)

// EnumLookup resolves cross-product references. *dsl.File implements it.
type EnumLookup interface {
	LookupValueEnum(name string) *dsl.ValueEnum
}

// Resolved is the preprocessed form of one variants declaration.
type Resolved struct {
	Decl     *dsl.VariantsDecl
	Template string
	Variants []*ResolvedVariant
}

// ResolvedVariant holds every case produced by one top-level variant.
type ResolvedVariant struct {
	Variant *dsl.Variant
	// Enums are the referenced value enums in reference order. Empty for
	// hardcoded variants.
	Enums        []*dsl.ValueEnum
	Combinations []Combination
}

// Combination is one concrete case.
type Combination struct {
	// Index is the odometer ordinal, or -1 for a hardcoded variant.
	Index int
	// Cases holds the selected case index per entry of Enums.
	Cases       []int
	Definitions map[string]shaderdef.Value
	Source      string
}

// Expected returns the number of combinations the variant must produce.
func (rv *ResolvedVariant) Expected() int {
	if rv.Variant.Kind == dsl.HardCoded {
		return 1
	}
	bases := make([]int, len(rv.Enums))
	for i, e := range rv.Enums {
		bases[i] = len(e.Cases)
	}
	return odometer.New(bases...).Len()
}

// Resolve preprocesses template for every case of decl.
//
// The definitions passed to the preprocessor are built in layers: defaults,
// then the declaration's shared block, then the variant's own definitions
// (or the selected enum literals). Later layers win. The working map is
// reset to the defaults+shared baseline before every top-level variant, so
// nothing one variant sets leaks into the next.
//
// Failures of one variant do not stop the others; all errors are returned
// joined, in variant order.
func Resolve(ctx context.Context, decl *dsl.VariantsDecl, enums EnumLookup, template string, pp preprocess.Preprocessor, defaults map[string]shaderdef.Value) (*Resolved, error) {
	logger := ctxlog.FromContext(ctx).With("declaration", decl.Name)

	baseline := make(map[string]shaderdef.Value, len(defaults)+len(decl.Shared))
	maps.Copy(baseline, defaults)
	for _, d := range decl.Shared {
		baseline[d.Name] = d.Value
	}
	defs := make(map[string]shaderdef.Value, len(baseline))

	res := &Resolved{Decl: decl, Template: template}
	var errs []error
	for _, v := range decl.Variants {
		clear(defs)
		maps.Copy(defs, baseline)

		var (
			rv  *ResolvedVariant
			err error
		)
		switch v.Kind {
		case dsl.HardCoded:
			rv, err = resolveHardCoded(decl, v, template, pp, defs)
		case dsl.CrossProduct:
			rv, err = resolveCrossProduct(decl, v, enums, template, pp, defs)
		default:
			err = fmt.Errorf("variant %q: unknown kind %s", v.Name, v.Kind)
		}
		if err != nil {
			logger.Debug("Variant failed.", "variant", v.Name, "error", err)
			errs = append(errs, err)
			continue
		}
		logger.Debug("Variant resolved.", "variant", v.Name, "cases", len(rv.Combinations))
		res.Variants = append(res.Variants, rv)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return res, nil
}

func resolveHardCoded(decl *dsl.VariantsDecl, v *dsl.Variant, template string, pp preprocess.Preprocessor, defs map[string]shaderdef.Value) (*ResolvedVariant, error) {
	for _, d := range v.Definitions {
		defs[d.Name] = d.Value
	}
	src, err := pp.Preprocess(template, defs)
	if err != nil {
		return nil, &PreprocessingError{Declaration: decl.Name, Variant: v.Name, CombinationIndex: -1, Err: err}
	}
	return &ResolvedVariant{
		Variant:      v,
		Combinations: []Combination{{Index: -1, Definitions: maps.Clone(defs), Source: src}},
	}, nil
}

func resolveCrossProduct(decl *dsl.VariantsDecl, v *dsl.Variant, enums EnumLookup, template string, pp preprocess.Preprocessor, defs map[string]shaderdef.Value) (*ResolvedVariant, error) {
	rv := &ResolvedVariant{Variant: v, Enums: make([]*dsl.ValueEnum, len(v.EnumRefs))}
	bases := make([]int, len(v.EnumRefs))
	for i, ref := range v.EnumRefs {
		e := enums.LookupValueEnum(ref.Name)
		if e == nil {
			return nil, &dsl.ValidationError{
				Declaration: decl.Name,
				Variant:     v.Name,
				Subject:     ref.Name,
				Err:         dsl.ErrUndefinedEnum,
				Range:       ref.Range,
			}
		}
		rv.Enums[i] = e
		bases[i] = len(e.Cases)
	}

	for idx, digits := range odometer.Combinations(bases...) {
		for i, e := range rv.Enums {
			defs[e.DefKey()] = e.Cases[digits[i]].Value
		}
		src, err := pp.Preprocess(template, defs)
		if err != nil {
			return nil, &PreprocessingError{Declaration: decl.Name, Variant: v.Name, CombinationIndex: idx, Err: err}
		}
		rv.Combinations = append(rv.Combinations, Combination{
			Index:       idx,
			Cases:       digits,
			Definitions: maps.Clone(defs),
			Source:      src,
		})
	}
	return rv, nil
}

// Label renders a case the way the generated String methods do:
// "Debug" for a hardcoded variant, "Fast(High, On)" for a cross product.
func (rv *ResolvedVariant) Label(c Combination) string {
	if len(rv.Enums) == 0 {
		return rv.Variant.Name
	}
	parts := make([]string, len(rv.Enums))
	for i, e := range rv.Enums {
		parts[i] = e.Cases[c.Cases[i]].Name
	}
	return rv.Variant.Name + "(" + strings.Join(parts, ", ") + ")"
}
