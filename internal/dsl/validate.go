package dsl

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// Validate checks the cross references and structural invariants of a parsed
// file. Every problem is reported; the result is nil or an errors.Join of
// *ValidationError values in source order.
func Validate(f *File) error {
	v := &validator{file: f}
	v.checkValueEnums()
	for _, decl := range f.Variants {
		v.checkVariantsDecl(decl)
	}
	v.checkDeclarationNames()
	return errors.Join(v.errs...)
}

type validator struct {
	file *File
	errs []error
}

func (v *validator) add(decl, variant, subject string, cause error, rng hcl.Range) {
	v.errs = append(v.errs, &ValidationError{
		Declaration: decl,
		Variant:     variant,
		Subject:     subject,
		Err:         cause,
		Range:       rng,
	})
}

func (v *validator) checkValueEnums() {
	owners := map[string]*ValueEnum{}
	for _, e := range v.file.ValueEnums {
		if len(e.Cases) == 0 {
			v.add(e.Name, "", "", ErrEmptyEnum, e.Range)
		}

		seen := map[string]bool{}
		for _, c := range e.Cases {
			if seen[c.Name] {
				v.add(e.Name, "", c.Name, fmt.Errorf("%w: case", ErrDuplicateName), c.Range)
			}
			seen[c.Name] = true
		}

		// Declared and "as" names share one namespace, otherwise a
		// cross-product reference could resolve to two enums.
		names := []string{e.Name}
		if e.CodegenName != "" && e.CodegenName != e.Name {
			names = append(names, e.CodegenName)
		}
		for _, n := range names {
			if prev, ok := owners[n]; ok && prev != e {
				v.add(e.Name, "", n, fmt.Errorf("%w: value_enum", ErrDuplicateName), e.Range)
				continue
			}
			owners[n] = e
		}
	}
}

func (v *validator) checkVariantsDecl(decl *VariantsDecl) {
	shared := map[string]Definition{}
	for _, def := range decl.Shared {
		if _, dup := shared[def.Name]; dup {
			v.add(decl.Name, SharedName, def.Name, fmt.Errorf("%w: definition", ErrDuplicateName), def.Range)
			continue
		}
		shared[def.Name] = def
	}

	variantNames := map[string]bool{}
	for _, variant := range decl.Variants {
		if variantNames[variant.Name] {
			v.add(decl.Name, variant.Name, variant.Name, fmt.Errorf("%w: variant", ErrDuplicateName), variant.Range)
		}
		variantNames[variant.Name] = true

		switch variant.Kind {
		case HardCoded:
			v.checkHardCoded(decl, variant, shared)
		case CrossProduct:
			v.checkCrossProduct(decl, variant, shared)
		}
	}
}

func (v *validator) checkHardCoded(decl *VariantsDecl, variant *Variant, shared map[string]Definition) {
	keys := map[string]bool{}
	for _, def := range variant.Definitions {
		if keys[def.Name] {
			v.add(decl.Name, variant.Name, def.Name, fmt.Errorf("%w: definition", ErrDuplicateName), def.Range)
		}
		keys[def.Name] = true

		if base, ok := shared[def.Name]; ok && base.Value.Kind() != def.Value.Kind() {
			v.add(decl.Name, variant.Name, def.Name,
				fmt.Errorf("%w: shared declares %s, variant sets %s", ErrKindMismatch, base.Value.Kind(), def.Value.Kind()),
				def.Range)
		}
	}
}

func (v *validator) checkCrossProduct(decl *VariantsDecl, variant *Variant, shared map[string]Definition) {
	used := map[*ValueEnum]bool{}
	for _, ref := range variant.EnumRefs {
		e := v.file.LookupValueEnum(ref.Name)
		if e == nil {
			v.add(decl.Name, variant.Name, ref.Name, ErrUndefinedEnum, ref.Range)
			continue
		}
		if used[e] {
			v.add(decl.Name, variant.Name, ref.Name, fmt.Errorf("%w: value_enum referenced twice", ErrDuplicateName), ref.Range)
			continue
		}
		used[e] = true

		if def, ok := shared[e.DefKey()]; ok {
			v.add(decl.Name, variant.Name, e.DefKey(), ErrNamespaceCollision, def.Range)
		}
	}
}

func (v *validator) checkDeclarationNames() {
	seen := map[string]bool{}
	for _, decl := range v.file.Variants {
		if seen[decl.Name] {
			v.add(decl.Name, "", decl.Name, fmt.Errorf("%w: variants", ErrDuplicateName), decl.Range)
		}
		seen[decl.Name] = true
	}
}
