// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the in-memory model of a declaration file.
package dsl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/shadergen/internal/shaderdef"
)

// SharedName is the reserved variant name that holds default definitions.
const SharedName = "shared"

// File is the parsed content of one declaration file.
type File struct {
	Filename   string
	ValueEnums []*ValueEnum
	Variants   []*VariantsDecl
}

// LookupValueEnum resolves a cross-product reference. It matches either the
// declared name or the "as" name of a value enum.
func (f *File) LookupValueEnum(name string) *ValueEnum {
	for _, e := range f.ValueEnums {
		if e.Name == name || e.CodegenName == name {
			return e
		}
	}
	return nil
}

// ValueEnum is a `value_enum` declaration.
type ValueEnum struct {
	Public      bool
	Name        string
	CodegenName string
	Kind        shaderdef.Kind
	Cases       []EnumCase
	Range       hcl.Range
}

// TypeName returns the name used for the generated Go type.
func (e *ValueEnum) TypeName() string {
	if e.CodegenName != "" {
		return e.CodegenName
	}
	return e.Name
}

// DefKey returns the definition key under which the selected case's literal
// is passed to the preprocessor.
func (e *ValueEnum) DefKey() string { return e.Name }

// EnumCase is one `Name = literal` entry of a value enum.
type EnumCase struct {
	Name  string
	Value shaderdef.Value
	Range hcl.Range
}

// Definition is one typed `NAME: kind = literal` entry.
type Definition struct {
	Name  string
	Value shaderdef.Value
	Range hcl.Range
}

// VariantsDecl is a `variants` declaration.
type VariantsDecl struct {
	Public       bool
	Name         string
	TemplatePath string
	// Shared is nil when the declaration has no shared block.
	Shared   []Definition
	Variants []*Variant
	Range    hcl.Range
}

// SharedValue returns the shared definition for key, if any.
func (d *VariantsDecl) SharedValue(key string) (shaderdef.Value, bool) {
	for _, def := range d.Shared {
		if def.Name == key {
			return def.Value, true
		}
	}
	return shaderdef.Value{}, false
}

// VariantKind discriminates the two variant forms.
type VariantKind uint8

const (
	HardCoded VariantKind = iota + 1
	CrossProduct
)

func (k VariantKind) String() string {
	switch k {
	case HardCoded:
		return "hardcoded"
	case CrossProduct:
		return "cross product"
	default:
		return "unknown"
	}
}

// Variant is one entry of a variants block. Definitions is set for
// HardCoded variants, EnumRefs for CrossProduct variants.
type Variant struct {
	Kind        VariantKind
	Name        string
	Definitions []Definition
	EnumRefs    []EnumRef
	Range       hcl.Range
}

// EnumRef is a reference to a value enum inside a cross-product variant.
type EnumRef struct {
	Name  string
	Range hcl.Range
}
