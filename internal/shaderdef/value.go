// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package shaderdef defines the typed scalar values ("shader defs") that are
// substituted into shader templates by a preprocessor.
//
// A Value is a small tagged union over the three scalar kinds the declaration
// language supports: bool, i32 and u32. The same type is used for value-enum
// literals, shared/hardcoded definitions and job-level defaults, so every
// layer of the compiler agrees on how a literal is typed and printed.
package shaderdef

import (
	"fmt"
	"strconv"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Kind is the scalar kind of a definition value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindUInt
)

// ParseKind maps a kind keyword of the declaration language to a Kind.
func ParseKind(keyword string) (Kind, bool) {
	switch keyword {
	case "bool":
		return KindBool, true
	case "i32":
		return KindInt, true
	case "u32":
		return KindUInt, true
	default:
		return KindInvalid, false
	}
}

// String returns the keyword used for the kind in the declaration language.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "i32"
	case KindUInt:
		return "u32"
	default:
		return "invalid"
	}
}

// GoType returns the name of the Go scalar type that holds values of this kind.
func (k Kind) GoType() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int32"
	case KindUInt:
		return "uint32"
	default:
		panic(fmt.Sprintf("shaderdef: no Go type for kind %d", k))
	}
}

// Value is a typed definition value. The zero Value is invalid.
type Value struct {
	kind Kind
	b    bool
	n    int64
}

// Bool returns a bool definition value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an i32 definition value.
func Int(i int32) Value { return Value{kind: KindInt, n: int64(i)} }

// UInt returns a u32 definition value.
func UInt(u uint32) Value { return Value{kind: KindUInt, n: int64(u)} }

// Kind reports the scalar kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v was built by one of the constructors.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// AsBool returns the bool payload and whether v is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the i32 payload and whether v is an i32.
func (v Value) AsInt() (int32, bool) { return int32(v.n), v.kind == KindInt }

// AsUInt returns the u32 payload and whether v is a u32.
func (v Value) AsUInt() (uint32, bool) { return uint32(v.n), v.kind == KindUInt }

// Integer returns the numeric payload widened to int64. Bools map to 0 and 1.
func (v Value) Integer() int64 {
	if v.kind == KindBool {
		if v.b {
			return 1
		}
		return 0
	}
	return v.n
}

// Interface returns the payload as a bool, int32 or uint32.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return int32(v.n)
	case KindUInt:
		return uint32(v.n)
	default:
		return nil
	}
}

// String renders v the way it is written in source: true, -3, 10.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt, KindUInt:
		return strconv.FormatInt(v.n, 10)
	default:
		return "<invalid>"
	}
}

// ParseLiteral parses the textual form of a literal of the given kind.
// Integers are decimal; a leading minus sign is only accepted for i32.
func ParseLiteral(kind Kind, text string) (Value, error) {
	switch kind {
	case KindBool:
		switch text {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return Value{}, fmt.Errorf("expected true or false, got %q", text)
	case KindInt:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return Value{}, fmt.Errorf("invalid i32 literal %q: %w", text, numError(err))
		}
		return Int(int32(n)), nil
	case KindUInt:
		n, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return Value{}, fmt.Errorf("invalid u32 literal %q: %w", text, numError(err))
		}
		return UInt(uint32(n)), nil
	default:
		return Value{}, fmt.Errorf("cannot parse literal of kind %s", kind)
	}
}

func numError(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}

// Cty converts v into its cty representation.
func (v Value) Cty() cty.Value {
	switch v.kind {
	case KindBool:
		return cty.BoolVal(v.b)
	case KindInt:
		return cty.NumberIntVal(v.n)
	case KindUInt:
		return cty.NumberUIntVal(uint64(v.n))
	default:
		return cty.NilVal
	}
}

// FromCty converts a cty value into a Value of the requested kind. Numbers
// must be whole and fit the target kind.
func FromCty(kind Kind, val cty.Value) (Value, error) {
	if val.IsNull() {
		return Value{}, fmt.Errorf("value must not be null")
	}
	if !val.IsKnown() {
		return Value{}, fmt.Errorf("value must be known")
	}
	switch kind {
	case KindBool:
		var b bool
		if err := gocty.FromCtyValue(val, &b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case KindInt:
		var i int32
		if err := gocty.FromCtyValue(val, &i); err != nil {
			return Value{}, err
		}
		return Int(i), nil
	case KindUInt:
		var u uint32
		if err := gocty.FromCtyValue(val, &u); err != nil {
			return Value{}, err
		}
		return UInt(u), nil
	default:
		return Value{}, fmt.Errorf("unsupported kind %s", kind)
	}
}
