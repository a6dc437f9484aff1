// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package dsl parses and validates the shader variant declaration language.
//
// A declaration file holds two kinds of declarations:
//
//	pub value_enum LEVEL as Level: u32 { Low = 0, High = 10 }
//
//	pub variants Shader from "shaders/fractal.wgsl" {
//	    shared { DEBUG: bool = false },
//	    Fast(LEVEL),
//	    Slow { DEBUG: bool = true },
//	}
//
// A value_enum is a finite, ordered set of named cases, each bound to one
// typed scalar literal. A variants declaration names a shader template and
// lists the variants that should be produced from it: hardcoded variants set
// definitions explicitly, cross-product variants expand into one case per
// combination of the referenced value enums. The variant called "shared" is
// not a case; it holds the definitions every other variant inherits.
//
// # Pipeline position
//
// Parse turns text into a File. Validate checks cross references and the
// structural invariants that the parser cannot see locally. The resulting
// File is immutable and is consumed by the bridge (preprocessing) and the
// code emitter.
//
// # Name resolution
//
// A cross-product variant may reference a value enum by its declared name or
// by its "as" name. The declared name is always the definition key handed to
// the preprocessor; the "as" name, when present, is the name of the generated
// Go type.
//
// # Lexical rules
//
// Tokens are produced by the HCL native-syntax scanner, so comments (#, //
// and /* */), string escapes and number literals follow HCL conventions.
package dsl
