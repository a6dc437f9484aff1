// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file implements the recursive-descent parser for declaration files.
//
// Why reuse the HCL scanner?
//
// The declaration language shares its lexical layer with HCL: identifiers,
// braces, quoted strings, numbers and comments. Reusing hclsyntax gives us
// exact source ranges for every token, which flow into SyntaxError and into
// HCL-style diagnostics without any extra bookkeeping.
package dsl

import (
	"fmt"
	"go/token"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/shadergen/internal/shaderdef"
)

// Parse turns declaration text into a File. The first syntax problem aborts
// parsing and is returned as a *SyntaxError.
func Parse(src []byte, filename string) (*File, error) {
	tokens, diags := hclsyntax.LexConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, lexError(diags)
	}

	p := &parser{filename: filename}
	for _, tok := range tokens {
		switch tok.Type {
		case hclsyntax.TokenNewline, hclsyntax.TokenComment:
			continue
		}
		p.tokens = append(p.tokens, tok)
	}
	return p.parseFile()
}

func lexError(diags hcl.Diagnostics) error {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		se := &SyntaxError{Expected: "a valid token", Detail: d.Detail}
		if d.Subject != nil {
			se.Range = *d.Subject
		}
		return se
	}
	return diags
}

type parser struct {
	filename string
	tokens   []hclsyntax.Token
	pos      int
}

func (p *parser) peek() hclsyntax.Token {
	if p.pos >= len(p.tokens) {
		// LexConfig always terminates the stream with TokenEOF.
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *parser) next() hclsyntax.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) at(t hclsyntax.TokenType) bool { return p.peek().Type == t }

func (p *parser) atWord(word string) bool {
	tok := p.peek()
	return tok.Type == hclsyntax.TokenIdent && string(tok.Bytes) == word
}

func (p *parser) errorf(tok hclsyntax.Token, expected string) *SyntaxError {
	return &SyntaxError{Range: tok.Range, Expected: expected, Found: describe(tok)}
}

func (p *parser) expect(t hclsyntax.TokenType, expected string) (hclsyntax.Token, error) {
	tok := p.peek()
	if tok.Type != t {
		return tok, p.errorf(tok, expected)
	}
	return p.next(), nil
}

func (p *parser) expectWord(word string) error {
	if !p.atWord(word) {
		return p.errorf(p.peek(), strconv.Quote(word))
	}
	p.next()
	return nil
}

// expectName consumes an identifier that must also be a valid Go identifier,
// since every name ends up in generated code.
func (p *parser) expectName(what string) (string, hcl.Range, error) {
	tok := p.peek()
	if tok.Type != hclsyntax.TokenIdent || !isGoIdent(string(tok.Bytes)) {
		return "", tok.Range, p.errorf(tok, what)
	}
	p.next()
	return string(tok.Bytes), tok.Range, nil
}

// list parses `item ("," item)* [","]` up to and including the closing token.
func (p *parser) list(closing hclsyntax.TokenType, closingText string, item func() error) (hcl.Range, error) {
	for !p.at(closing) {
		if err := item(); err != nil {
			return hcl.Range{}, err
		}
		if p.at(closing) {
			break
		}
		if _, err := p.expect(hclsyntax.TokenComma, fmt.Sprintf(`"," or %q`, closingText)); err != nil {
			return hcl.Range{}, err
		}
	}
	return p.next().Range, nil
}

func (p *parser) parseFile() (*File, error) {
	f := &File{Filename: p.filename}
	for !p.at(hclsyntax.TokenEOF) {
		start := p.peek().Range
		public, err := p.parseVisibility()
		if err != nil {
			return nil, err
		}
		switch {
		case p.atWord("value_enum"):
			p.next()
			decl, err := p.parseValueEnum(start, public)
			if err != nil {
				return nil, err
			}
			f.ValueEnums = append(f.ValueEnums, decl)
		case p.atWord("variants"):
			p.next()
			decl, err := p.parseVariantsDecl(start, public)
			if err != nil {
				return nil, err
			}
			f.Variants = append(f.Variants, decl)
		default:
			return nil, p.errorf(p.peek(), `"value_enum" or "variants"`)
		}
	}
	return f, nil
}

// parseVisibility accepts `pub` and `pub(scope)`. Only a bare `pub` makes
// the generated identifiers exported.
func (p *parser) parseVisibility() (bool, error) {
	if !p.atWord("pub") {
		return false, nil
	}
	p.next()
	if !p.at(hclsyntax.TokenOParen) {
		return true, nil
	}
	p.next()
	if _, _, err := p.expectName("visibility scope"); err != nil {
		return false, err
	}
	if _, err := p.expect(hclsyntax.TokenCParen, `")"`); err != nil {
		return false, err
	}
	return false, nil
}

func (p *parser) parseKind() (shaderdef.Kind, error) {
	tok := p.peek()
	if tok.Type == hclsyntax.TokenIdent {
		if kind, ok := shaderdef.ParseKind(string(tok.Bytes)); ok {
			p.next()
			return kind, nil
		}
	}
	return shaderdef.KindInvalid, p.errorf(tok, "bool, i32 or u32")
}

// parseLiteral reads a literal of the given kind. owner and key identify the
// entry for error messages.
func (p *parser) parseLiteral(kind shaderdef.Kind, owner, key string) (shaderdef.Value, hcl.Range, error) {
	first := p.peek()
	expected := kind.String() + " literal"

	var text string
	rng := first.Range
	switch kind {
	case shaderdef.KindBool:
		if first.Type != hclsyntax.TokenIdent {
			return shaderdef.Value{}, rng, p.literalError(first, expected, owner, key)
		}
		text = string(p.next().Bytes)
	default:
		if first.Type == hclsyntax.TokenMinus {
			p.next()
			text = "-"
		}
		num := p.peek()
		if num.Type != hclsyntax.TokenNumberLit {
			return shaderdef.Value{}, rng, p.literalError(num, expected, owner, key)
		}
		p.next()
		text += string(num.Bytes)
		rng = hcl.RangeBetween(first.Range, num.Range)
	}

	v, err := shaderdef.ParseLiteral(kind, text)
	if err != nil {
		return shaderdef.Value{}, rng, &SyntaxError{
			Range:    rng,
			Expected: expected,
			Found:    strconv.Quote(text),
			Detail:   fmt.Sprintf("%s, %s: %v", owner, key, err),
		}
	}
	return v, rng, nil
}

func (p *parser) literalError(tok hclsyntax.Token, expected, owner, key string) *SyntaxError {
	se := p.errorf(tok, expected)
	se.Detail = fmt.Sprintf("%s, %s", owner, key)
	return se
}

func (p *parser) parseValueEnum(start hcl.Range, public bool) (*ValueEnum, error) {
	name, _, err := p.expectName("value_enum name")
	if err != nil {
		return nil, err
	}
	decl := &ValueEnum{Public: public, Name: name}

	if p.atWord("as") {
		p.next()
		if decl.CodegenName, _, err = p.expectName(`type name after "as"`); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(hclsyntax.TokenColon, `":"`); err != nil {
		return nil, err
	}
	if decl.Kind, err = p.parseKind(); err != nil {
		return nil, err
	}
	if _, err := p.expect(hclsyntax.TokenOBrace, `"{"`); err != nil {
		return nil, err
	}

	owner := fmt.Sprintf("value_enum %s", name)
	end, err := p.list(hclsyntax.TokenCBrace, "}", func() error {
		caseName, caseRange, err := p.expectName("case name")
		if err != nil {
			return err
		}
		if _, err := p.expect(hclsyntax.TokenEqual, `"="`); err != nil {
			return err
		}
		value, valueRange, err := p.parseLiteral(decl.Kind, owner, "case "+caseName)
		if err != nil {
			return err
		}
		decl.Cases = append(decl.Cases, EnumCase{
			Name:  caseName,
			Value: value,
			Range: hcl.RangeBetween(caseRange, valueRange),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	decl.Range = hcl.RangeBetween(start, end)
	return decl, nil
}

func (p *parser) parseVariantsDecl(start hcl.Range, public bool) (*VariantsDecl, error) {
	name, _, err := p.expectName("variants name")
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("from"); err != nil {
		return nil, err
	}
	path, err := p.parseString("template path")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(hclsyntax.TokenOBrace, `"{"`); err != nil {
		return nil, err
	}

	decl := &VariantsDecl{Public: public, Name: name, TemplatePath: path}
	end, err := p.list(hclsyntax.TokenCBrace, "}", func() error {
		v, err := p.parseVariant(name)
		if err != nil {
			return err
		}
		if v.Name != SharedName {
			decl.Variants = append(decl.Variants, v)
			return nil
		}
		if v.Kind != HardCoded {
			return &SyntaxError{
				Range:    v.Range,
				Expected: `"{" after shared`,
				Found:    "a cross product",
				Detail:   fmt.Sprintf("variants %s: the shared block must list hardcoded definitions", name),
			}
		}
		if decl.Shared != nil {
			return &SyntaxError{
				Range:    v.Range,
				Expected: "a single shared block",
				Found:    "a second shared block",
				Detail:   fmt.Sprintf("variants %s", name),
			}
		}
		decl.Shared = append(make([]Definition, 0, len(v.Definitions)), v.Definitions...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	decl.Range = hcl.RangeBetween(start, end)
	return decl, nil
}

func (p *parser) parseVariant(declName string) (*Variant, error) {
	name, nameRange, err := p.expectName("variant name")
	if err != nil {
		return nil, err
	}

	switch {
	case p.at(hclsyntax.TokenOBrace):
		p.next()
		v := &Variant{Kind: HardCoded, Name: name, Definitions: []Definition{}}
		owner := fmt.Sprintf("variants %s, variant %s", declName, name)
		end, err := p.list(hclsyntax.TokenCBrace, "}", func() error {
			key, keyRange, err := p.expectName("definition name")
			if err != nil {
				return err
			}
			if _, err := p.expect(hclsyntax.TokenColon, `":"`); err != nil {
				return err
			}
			kind, err := p.parseKind()
			if err != nil {
				return err
			}
			if _, err := p.expect(hclsyntax.TokenEqual, `"="`); err != nil {
				return err
			}
			value, valueRange, err := p.parseLiteral(kind, owner, "key "+key)
			if err != nil {
				return err
			}
			v.Definitions = append(v.Definitions, Definition{
				Name:  key,
				Value: value,
				Range: hcl.RangeBetween(keyRange, valueRange),
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
		v.Range = hcl.RangeBetween(nameRange, end)
		return v, nil

	case p.at(hclsyntax.TokenOParen):
		p.next()
		v := &Variant{Kind: CrossProduct, Name: name}
		end, err := p.list(hclsyntax.TokenCParen, ")", func() error {
			ref, refRange, err := p.expectName("value_enum name")
			if err != nil {
				return err
			}
			v.EnumRefs = append(v.EnumRefs, EnumRef{Name: ref, Range: refRange})
			return nil
		})
		if err != nil {
			return nil, err
		}
		v.Range = hcl.RangeBetween(nameRange, end)
		return v, nil

	default:
		return nil, p.errorf(p.peek(), `"{" or "("`)
	}
}

// parseString reads a quoted string without template interpolation.
func (p *parser) parseString(what string) (string, error) {
	open := p.peek()
	if open.Type != hclsyntax.TokenOQuote {
		return "", p.errorf(open, what)
	}
	p.next()

	var raw []byte
	for p.at(hclsyntax.TokenQuotedLit) {
		raw = append(raw, p.next().Bytes...)
	}
	if _, err := p.expect(hclsyntax.TokenCQuote, `closing quote`); err != nil {
		return "", err
	}
	s, err := strconv.Unquote(`"` + string(raw) + `"`)
	if err != nil {
		return "", &SyntaxError{
			Range:    open.Range,
			Expected: what,
			Found:    strconv.Quote(string(raw)),
			Detail:   "invalid escape sequence",
		}
	}
	return s, nil
}

func describe(tok hclsyntax.Token) string {
	switch tok.Type {
	case hclsyntax.TokenEOF:
		return "end of input"
	case hclsyntax.TokenOQuote:
		return "a string"
	case hclsyntax.TokenNumberLit:
		return "number " + string(tok.Bytes)
	default:
		return strconv.Quote(string(tok.Bytes))
	}
}

// isGoIdent rejects names that cannot be spelled in generated code, such as
// HCL identifiers containing dashes and Go keywords.
func isGoIdent(s string) bool {
	return s != "_" && token.IsIdentifier(s)
}
