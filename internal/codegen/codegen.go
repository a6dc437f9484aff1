// Package codegen renders parsed and preprocessed declarations as Go source.
//
// For every value enum it emits an int-backed enum type with a total Value
// accessor and a partial FromValue lookup. For every variants declaration it
// emits a sealed interface with one struct per variant; cross-product
// variants carry the selected enum cases as fields and index a nested array
// of preprocessed sources, so the case to source mapping is total by
// construction.
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"

	"github.com/dave/jennifer/jen"
	"github.com/specialistvlad/shadergen/internal/bridge"
	"github.com/specialistvlad/shadergen/internal/dsl"
	"github.com/specialistvlad/shadergen/internal/shaderdef"
)

// Header is the first line of every generated file.
const Header = "Code generated by shadergen. DO NOT EDIT."

var (
	ErrIdentifierCollision = errors.New("generated identifier collision")
	ErrInvalidIdentifier   = errors.New("invalid generated identifier")
	ErrCombinationCount    = errors.New("combination count mismatch")
)

// Input is everything needed to render one declaration site.
type Input struct {
	// Package is the Go package name of the generated file.
	Package string
	// Source is the name of the DSL file, recorded in the header.
	Source string
	File   *dsl.File
	// Resolved holds one entry per variants declaration of File, in order.
	Resolved []*bridge.Resolved
}

// Emit renders in as a gofmt'ed Go file.
func Emit(in Input) ([]byte, error) {
	if !token.IsIdentifier(in.Package) {
		return nil, fmt.Errorf("%w: package name %q", ErrInvalidIdentifier, in.Package)
	}
	if in.File == nil {
		return nil, errors.New("codegen: no declarations to emit")
	}

	f := jen.NewFile(in.Package)
	f.HeaderComment(Header)
	if in.Source != "" {
		f.HeaderComment("Source: " + in.Source)
	}

	e := &emitter{f: f, names: newNames()}
	for _, ve := range in.File.ValueEnums {
		e.valueEnum(ve)
	}
	for _, res := range in.Resolved {
		if err := e.variants(res); err != nil {
			return nil, err
		}
	}
	if len(e.names.errs) > 0 {
		return nil, errors.Join(e.names.errs...)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering generated code: %w", err)
	}
	return buf.Bytes(), nil
}

type emitter struct {
	f     *jen.File
	names *names
}

func typeName(ve *dsl.ValueEnum) string {
	return visible(ve.Public, ve.TypeName())
}

// caseConst is the constant generated for case i of ve.
func caseConst(ve *dsl.ValueEnum, i int) string {
	return typeName(ve) + exported(ve.Cases[i].Name)
}

func scalar(kind shaderdef.Kind) *jen.Statement {
	switch kind {
	case shaderdef.KindBool:
		return jen.Bool()
	case shaderdef.KindInt:
		return jen.Int32()
	default:
		return jen.Uint32()
	}
}

func literal(v shaderdef.Value) *jen.Statement {
	if b, ok := v.AsBool(); ok {
		return jen.Lit(b)
	}
	return jen.Lit(int(v.Integer()))
}

// keyed renders a multi-line keyed composite literal body.
func keyed(keys []string, values []jen.Code) []jen.Code {
	items := make([]jen.Code, 0, len(keys)+1)
	for i, k := range keys {
		items = append(items, jen.Line().Id(k).Op(":").Add(values[i]))
	}
	return append(items, jen.Line())
}

func (e *emitter) valueEnum(ve *dsl.ValueEnum) {
	owner := fmt.Sprintf("value_enum %s", ve.Name)
	t := e.names.claim(typeName(ve), owner)
	valuesVar := e.names.claim(unexported(t)+"Values", owner)
	namesVar := e.names.claim(unexported(t)+"Names", owner)
	fromValue := e.names.claim(t+"FromValue", owner)
	casesFn := e.names.claim(t+"Cases", owner)

	consts := make([]string, len(ve.Cases))
	for i, c := range ve.Cases {
		consts[i] = e.names.claim(caseConst(ve, i), fmt.Sprintf("%s case %s", owner, c.Name))
	}

	e.f.Commentf("%s enumerates the cases of value enum %s.", t, ve.Name)
	e.f.Type().Id(t).Int()

	defs := make([]jen.Code, len(consts))
	for i, c := range consts {
		if i == 0 {
			defs[i] = jen.Id(c).Id(t).Op("=").Iota()
		} else {
			defs[i] = jen.Id(c)
		}
	}
	e.f.Const().Defs(defs...)

	values := make([]jen.Code, len(ve.Cases))
	labels := make([]jen.Code, len(ve.Cases))
	var matches []jen.Code
	seen := make(map[shaderdef.Value]bool, len(ve.Cases))
	for i, c := range ve.Cases {
		values[i] = literal(c.Value)
		labels[i] = jen.Lit(c.Name)
		if seen[c.Value] {
			continue
		}
		seen[c.Value] = true
		matches = append(matches, jen.Case(literal(c.Value)).Block(jen.Return(jen.Id(consts[i]), jen.Nil())))
	}

	e.f.Var().Defs(
		jen.Id(valuesVar).Op("=").Index(jen.Op("...")).Add(scalar(ve.Kind)).Values(keyed(consts, values)...),
		jen.Id(namesVar).Op("=").Index(jen.Op("...")).String().Values(keyed(consts, labels)...),
	)

	e.f.Commentf("Value returns the %s literal bound to v.", ve.Kind)
	e.f.Func().Params(jen.Id("v").Id(t)).Id("Value").Params().Add(scalar(ve.Kind)).Block(
		jen.Return(jen.Id(valuesVar).Index(jen.Id("v"))),
	)

	e.f.Commentf("%s returns the first case bound to x.", fromValue)
	e.f.Func().Id(fromValue).Params(jen.Id("x").Add(scalar(ve.Kind))).Params(jen.Id(t), jen.Error()).Block(
		jen.Switch(jen.Id("x")).Block(matches...),
		jen.Return(jen.Lit(0), jen.Qual("fmt", "Errorf").Call(jen.Lit(t+": no matching case for value %v"), jen.Id("x"))),
	)

	e.f.Commentf("%s returns every case in declaration order.", casesFn)
	caseIDs := make([]jen.Code, len(consts))
	for i, c := range consts {
		caseIDs[i] = jen.Id(c)
	}
	e.f.Func().Id(casesFn).Params().Index().Id(t).Block(
		jen.Return(jen.Index().Id(t).Values(caseIDs...)),
	)

	inRange := func() *jen.Statement {
		return jen.Id("v").Op(">=").Lit(0).Op("&&").Int().Parens(jen.Id("v")).Op("<").Len(jen.Id(namesVar))
	}

	e.f.Func().Params(jen.Id("v").Id(t)).Id("String").Params().String().Block(
		jen.If(inRange()).Block(
			jen.Return(jen.Id(namesVar).Index(jen.Id("v"))),
		),
		jen.Return(jen.Qual("fmt", "Sprintf").Call(jen.Lit(t+"(%d)"), jen.Int().Parens(jen.Id("v")))),
	)

	e.f.Comment("MarshalText implements encoding.TextMarshaler.")
	e.f.Func().Params(jen.Id("v").Id(t)).Id("MarshalText").Params().Params(jen.Index().Byte(), jen.Error()).Block(
		jen.If(jen.Op("!").Parens(inRange())).Block(
			jen.Return(jen.Nil(), jen.Qual("fmt", "Errorf").Call(jen.Lit(t+": invalid case %d"), jen.Int().Parens(jen.Id("v")))),
		),
		jen.Return(jen.Index().Byte().Parens(jen.Id(namesVar).Index(jen.Id("v"))), jen.Nil()),
	)

	e.f.Comment("UnmarshalText implements encoding.TextUnmarshaler.")
	e.f.Func().Params(jen.Id("v").Op("*").Id(t)).Id("UnmarshalText").Params(jen.Id("text").Index().Byte()).Error().Block(
		jen.For(jen.List(jen.Id("i"), jen.Id("name")).Op(":=").Range().Id(namesVar)).Block(
			jen.If(jen.Id("name").Op("==").String().Parens(jen.Id("text"))).Block(
				jen.Op("*").Id("v").Op("=").Id(t).Parens(jen.Id("i")),
				jen.Return(jen.Nil()),
			),
		),
		jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit(t+": unknown case %q"), jen.Id("text"))),
	)
}

// variant methods that payload fields must not shadow.
var reservedFields = map[string]bool{"Source": true, "String": true}

func (e *emitter) variants(res *bridge.Resolved) error {
	decl := res.Decl
	owner := fmt.Sprintf("variants %s", decl.Name)
	d := e.names.claim(visible(decl.Public, decl.Name), owner)
	marker := "is" + exported(d)
	pathConst := e.names.claim(d+"TemplatePath", owner)
	rawConst := e.names.claim(unexported(d)+"Template", owner)
	rawFn := e.names.claim(d+"RawTemplate", owner)
	allFn := e.names.claim(visible(decl.Public, "All"+exported(d)), owner)

	e.f.Commentf("%s selects one preprocessed variant of %s.", d, decl.TemplatePath)
	e.f.Type().Id(d).Interface(
		jen.Comment("Source returns the preprocessed shader source."),
		jen.Id("Source").Params().String(),
		jen.Id("String").Params().String(),
		jen.Id(marker).Params(),
	)

	e.f.Const().Defs(
		jen.Id(pathConst).Op("=").Lit(decl.TemplatePath),
		jen.Id(rawConst).Op("=").Lit(res.Template),
	)

	e.f.Commentf("%s returns the template of %s before preprocessing.", rawFn, d)
	e.f.Func().Id(rawFn).Params().String().Block(jen.Return(jen.Id(rawConst)))

	var all []jen.Code
	for _, rv := range res.Variants {
		if got, want := len(rv.Combinations), rv.Expected(); got != want {
			return fmt.Errorf("%w: variant %q of %q has %d cases, expected %d",
				ErrCombinationCount, rv.Variant.Name, decl.Name, got, want)
		}
		all = append(all, e.variant(d, marker, owner, rv)...)
	}

	e.f.Commentf("%s returns every %s case in declaration order.", allFn, d)
	items := make([]jen.Code, 0, len(all)+1)
	for _, c := range all {
		items = append(items, jen.Line().Add(c))
	}
	items = append(items, jen.Line())
	e.f.Func().Id(allFn).Params().Index().Id(d).Block(
		jen.Return(jen.Index().Id(d).Values(items...)),
	)
	return nil
}

// variant emits the struct for one variant and returns a literal for each of
// its cases.
func (e *emitter) variant(d, marker, declOwner string, rv *bridge.ResolvedVariant) []jen.Code {
	v := rv.Variant
	owner := fmt.Sprintf("%s, variant %s", declOwner, v.Name)
	s := e.names.claim(d+exported(v.Name), owner)

	fields := make([]string, len(rv.Enums))
	fieldDecls := make([]jen.Code, len(rv.Enums))
	seen := make(map[string]bool, len(rv.Enums))
	for i, ve := range rv.Enums {
		fields[i] = exported(typeName(ve))
		if seen[fields[i]] || reservedFields[fields[i]] || fields[i] == marker {
			e.names.errs = append(e.names.errs, fmt.Errorf("%w: field %q of %s", ErrIdentifierCollision, fields[i], s))
		}
		seen[fields[i]] = true
		fieldDecls[i] = jen.Id(fields[i]).Id(typeName(ve))
	}

	if v.Kind == dsl.CrossProduct && len(rv.Enums) > 0 {
		e.f.Commentf("%s is the %s variant of %s; each field selects one enum case.", s, v.Name, d)
	} else {
		e.f.Commentf("%s is the %s variant of %s.", s, v.Name, d)
	}
	e.f.Type().Id(s).Struct(fieldDecls...)
	e.f.Func().Params(jen.Id(s)).Id(marker).Params().Block()

	if len(rv.Enums) == 0 {
		src := e.names.claim(unexported(s)+"Source", owner)
		e.f.Const().Id(src).Op("=").Lit(rv.Combinations[0].Source)
		e.f.Func().Params(jen.Id(s)).Id("Source").Params().String().Block(jen.Return(jen.Id(src)))
		e.f.Func().Params(jen.Id(s)).Id("String").Params().String().Block(jen.Return(jen.Lit(v.Name)))
		return []jen.Code{jen.Id(s).Values()}
	}

	table := e.names.claim(unexported(s)+"Sources", owner)
	sizes := make([]int, len(rv.Enums))
	arrayType := jen.Null()
	for i, ve := range rv.Enums {
		sizes[i] = len(ve.Cases)
		arrayType.Index(jen.Lit(sizes[i]))
	}
	sources := make([]string, len(rv.Combinations))
	for i, c := range rv.Combinations {
		sources[i] = c.Source
	}
	e.f.Var().Id(table).Op("=").Add(arrayType).String().Values(nested(sizes, sources)...)

	lookup := jen.Id(table)
	label := jen.Lit(v.Name + "(")
	for i, fn := range fields {
		lookup.Index(jen.Id("v").Dot(fn))
		if i > 0 {
			label.Op("+").Lit(", ")
		}
		label.Op("+").Id("v").Dot(fn).Dot("String").Call()
	}
	label.Op("+").Lit(")")

	e.f.Func().Params(jen.Id("v").Id(s)).Id("Source").Params().String().Block(jen.Return(lookup))
	e.f.Func().Params(jen.Id("v").Id(s)).Id("String").Params().String().Block(jen.Return(label))

	cases := make([]jen.Code, len(rv.Combinations))
	for i, c := range rv.Combinations {
		vals := make([]jen.Code, len(fields))
		for j, fn := range fields {
			vals[j] = jen.Id(fn).Op(":").Id(caseConst(rv.Enums[j], c.Cases[j]))
		}
		cases[i] = jen.Id(s).Values(vals...)
	}
	return cases
}

// nested renders sources, listed in odometer order, as the body of a
// [sizes[0]][sizes[1]]...string composite literal.
func nested(sizes []int, sources []string) []jen.Code {
	items := make([]jen.Code, 0, sizes[0]+1)
	stride := len(sources) / sizes[0]
	for i := 0; i < sizes[0]; i++ {
		chunk := sources[i*stride : (i+1)*stride]
		if len(sizes) == 1 {
			items = append(items, jen.Line().Lit(chunk[0]))
		} else {
			items = append(items, jen.Line().Values(nested(sizes[1:], chunk)...))
		}
	}
	return append(items, jen.Line())
}
