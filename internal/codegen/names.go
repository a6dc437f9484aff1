package codegen

import (
	"fmt"
	"go/token"
	"go/types"
	"unicode"
	"unicode/utf8"
)

func exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

func unexported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}

// visible applies the visibility of a declaration to a generated name.
func visible(public bool, name string) string {
	if public {
		return exported(name)
	}
	return unexported(name)
}

// names tracks generated package-level identifiers and reports collisions.
type names struct {
	owners map[string]string
	errs   []error
}

func newNames() *names {
	return &names{owners: make(map[string]string)}
}

// claim reserves ident on behalf of owner, a human readable description of
// the DSL element the identifier is generated for.
func (n *names) claim(ident, owner string) string {
	switch {
	case !token.IsIdentifier(ident):
		n.errs = append(n.errs, fmt.Errorf("%w: %q for %s", ErrInvalidIdentifier, ident, owner))
	case types.Universe.Lookup(ident) != nil:
		n.errs = append(n.errs, fmt.Errorf("%w: %q for %s shadows a predeclared identifier", ErrInvalidIdentifier, ident, owner))
	default:
		if prev, ok := n.owners[ident]; ok {
			n.errs = append(n.errs, fmt.Errorf("%w: %q is generated for both %s and %s", ErrIdentifierCollision, ident, prev, owner))
		} else {
			n.owners[ident] = owner
		}
	}
	return ident
}
