// Package scope implements the symbol/function/operator/type tables that
// back name resolution, and the mangling scheme that turns overloaded
// declarations into unique lookup keys.
package scope

import "duskc/ast"

// TypeDesc is the resolved type of a value: either a scalar named type or
// an array of some TypeDesc.
type TypeDesc struct {
	Name    string
	IsArray bool
	Elem    *TypeDesc
}

// Void is the return type of a function with no declared return type until
// its first return statement fixes it.
var Void = &TypeDesc{Name: "void"}

// Bool, Str are the builtin scalar types semantic analysis compares against.
var (
	Bool = &TypeDesc{Name: "bool"}
	Str  = &TypeDesc{Name: "str"}
)

func Array(elem *TypeDesc) *TypeDesc { return &TypeDesc{IsArray: true, Elem: elem} }

// Equal reports structural equality.
func (t *TypeDesc) Equal(o *TypeDesc) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.IsArray != o.IsArray {
		return false
	}
	if t.IsArray {
		return t.Elem.Equal(o.Elem)
	}
	return t.Name == o.Name
}

// String renders the type the same way the surface syntax spells it.
func (t *TypeDesc) String() string {
	if t == nil {
		return "?"
	}
	if t.IsArray {
		return t.Elem.String() + "[]"
	}
	return t.Name
}

// FromAST converts a parsed *ast.Type into a resolved TypeDesc. It performs
// no lookup: unknown scalar names are kept as-is and rejected later by
// analysis if no matching declaration exists.
func FromAST(t *ast.Type) *TypeDesc {
	if t == nil {
		return nil
	}
	if t.IsArray {
		return Array(FromAST(t.Subtype))
	}
	return &TypeDesc{Name: t.Name}
}

// typeCode implements §4.5's typeCode(T) grammar: a scalar's own name, or
// 'A' prefixed onto its element's code for an array.
func typeCode(t *TypeDesc) string {
	if t == nil {
		return "?"
	}
	if t.IsArray {
		return "A" + typeCode(t.Elem)
	}
	return t.Name
}
