package scope

import (
	"fmt"

	"duskc/ast"
)

// AffixKey identifies an operator table entry by operator position, symbol,
// and operand types, matching resolve_affix's lookup shape in §4.3.
type AffixKey struct {
	Kind      ast.AffixKind
	Operator  string
	Operands  string // joined typeCode signature, order-sensitive
}

// Scope holds one lexical level's declarations: a symbol table, a function
// table keyed by mangled name, an operator table, a type table, and a
// pointer to the enclosing scope. The bottom-most Scope in a ScopeContext
// is the shared global scope, preserved across every file in the queue.
type Scope struct {
	owner  ast.Node
	label  string
	parent *Scope

	symbols   map[string]*ast.Dec
	functions map[string]*ast.Fn
	affixes   map[AffixKey]*ast.Affix
	types     map[string]*TypeDesc

	// inLoop is true for scopes introduced by a Loop node or nested inside
	// one, so break/continue validity can be checked without a separate
	// stack.
	inLoop bool
}

func newScope(owner ast.Node, label string, parent *Scope) *Scope {
	s := &Scope{
		owner:     owner,
		label:     label,
		parent:    parent,
		symbols:   make(map[string]*ast.Dec),
		functions: make(map[string]*ast.Fn),
		affixes:   make(map[AffixKey]*ast.Affix),
		types:     make(map[string]*TypeDesc),
	}
	if parent != nil {
		s.inLoop = parent.inLoop
	}
	return s
}

// ResolveStatus reports why resolve_fn / resolve_affix did not return a
// single unambiguous match.
type ResolveStatus int

const (
	Resolved ResolveStatus = iota
	NotFound
	Ambiguous
)

// ScopeContext is a stack of Scopes rooted at the global scope. It is the
// sole owner of scope-nesting state; nothing outside this package mutates
// it directly.
type ScopeContext struct {
	stack []*Scope
}

// NewContext creates a ScopeContext with a single global scope at the
// bottom, preserved across every file the driver queues.
func NewContext() *ScopeContext {
	global := newScope(nil, "global", nil)
	return &ScopeContext{stack: []*Scope{global}}
}

// Top returns the innermost active scope.
func (c *ScopeContext) Top() *Scope { return c.stack[len(c.stack)-1] }

// Global returns the bottom-most scope shared by the whole queued file set.
func (c *ScopeContext) Global() *Scope { return c.stack[0] }

// Depth reports how many scopes (including global) are currently active.
// Tests use this to assert push/pop balance across passes.
func (c *ScopeContext) Depth() int { return len(c.stack) }

// Enter pushes a new scope owned by node, tagged with label for debugging.
func (c *ScopeContext) Enter(node ast.Node, label string) {
	child := newScope(node, label, c.Top())
	if label == ast.KindLoop.String() {
		child.inLoop = true
	}
	c.stack = append(c.stack, child)
}

// Leave pops the innermost scope. It panics on an attempt to pop the
// global scope, matching §4.3's "fails (assertion) if the stack underflows
// the global scope" — a ScopeContext with unbalanced enter/leave calls
// indicates a framework bug, not a user-facing error.
func (c *ScopeContext) Leave() {
	if len(c.stack) <= 1 {
		panic("scope: Leave() called with no scope above global")
	}
	c.stack = c.stack[:len(c.stack)-1]
}

// DeclareSymbol inserts dec into the current scope under name. It reports
// an error if name already exists in this exact scope (redeclaration in an
// ancestor scope is legal shadowing).
func (c *ScopeContext) DeclareSymbol(name string, dec *ast.Dec) error {
	top := c.Top()
	if _, exists := top.symbols[name]; exists {
		return fmt.Errorf("redeclaration of %q in the same scope", name)
	}
	top.symbols[name] = dec
	return nil
}

// ResolveSymbol walks from the current scope up to global, returning the
// innermost match.
func (c *ScopeContext) ResolveSymbol(name string) (*ast.Dec, bool) {
	for s := c.Top(); s != nil; s = s.parent {
		if d, ok := s.symbols[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// DeclareFn mangles fn per §4.5 (namespace and impl-type prefixes must
// already be set on fn by the caller) and inserts it into the current
// scope's function table.
func (c *ScopeContext) DeclareFn(fn *ast.Fn, params []*TypeDesc) error {
	return c.declareFnInto(c.Top(), fn, params)
}

// DeclareFnGlobal is DeclareFn but always targets the persistent global
// scope. Extern and impl members are declared while a transient block
// scope is on top of the stack (the extern block's own scope, or the
// impl's Members block's own scope) that gets popped before any outside
// call site could resolve against it, so those declarations must skip
// straight to global instead of going through Top().
func (c *ScopeContext) DeclareFnGlobal(fn *ast.Fn, params []*TypeDesc) error {
	return c.declareFnInto(c.Global(), fn, params)
}

func (c *ScopeContext) declareFnInto(target *Scope, fn *ast.Fn, params []*TypeDesc) error {
	fn.MangledName = Mangle(fn.Namespace, fn.SelfType, fn.UnmangledName, params)
	if _, exists := target.functions[fn.MangledName]; exists {
		return fmt.Errorf("redeclaration of %q", fn.MangledName)
	}
	target.functions[fn.MangledName] = fn
	return nil
}

// ResolveFn implements §4.3/§4.5's overload resolution: try the exact
// mangled name for name+argTypes; on miss, fall back to the unmangled name
// only if it names exactly one candidate across the visible scope chain.
func (c *ScopeContext) ResolveFn(name string, argTypes []*TypeDesc) (*ast.Fn, ResolveStatus) {
	mangled := Mangle("", "", name, argTypes)
	if fn, ok := c.lookupFn(mangled); ok {
		return fn, Resolved
	}

	var candidates []*ast.Fn
	for s := c.Top(); s != nil; s = s.parent {
		for _, fn := range s.functions {
			if fn.UnmangledName == name {
				candidates = append(candidates, fn)
			}
		}
	}

	switch len(candidates) {
	case 0:
		return nil, NotFound
	case 1:
		return candidates[0], Resolved
	default:
		return nil, Ambiguous
	}
}

// ResolveFnMangled looks up a call already marked FnCall.Mangled == true
// (step 1 of §4.5's overload resolution) directly by its stored name.
func (c *ScopeContext) ResolveFnMangled(mangledName string) (*ast.Fn, bool) {
	return c.lookupFn(mangledName)
}

func (c *ScopeContext) lookupFn(mangled string) (*ast.Fn, bool) {
	for s := c.Top(); s != nil; s = s.parent {
		if fn, ok := s.functions[mangled]; ok {
			return fn, true
		}
	}
	return nil, false
}

// DeclareAffix inserts an operator overload into the current scope's
// operator table, keyed by (kind, operator, operand type signature).
func (c *ScopeContext) DeclareAffix(affix *ast.Affix, operands []*TypeDesc) error {
	return c.declareAffixInto(c.Top(), affix, operands)
}

// DeclareAffixGlobal is DeclareAffix but always targets the persistent
// global scope, for the same reason DeclareFnGlobal exists: an impl
// operator's own Members block scope is popped before any call site
// outside the impl could resolve against it.
func (c *ScopeContext) DeclareAffixGlobal(affix *ast.Affix, operands []*TypeDesc) error {
	return c.declareAffixInto(c.Global(), affix, operands)
}

func (c *ScopeContext) declareAffixInto(target *Scope, affix *ast.Affix, operands []*TypeDesc) error {
	affix.MangledName = Mangle(affix.Namespace, "", affix.UnmangledName, operands)
	key := AffixKey{Kind: affix.FixKind, Operator: affix.Operator, Operands: signature(operands)}
	if _, exists := target.affixes[key]; exists {
		return fmt.Errorf("redeclaration of operator %q for these operand types", affix.Operator)
	}
	target.affixes[key] = affix
	return nil
}

// ResolveAffix walks the scope chain looking for a user-defined operator
// overload matching kind, op, and the exact operand type signature.
func (c *ScopeContext) ResolveAffix(kind ast.AffixKind, op string, operands []*TypeDesc) (*ast.Affix, bool) {
	key := AffixKey{Kind: kind, Operator: op, Operands: signature(operands)}
	for s := c.Top(); s != nil; s = s.parent {
		if a, ok := s.affixes[key]; ok {
			return a, true
		}
	}
	return nil, false
}

// DeclareType registers a named type (from a Struct declaration) in the
// current scope's type table.
func (c *ScopeContext) DeclareType(name string, t *TypeDesc) error {
	top := c.Top()
	if _, exists := top.types[name]; exists {
		return fmt.Errorf("redeclaration of type %q", name)
	}
	top.types[name] = t
	return nil
}

// ResolveType walks the scope chain for a named type.
func (c *ScopeContext) ResolveType(name string) (*TypeDesc, bool) {
	for s := c.Top(); s != nil; s = s.parent {
		if t, ok := s.types[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// InLoop reports whether the current scope is nested inside a Loop, for
// validating break/continue placement.
func (c *ScopeContext) InLoop() bool { return c.Top().inLoop }

func signature(types []*TypeDesc) string {
	s := ""
	for i, t := range types {
		if i > 0 {
			s += "_"
		}
		s += typeCode(t)
	}
	return s
}
