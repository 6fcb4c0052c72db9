package unitcalc

// Scope is a lexical environment mapping identifier names to previously
// computed values. Lookups that miss walk outward to the parent scope. A
// Scope is not safe for concurrent use; a live scope belongs to one
// evaluation session at a time.
type Scope struct {
	vars   map[string]Value
	parent *Scope
}

// NewScope creates an empty root scope.
func NewScope() *Scope {
	return &Scope{vars: make(map[string]Value)}
}

// DefaultScope creates a root scope preloaded with the unit table, so that
// names like m, cm, and kg evaluate to dimensioned numbers. prec is the
// precision in bits of the unit values; zero means DefaultPrec.
func DefaultScope(prec uint) *Scope {
	s := NewScope()
	registerUnits(s, prec)
	return s
}

// Child creates a scope nested inside s. Bindings in the child shadow the
// parent's; the parent is never modified through the child.
func (s *Scope) Child() *Scope {
	return &Scope{vars: make(map[string]Value), parent: s}
}

// Get looks up a name, walking outward through enclosing scopes on a miss.
func (s *Scope) Get(name string) (Value, bool) {
	for c := s; c != nil; c = c.parent {
		if v, ok := c.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Set binds a name in s, shadowing any binding in enclosing scopes.
func (s *Scope) Set(name string, v Value) {
	s.vars[name] = v
}
